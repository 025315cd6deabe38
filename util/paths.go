// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"os"
	"path/filepath"
)

// EnsureAbsolute - a path relative to directory becomes absolute,
// an absolute path is only cleaned
func EnsureAbsolute(directory string, filePath string) string {
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(directory, filePath)
	}
	return filepath.Clean(filePath)
}

// EnsureFileExists - true if name exists and is not a directory
func EnsureFileExists(name string) bool {
	info, err := os.Stat(name)
	return nil == err && !info.IsDir()
}

// EnsureExecutable - add the execute bits to an existing file
//
// returns an os.IsNotExist error when the file is missing
func EnsureExecutable(name string) error {
	info, err := os.Stat(name)
	if nil != err {
		return err
	}
	if info.IsDir() {
		return &os.PathError{Op: "chmod", Path: name, Err: os.ErrInvalid}
	}

	mode := info.Mode().Perm()
	if 0o111 == mode&0o111 {
		return nil
	}
	return os.Chmod(name, mode|0o111)
}
