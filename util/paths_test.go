// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/forkgenesis/util"
)

func TestEnsureAbsolute(t *testing.T) {
	assert.Equal(t, "/data/fork.json", util.EnsureAbsolute("/data", "fork.json"), "relative path")
	assert.Equal(t, "/data/log", util.EnsureAbsolute("/data", "./x/../log"), "unclean path")
	assert.Equal(t, "/tmp/out.json", util.EnsureAbsolute("/data", "/tmp//out.json"), "absolute path")
}

func TestEnsureFileExists(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "file")

	assert.False(t, util.EnsureFileExists(name), "missing file")
	assert.False(t, util.EnsureFileExists(dir), "directory")

	assert.Nil(t, os.WriteFile(name, []byte("x"), 0o600), "write file")
	assert.True(t, util.EnsureFileExists(name), "existing file")
}

func TestEnsureExecutable(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "binary")

	err := util.EnsureExecutable(name)
	assert.True(t, os.IsNotExist(err), "expected not exist: %v", err)

	err = util.EnsureExecutable(dir)
	assert.NotNil(t, err, "directory accepted")
	assert.False(t, os.IsNotExist(err), "directory reported missing")

	assert.Nil(t, os.WriteFile(name, []byte("#!/bin/sh\n"), 0o600), "write file")
	assert.Nil(t, util.EnsureExecutable(name), "chmod error")

	info, err := os.Stat(name)
	assert.Nil(t, err, "stat error")
	assert.Equal(t, os.FileMode(0o711), info.Mode().Perm(), "wrong mode")
}
