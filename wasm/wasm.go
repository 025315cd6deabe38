// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wasm - the runtime code placed under the :code key
package wasm

import (
	"encoding/hex"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/bitmark-inc/forkgenesis/fault"
	"github.com/bitmark-inc/forkgenesis/storagekey"
)

// Code - the runtime as 0x prefixed hex
//
// an existing hex file is used as is (with or without its own 0x);
// otherwise the wasm blob is encoded and the hex file written for the
// next run
func Code(hexPath string, wasmPath string) (string, error) {
	data, err := os.ReadFile(hexPath)
	if nil == err {
		code := strings.TrimSpace(string(data))
		code = strings.TrimPrefix(code, storagekey.HexMarker)
		if 0 == len(code) {
			return "", errors.Wrapf(fault.ErrInvalidHex, "runtime hex: %s is empty", hexPath)
		}
		return storagekey.HexMarker + code, nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}

	blob, err := os.ReadFile(wasmPath)
	if nil != err {
		if os.IsNotExist(err) {
			return "", errors.Wrap(fault.ErrRuntimeNotFound, wasmPath)
		}
		return "", err
	}

	code := hex.EncodeToString(blob)
	err = os.WriteFile(hexPath, []byte(code), 0o644)
	if nil != err {
		return "", errors.Wrapf(err, "runtime hex: %s", hexPath)
	}
	return storagekey.HexMarker + code, nil
}

// Available - true if Code can succeed without reading the files
func Available(hexPath string, wasmPath string) bool {
	if _, err := os.Stat(hexPath); nil == err {
		return true
	}
	_, err := os.Stat(wasmPath)
	return nil == err
}
