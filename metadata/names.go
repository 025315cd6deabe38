// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metadata

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/bitmark-inc/forkgenesis/fault"
)

// LoadNames - read a module name cache file: a JSON array of strings
func LoadNames(filename string) ([]string, error) {
	data, err := os.ReadFile(filename)
	if nil != err {
		return nil, err
	}

	names := []string{}
	err = json.Unmarshal(data, &names)
	if nil != err {
		return nil, errors.Wrapf(fault.ErrInvalidMetadata, "module names: %s: %s", filename, err)
	}
	return names, nil
}

// SaveNames - write a module name cache file
func SaveNames(filename string, names []string) error {
	if nil == names {
		names = []string{}
	}
	data, err := json.MarshalIndent(names, "", "  ")
	if nil != err {
		return err
	}
	return os.WriteFile(filename, append(data, '\n'), 0o644)
}
