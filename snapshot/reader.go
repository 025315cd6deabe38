// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package snapshot

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/pkg/errors"

	"github.com/bitmark-inc/forkgenesis/fault"
	"github.com/bitmark-inc/forkgenesis/state"
)

// LoadPairs - read a published snapshot
func LoadPairs(path string) ([]state.Pair, error) {
	data, err := os.ReadFile(path)
	if nil != err {
		return nil, err
	}

	pairs := []state.Pair{}
	err = json.Unmarshal(data, &pairs)
	if nil != err {
		return nil, errors.Wrapf(fault.ErrInvalidPair, "snapshot: %s: %s", path, err)
	}
	return pairs, nil
}

// only the storage of an exported chain spec is read
type exportedState struct {
	Genesis *struct {
		Raw *struct {
			Top map[string]string `json:"top"`
		} `json:"raw"`
	} `json:"genesis"`
}

// LoadExportedState - the genesis.raw.top entries of a chain spec
// exported by the node, sorted by key
func LoadExportedState(path string) ([]state.Pair, error) {
	data, err := os.ReadFile(path)
	if nil != err {
		return nil, err
	}

	var exported exportedState
	err = json.Unmarshal(data, &exported)
	if nil != err {
		return nil, errors.Wrapf(fault.ErrInvalidGenesis, "exported state: %s: %s", path, err)
	}
	if nil == exported.Genesis || nil == exported.Genesis.Raw || nil == exported.Genesis.Raw.Top {
		return nil, errors.Wrapf(fault.ErrMissingGenesisSection, "exported state: %s", path)
	}

	top := exported.Genesis.Raw.Top
	pairs := make([]state.Pair, 0, len(top))
	for key, value := range top {
		pairs = append(pairs, state.Pair{Key: key, Value: value})
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Key < pairs[j].Key
	})
	return pairs, nil
}
