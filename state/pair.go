// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state

import (
	"encoding/json"

	"github.com/bitmark-inc/forkgenesis/fault"
)

// Pair - one storage entry, both fields are 0x prefixed hex
//
// JSON form is the two element array returned by state_getPairs:
//   ["0x26aa...", "0x0100..."]
type Pair struct {
	Key   string
	Value string
}

// MarshalJSON - convert a pair to its array form
func (p Pair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{p.Key, p.Value})
}

// UnmarshalJSON - convert the array form to a pair
func (p *Pair) UnmarshalJSON(s []byte) error {
	var a []string
	if err := json.Unmarshal(s, &a); nil != err {
		return fault.ErrInvalidPair
	}
	if 2 != len(a) {
		return fault.ErrInvalidPair
	}
	p.Key = a[0]
	p.Value = a[1]
	return nil
}
