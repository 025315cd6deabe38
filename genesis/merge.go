// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package genesis

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/forkgenesis/allowlist"
	"github.com/bitmark-inc/forkgenesis/state"
	"github.com/bitmark-inc/forkgenesis/storagekey"
)

// Overrides - values forced into the storage map after merging
type Overrides struct {
	Code string // runtime code, 0x prefixed hex
	Sudo string // sudo public key, 0x prefixed hex, empty for no change
}

// Result - what a merge changed
type Result struct {
	Copied             int  // pairs copied from the live chain
	Replaced           int  // of those, keys already present in the template
	RemovedLastUpgrade bool // System.LastRuntimeUpgrade was present
	SudoSet            bool
}

// Merge - copy the allowed pairs into the document and apply the
// overrides
//
//  1. keep the pairs whose key matches the allowlist
//  2. set each of them in the top map, replacing template values
//  3. delete System.LastRuntimeUpgrade
//  4. set :code to the runtime code
//  5. set Sudo.Key when a sudo key is given
//
// steps 3 to 5 always win over copied pairs
func Merge(d *Document, list *allowlist.Allowlist, pairs []state.Pair, overrides Overrides, log *logger.L) Result {
	if nil == d.Top {
		d.Top = make(map[string]string)
	}

	result := Result{}
	for _, p := range list.Filter(pairs) {
		if _, ok := d.Top[p.Key]; ok {
			result.Replaced += 1
		}
		d.Top[p.Key] = p.Value
		result.Copied += 1
	}

	if _, ok := d.Top[storagekey.LastRuntimeUpgrade]; ok {
		result.RemovedLastUpgrade = true
	}
	delete(d.Top, storagekey.LastRuntimeUpgrade)

	d.Top[storagekey.Code] = overrides.Code

	if "" != overrides.Sudo {
		d.Top[storagekey.SudoKey] = overrides.Sudo
		result.SudoSet = true
	}

	if nil != log {
		log.Infof("merged: %d pairs  replaced: %d  removed last upgrade: %t  sudo set: %t", result.Copied, result.Replaced, result.RemovedLastUpgrade, result.SudoSet)
	}
	return result
}
