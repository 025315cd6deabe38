// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fork

import (
	"strings"
	"time"

	"github.com/bitmark-inc/forkgenesis/account"
	"github.com/bitmark-inc/forkgenesis/allowlist"
	"github.com/bitmark-inc/forkgenesis/keyspace"
	"github.com/bitmark-inc/forkgenesis/storagekey"
)

// Files - artifact paths, all absolute
type Files struct {
	Binary        string
	RuntimeWasm   string
	RuntimeHex    string
	Modules       string
	Template      string
	Output        string
	ExportedState string
	StatePairs    string
}

// Options - everything a run needs besides the source
type Options struct {
	Files            Files
	ChunksLevel      int
	FromBlock        *uint64
	QuickMode        bool
	MaxParallel      int
	Sudo             string
	Chain            string
	Allowlist        allowlist.Builder
	ProgressInterval time.Duration
}

// keyspace options for a download
func (o Options) keyspace() keyspace.Options {
	return keyspace.Options{
		Depth:       o.ChunksLevel,
		Parallel:    o.QuickMode,
		MaxParallel: o.MaxParallel,
	}
}

// SS58 addresses are at least this long
const minimumAddressLength = 40

// SudoKey - the public key to place under Sudo.Key
//
// empty means no change; a hex public key or SS58 address is used as
// given; any other value selects the development account
func SudoKey(setting string) (string, error) {
	setting = strings.TrimSpace(setting)
	if "" == setting {
		return "", nil
	}

	if !looksLikeKey(setting) {
		return account.Alice.Hex(), nil
	}

	a, err := account.Parse(setting)
	if nil != err {
		return "", err
	}
	return a.Hex(), nil
}

func looksLikeKey(s string) bool {
	if strings.HasPrefix(s, storagekey.HexMarker) && len(s) == len(storagekey.HexMarker)+2*account.PublicKeySize {
		return true
	}
	return len(s) >= minimumAddressLength
}
