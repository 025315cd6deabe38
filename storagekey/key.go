// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storagekey

import (
	"encoding/hex"
	"strings"

	"github.com/bitmark-inc/forkgenesis/fault"
)

// HexMarker - prefix on all hex encoded keys and values
const HexMarker = "0x"

// fixed well known keys
var (
	// runtime wasm blob
	Code = ToHex([]byte(":code"))

	// System.LastRuntimeUpgrade, absence forces on_runtime_upgrade to run
	LastRuntimeUpgrade = ItemKey("System", "LastRuntimeUpgrade")

	// Sudo.Key, the account allowed to dispatch sudo calls
	SudoKey = ItemKey("Sudo", "Key")

	// System.Account map prefix, all account balances and nonces
	SystemAccount = ItemKey("System", "Account")
)

// HexPrefix - H(name, 128): the storage prefix of a pallet
func HexPrefix(name string) string {
	return ToHex(Twox([]byte(name), 128))
}

// ItemKey - storage key of a plain item, also the prefix of a map
func ItemKey(pallet string, item string) string {
	k := Twox128([]byte(pallet))
	k = append(k, Twox128([]byte(item))...)
	return ToHex(k)
}

// AccountKey - System.Account entry for a 32 byte public key
func AccountKey(publicKey []byte) string {
	return SystemAccount + hex.EncodeToString(Blake2_128Concat(publicKey))
}

// ToHex - encode bytes with the "0x" marker
func ToHex(data []byte) string {
	return HexMarker + hex.EncodeToString(data)
}

// FromHex - decode a hex string, the "0x" marker is optional
func FromHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, HexMarker))
	if nil != err {
		return nil, fault.ErrInvalidHex
	}
	return b, nil
}

// ValidPrefix - check for "0x" followed by an even number of hex digits
func ValidPrefix(prefix string) bool {
	if !strings.HasPrefix(prefix, HexMarker) {
		return false
	}
	_, err := hex.DecodeString(prefix[len(HexMarker):])
	return nil == err
}
