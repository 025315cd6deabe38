// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storagekey

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/blake2b"
)

// Twox - xxHash64 based hash producing bitWidth bits
//
// bitWidth is rounded up to a multiple of 64, one seed per word
func Twox(data []byte, bitWidth int) []byte {
	words := (bitWidth + 63) / 64
	result := make([]byte, 0, 8*words)
	for seed := 0; seed < words; seed += 1 {
		d := xxhash.NewWithSeed(uint64(seed))
		d.Write(data)
		result = binary.LittleEndian.AppendUint64(result, d.Sum64())
	}
	return result
}

// Twox64 - single xxHash64 digest
func Twox64(data []byte) []byte {
	return Twox(data, 64)
}

// Twox128 - the hasher used for pallet and item names
func Twox128(data []byte) []byte {
	return Twox(data, 128)
}

// Blake2_128 - 16 byte blake2b digest
func Blake2_128(data []byte) []byte {
	h, err := blake2b.New(16, nil)
	if nil != err {
		// only possible with an invalid size
		panic(err)
	}
	h.Write(data)
	return h.Sum(nil)
}

// Blake2_128Concat - digest followed by the original data
func Blake2_128Concat(data []byte) []byte {
	return append(Blake2_128(data), data...)
}
