// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storagekey - substrate storage key hashing
//
// A storage item lives under:
//
//	Twox128(pallet) ++ Twox128(item) [++ hasher(map key)]
//
// Twox128 is two xxHash64 digests (seeds 0 and 1) written little
// endian.  Blake2_128Concat is the 16 byte blake2b digest followed by
// the unhashed key, so the key can be recovered from the storage key.
//
// All keys are handled as lowercase hex strings with a "0x" marker,
// the same form the node RPC uses.
package storagekey
