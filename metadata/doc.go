// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package metadata - pallet names from SCALE encoded runtime metadata
//
// Only enough of the format is decoded to list the pallets that own
// storage:
//
//	"meta" ++ version(u8) ++ type registry ++ Vec<pallet> ++ ...
//
// The type registry is walked and discarded; storage entries are
// walked to reach the next pallet.  Versions 14 and 15 are supported,
// they differ only by the docs vector at the end of each pallet.
package metadata
