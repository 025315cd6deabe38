// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package snapshot - the on-disk array of storage pairs
//
// a Writer streams batches from concurrent fetches into a single JSON
// array:
//
//	[["0x..","0x.."],["0x..","0x.."],...]
//
// the array is written to a ".partial" file which is renamed into
// place only when it is complete, so a file at the final path is
// always a whole snapshot
package snapshot
