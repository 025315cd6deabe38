// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package genesis - raw chain specification documents
//
// a raw chain spec holds its initial storage as a flat map:
//
//   { ..., "genesis": { "raw": { "top": { "0x<key>": "0x<value>", ... }, ... } } }
//
// this package loads such a document (or has the node build one),
// merges allow-listed pairs from a live chain into the top map,
// applies the fixed overrides and writes the result back
package genesis
