// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fork - build a forked genesis from a live chain
//
// a run:
//
//  1. checks the runtime and the template (or node binary) are present
//  2. reads the runtime code
//  3. builds the allowlist from the pallet names
//  4. obtains the live pairs: exported state, cached snapshot or a
//     fresh download, in that order of preference
//  5. loads the template, building it with the node if needed
//  6. merges, applies the overrides and saves the result
package fork
