// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error values shared by every forkgenesis package
//
// each value has a class (exists, invalid, not found, process) that
// survives errors.Wrap so callers can test the class or compare
// errors.Cause against a value
package fault
