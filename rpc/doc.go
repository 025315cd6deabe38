// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc - JSON-RPC 2.0 client for a substrate node's HTTP endpoint
//
// the client implements state.Source, every request is rate limited
// and may be retried on transport failure.  Errors returned by the
// node itself are never retried
package rpc
