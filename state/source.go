// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state

import (
	"context"
)

//go:generate mockgen -destination=mocks/source.go -package=mocks github.com/bitmark-inc/forkgenesis/state Source

// Source - the live chain, as seen through its RPC
type Source interface {
	// raw SCALE encoded runtime metadata at the head
	Metadata(ctx context.Context) ([]byte, error)

	// hash of the block at height, or of the head when height is nil
	BlockHash(ctx context.Context, height *uint64) (string, error)

	// every pair whose key starts with prefix, as of block at
	Pairs(ctx context.Context, prefix string, at string) ([]Pair, error)
}
