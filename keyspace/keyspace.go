// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package keyspace - split the storage key space into 256^depth
// disjoint prefixes and visit each one
//
// only the last level fans out; every other level is walked in
// ascending order, one child at a time
package keyspace

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/bitmark-inc/forkgenesis/fault"
	"github.com/bitmark-inc/forkgenesis/storagekey"
)

// limits
const (
	Fanout             = 256
	MaximumDepth       = 3
	DefaultMaxParallel = Fanout
)

// Root - the prefix that matches every key
const Root = storagekey.HexMarker

// LeafFunc - called exactly once for each leaf prefix
type LeafFunc func(ctx context.Context, prefix string) error

// Options - how to walk the key space
type Options struct {
	Depth       int  // levels below the root, 0..MaximumDepth
	Parallel    bool // visit the children of the last level concurrently
	MaxParallel int  // concurrent visits, 1..Fanout, zero selects the default
}

// Leaves - number of leaves visited for depth
func Leaves(depth int) uint64 {
	n := uint64(1)
	for i := 0; i < depth; i += 1 {
		n *= Fanout
	}
	return n
}

// Children - the 256 prefixes one byte longer, in ascending order
func Children(prefix string) []string {
	children := make([]string, Fanout)
	for i := 0; i < Fanout; i += 1 {
		children[i] = fmt.Sprintf("%s%02x", prefix, i)
	}
	return children
}

// Validate - check the options are usable
func (o Options) Validate() error {
	if o.Depth < 0 || o.Depth > MaximumDepth {
		return errors.Wrapf(fault.ErrInvalidChunksLevel, "depth: %d", o.Depth)
	}
	if o.MaxParallel < 0 || o.MaxParallel > Fanout {
		return errors.Wrapf(fault.ErrInvalidMaxParallel, "max parallel: %d", o.MaxParallel)
	}
	return nil
}

// Enumerate - call visit once for every leaf under the root
//
// the first error stops the walk and is returned; leaves already
// running in parallel see a cancelled context
func Enumerate(ctx context.Context, options Options, visit LeafFunc) error {
	if err := options.Validate(); nil != err {
		return err
	}
	if 0 == options.MaxParallel {
		options.MaxParallel = DefaultMaxParallel
	}
	return walk(ctx, options, Root, options.Depth, visit)
}

func walk(ctx context.Context, options Options, prefix string, levelsRemaining int, visit LeafFunc) error {
	if err := ctx.Err(); nil != err {
		return err
	}

	if 0 == levelsRemaining {
		return visit(ctx, prefix)
	}

	if 1 == levelsRemaining && options.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(options.MaxParallel)

	fanout_loop:
		for _, child := range Children(prefix) {
			if nil != gctx.Err() {
				break fanout_loop
			}
			leaf := child
			g.Go(func() error {
				if err := gctx.Err(); nil != err {
					return err
				}
				return visit(gctx, leaf)
			})
		}
		if err := g.Wait(); nil != err {
			return err
		}
		return ctx.Err()
	}

	for _, child := range Children(prefix) {
		err := walk(ctx, options, child, levelsRemaining-1, visit)
		if nil != err {
			return err
		}
	}
	return nil
}
