// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fork

import (
	"context"
	"io"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/pkg/errors"

	"github.com/bitmark-inc/forkgenesis/keyspace"
	"github.com/bitmark-inc/forkgenesis/progress"
	"github.com/bitmark-inc/forkgenesis/snapshot"
	"github.com/bitmark-inc/forkgenesis/state"
)

// DownloadOptions - how to fetch a snapshot
type DownloadOptions struct {
	Keyspace         keyspace.Options
	FromBlock        *uint64   // nil for the head
	ProgressInterval time.Duration
	Console          io.Writer // progress line, may be nil
}

// DownloadResult - what a download fetched
type DownloadResult struct {
	At      string
	Leaves  uint64
	Batches int
	Pairs   int
}

// Download - fetch every pair of the live chain into a snapshot at path
//
// the block hash is resolved once and used for every leaf; on any
// error nothing is left at path or at its partial file
func Download(ctx context.Context, source state.Source, options DownloadOptions, path string, log *logger.L) (DownloadResult, error) {
	result := DownloadResult{}

	err := options.Keyspace.Validate()
	if nil != err {
		return result, err
	}

	at, err := source.BlockHash(ctx, options.FromBlock)
	if nil != err {
		return result, errors.Wrap(err, "resolve snapshot block")
	}
	result.At = at
	result.Leaves = keyspace.Leaves(options.Keyspace.Depth)

	log.Infof("snapshot at: %s  depth: %d  leaves: %d  parallel: %t", at, options.Keyspace.Depth, result.Leaves, options.Keyspace.Parallel)

	w, err := snapshot.Create(path, log)
	if nil != err {
		return result, err
	}

	counter := progress.NewCounter(result.Leaves)
	reporter := progress.NewReporter(log, counter, options.Console, options.ProgressInterval)
	reporter.Start()

	err = keyspace.Enumerate(ctx, options.Keyspace, func(ctx context.Context, prefix string) error {
		pairs, err := source.Pairs(ctx, prefix, at)
		if nil != err {
			return errors.Wrapf(err, "fetch pairs at prefix %s", prefix)
		}
		err = w.Write(pairs)
		if nil != err {
			return errors.Wrapf(err, "write pairs at prefix %s", prefix)
		}
		counter.Advance()
		return nil
	})
	reporter.Stop()

	if nil != err {
		w.Abort()
		log.Errorf("download failed: %s", err)
		return result, err
	}

	err = w.Close()
	if nil != err {
		return result, err
	}

	result.Batches, result.Pairs = w.Counts()
	return result, nil
}
