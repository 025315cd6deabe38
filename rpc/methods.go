// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"

	"github.com/bitmark-inc/forkgenesis/fault"
	"github.com/bitmark-inc/forkgenesis/state"
	"github.com/bitmark-inc/forkgenesis/storagekey"
)

const (
	methodGetMetadata  = "state_getMetadata"
	methodGetPairs     = "state_getPairs"
	methodGetBlockHash = "chain_getBlockHash"
)

var null = []byte("null")

var _ state.Source = (*Client)(nil)

// Metadata - raw SCALE runtime metadata at the head
func (c *Client) Metadata(ctx context.Context) ([]byte, error) {
	var reply string
	err := c.Call(ctx, methodGetMetadata, &reply)
	if nil != err {
		return nil, errors.Wrap(err, methodGetMetadata)
	}
	return storagekey.FromHex(reply)
}

// BlockHash - hash of the block at height, the head when height is nil
//
// hashes of numbered blocks are cached, the head is always fetched
func (c *Client) BlockHash(ctx context.Context, height *uint64) (string, error) {
	params := []interface{}{}
	key := ""
	if nil != height {
		key = strconv.FormatUint(*height, 10)
		if hash, found := c.hashes.Get(key); found {
			return hash.(string), nil
		}
		params = append(params, *height)
	}

	var reply json.RawMessage
	err := c.Call(ctx, methodGetBlockHash, &reply, params...)
	if nil != err {
		return "", errors.Wrap(err, methodGetBlockHash)
	}

	if 0 == len(reply) || bytes.Equal(reply, null) {
		if nil != height {
			return "", errors.Wrapf(fault.ErrBlockNotFound, "height: %d", *height)
		}
		return "", fault.ErrBlockNotFound
	}

	var hash string
	err = json.Unmarshal(reply, &hash)
	if nil != err {
		return "", errors.Wrap(err, methodGetBlockHash)
	}

	if "" != key {
		c.hashes.SetDefault(key, hash)
	}
	return hash, nil
}

// Pairs - every storage pair under prefix as of block at
//
// an empty at queries the head
func (c *Client) Pairs(ctx context.Context, prefix string, at string) ([]state.Pair, error) {
	params := []interface{}{prefix}
	if "" != at {
		params = append(params, at)
	}

	var reply []state.Pair
	err := c.Call(ctx, methodGetPairs, &reply, params...)
	if nil != err {
		return nil, errors.Wrapf(err, "%s: prefix: %s", methodGetPairs, prefix)
	}
	return reply, nil
}
