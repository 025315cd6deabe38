// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/forkgenesis/fault"
	"github.com/bitmark-inc/forkgenesis/rpc/ratelimit"
)

func TestUnlimited(t *testing.T) {
	limiter := ratelimit.New(0, 0)
	assert.Equal(t, rate.Inf, limiter.Limit(), "wrong limit")

	start := time.Now()
	for i := 0; i < 1000; i += 1 {
		err := ratelimit.Limit(context.Background(), limiter)
		assert.Nil(t, err, "wrong limit error")
	}
	assert.Less(t, time.Since(start), time.Second, "unlimited limiter delayed")
}

func TestLimitDelays(t *testing.T) {
	limiter := ratelimit.New(20, 1)

	start := time.Now()
	for i := 0; i < 3; i += 1 {
		err := ratelimit.Limit(context.Background(), limiter)
		assert.Nil(t, err, "wrong limit error")
	}
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond, "limiter did not delay")
}

func TestLimitCancelled(t *testing.T) {
	limiter := ratelimit.New(0.1, 1)
	assert.Nil(t, ratelimit.Limit(context.Background(), limiter), "first request should pass")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ratelimit.Limit(ctx, limiter)
	assert.Equal(t, context.Canceled, err, "wrong error")
}

func TestLimitNExceedsBurst(t *testing.T) {
	limiter := ratelimit.New(10, 2)
	err := ratelimit.LimitN(context.Background(), limiter, 3)
	assert.Equal(t, fault.ErrRateLimiting, err, "wrong error")
}
