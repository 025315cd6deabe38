// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/forkgenesis/fault"
)

// New - a limiter for count requests per second
//
// a zero or negative count disables limiting
func New(count float64, burst int) *rate.Limiter {
	if count <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(count), burst)
}

// Limit - wait for a single request slot, or until ctx is done
func Limit(ctx context.Context, limiter *rate.Limiter) error {
	return LimitN(ctx, limiter, 1)
}

// LimitN - wait for count request slots, or until ctx is done
func LimitN(ctx context.Context, limiter *rate.Limiter, count int) error {
	r := limiter.ReserveN(time.Now(), count)
	if !r.OK() {
		return fault.ErrRateLimiting
	}

	delay := r.Delay()
	if 0 == delay {
		return nil
	}

	t := time.NewTimer(delay)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}
