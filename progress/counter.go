// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package progress

import (
	"sync/atomic"
)

// Counter - leaves completed out of a fixed total
//
// Advance may be called from any number of goroutines
type Counter struct {
	done  uint64
	total uint64
}

// NewCounter - counter for a known number of units
func NewCounter(total uint64) *Counter {
	return &Counter{total: total}
}

// Advance - add one completed unit, returns new value
func (c *Counter) Advance() uint64 {
	return atomic.AddUint64(&c.done, 1)
}

// Done - units completed so far
func (c *Counter) Done() uint64 {
	return atomic.LoadUint64(&c.done)
}

// Total - units expected
func (c *Counter) Total() uint64 {
	return c.total
}

// IsComplete - check if every unit was counted
func (c *Counter) IsComplete() bool {
	return c.Done() >= c.total
}

// Percent - completion as 0..100
func (c *Counter) Percent() float64 {
	if 0 == c.total {
		return 100
	}
	return 100 * float64(c.Done()) / float64(c.total)
}
