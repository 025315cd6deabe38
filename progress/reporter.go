// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/bitmark-inc/logger"
)

// DefaultInterval - time between reports
const DefaultInterval = 2 * time.Second

// Reporter - background task that reports a counter until stopped
type Reporter struct {
	log      *logger.L
	counter  *Counter
	console  io.Writer
	interval time.Duration
	shutdown chan struct{}
	finished chan struct{}
}

// NewReporter - create a reporter, console may be nil
func NewReporter(log *logger.L, counter *Counter, console io.Writer, interval time.Duration) *Reporter {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Reporter{
		log:      log,
		counter:  counter,
		console:  console,
		interval: interval,
		shutdown: make(chan struct{}),
		finished: make(chan struct{}),
	}
}

// Start - run the reporting loop in the background
func (r *Reporter) Start() {
	go r.run()
}

// Stop - end the loop and wait for the final report
func (r *Reporter) Stop() {
	close(r.shutdown)
	<-r.finished
}

func (r *Reporter) run() {
	defer close(r.finished)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	last := uint64(0)
loop:
	for {
		select {
		case <-ticker.C:
			done := r.counter.Done()
			if done != last {
				r.report(false)
				last = done
			}
		case <-r.shutdown:
			break loop
		}
	}
	r.report(true)
}

func (r *Reporter) report(final bool) {
	done := r.counter.Done()
	total := r.counter.Total()
	r.log.Infof("chunks: %d/%d  %.1f%%", done, total, r.counter.Percent())

	if nil == r.console {
		return
	}
	fmt.Fprintf(r.console, "\rchunks: %d/%d  %5.1f%%", done, total, r.counter.Percent())
	if final {
		fmt.Fprintln(r.console)
	}
}
