// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"fmt"
	"io"
	"sync"

	"github.com/bitmark-inc/logger"
)

// ANSI colour codes
const (
	CoReset  = "\x1b[0m"
	CoRed    = "\x1b[31m"
	CoGreen  = "\x1b[32m"
	CoYellow = "\x1b[33m"
)

// Console - messages for the operator
//
// each message is written to out, coloured if enabled, and copied to
// the log at the matching level
type Console struct {
	sync.Mutex
	out    io.Writer
	log    *logger.L
	colour bool
}

// NewConsole - create a console, log may be nil
func NewConsole(out io.Writer, log *logger.L, colour bool) *Console {
	return &Console{
		out:    out,
		log:    log,
		colour: colour,
	}
}

// Writer - the underlying output, for progress lines
func (c *Console) Writer() io.Writer {
	return c.out
}

// Info - progress and results, green
func (c *Console) Info(format string, arguments ...interface{}) {
	message := fmt.Sprintf(format, arguments...)
	if nil != c.log {
		c.log.Info(message)
	}
	c.print(CoGreen, message)
}

// Plain - informational text without colour
func (c *Console) Plain(format string, arguments ...interface{}) {
	message := fmt.Sprintf(format, arguments...)
	if nil != c.log {
		c.log.Info(message)
	}
	c.print("", message)
}

// Warn - a cache or default is being used, yellow
func (c *Console) Warn(format string, arguments ...interface{}) {
	message := fmt.Sprintf(format, arguments...)
	if nil != c.log {
		c.log.Warn(message)
	}
	c.print(CoYellow, message)
}

// Error - a failure the operator must fix, red
func (c *Console) Error(format string, arguments ...interface{}) {
	message := fmt.Sprintf(format, arguments...)
	if nil != c.log {
		c.log.Error(message)
	}
	c.print(CoRed, message)
}

func (c *Console) print(colour string, message string) {
	if nil == c.out {
		return
	}

	c.Lock()
	defer c.Unlock()

	if !c.colour || "" == colour {
		fmt.Fprintln(c.out, message)
		return
	}
	fmt.Fprintf(c.out, "%s%s%s\n", colour, message, CoReset)
}
