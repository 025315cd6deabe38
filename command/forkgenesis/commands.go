// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/forkgenesis/fork"
	"github.com/bitmark-inc/forkgenesis/metadata"
	"github.com/bitmark-inc/forkgenesis/rpc"
	"github.com/bitmark-inc/forkgenesis/util"
)

// shared between Before, the command and After
type session struct {
	config  *Configuration
	log     *logger.L
	console *util.Console
	fork    *fork.Fork
}

// read the configuration, start logging and create the fork
func setup(c *cli.Context) (*session, error) {
	config, err := getConfiguration(c.GlobalString("config-file"), flagOverrides(c))
	if nil != err {
		return nil, err
	}

	err = logger.Initialise(config.Logging)
	if nil != err {
		return nil, err
	}

	m := &session{
		config: config,
		log:    logger.New("main"),
	}
	m.console = util.NewConsole(c.App.Writer, m.log, config.Colour)

	m.log.Infof("version: %s", version)
	m.log.Infof("data directory: %s", config.DataDirectory)

	source, err := rpc.New(config.rpcConfiguration(), logger.New("rpc"))
	if nil != err {
		m.finalise()
		return nil, err
	}

	options, err := config.forkOptions()
	if nil != err {
		m.finalise()
		return nil, err
	}

	m.fork, err = fork.New(options, source, m.console)
	if nil != err {
		m.finalise()
		return nil, err
	}

	m.console.Info("Using the HTTP endpoint %s", source.Endpoint())
	return m, nil
}

func (m *session) finalise() {
	m.log.Info("shutting down")
	logger.Finalise()
}

func getSession(c *cli.Context) *session {
	return c.App.Metadata[sessionKey].(*session)
}

// cancelled by SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runFork(c *cli.Context) error {
	m := getSession(c)

	ctx, cancel := signalContext()
	defer cancel()

	result, err := m.fork.Run(ctx)
	if nil != err {
		return err
	}

	m.log.Infof("prefixes: %d  pairs: %d  copied: %d  replaced: %d", result.Prefixes, result.Pairs, result.Merge.Copied, result.Merge.Replaced)
	return nil
}

func runPrefixes(c *cli.Context) error {
	m := getSession(c)

	ctx, cancel := signalContext()
	defer cancel()

	if c.Bool("save") {
		names, err := m.fork.ModuleNames(ctx)
		if nil != err {
			return err
		}
		err = metadata.SaveNames(m.config.Files.Modules, names)
		if nil != err {
			return err
		}
		m.console.Info("saved %d module names to %s", len(names), m.config.Files.Modules)
	}

	_, err := m.fork.Prefixes(ctx)
	return err
}

func runDownload(c *cli.Context) error {
	m := getSession(c)

	ctx, cancel := signalContext()
	defer cancel()

	result, err := m.fork.Snapshot(ctx, c.Bool("force"))
	if nil != err {
		return err
	}

	m.console.Info("saved %d pairs at block %s to %s", result.Pairs, result.At, m.config.Files.StatePairs)
	return nil
}

func runVersion(c *cli.Context) error {
	fmt.Fprintf(c.App.Writer, "%s\n", version)
	return nil
}
