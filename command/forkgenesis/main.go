// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"os"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/joho/godotenv"
	"github.com/urfave/cli"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

const sessionKey = "session"

func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	// a missing .env file is not an error
	_ = godotenv.Load()

	app := newApp(os.Stdout, os.Stderr)

	err := app.Run(os.Args)
	if nil != err {
		exitwithstatus.Message("terminated with error: %s", err)
	}
}

func newApp(w io.Writer, e io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "forkgenesis"
	app.Usage = "build a forked genesis chain spec from a live substrate chain"
	app.Version = version
	app.HideVersion = true

	app.Writer = w
	app.ErrWriter = e

	app.Flags = globalFlags()
	app.Commands = []cli.Command{
		{
			Name:   "fork",
			Usage:  "merge the live chain state into the template chain spec (default)",
			Action: runFork,
		},
		{
			Name:  "prefixes",
			Usage: "list the storage prefixes that would be migrated",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "save, s",
					Usage: " write the pallet names to the module cache file",
				},
			},
			Action: runPrefixes,
		},
		{
			Name:  "download",
			Usage: "download the live chain state to the state pairs file",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "force, f",
					Usage: " replace an existing state pairs file",
				},
			},
			Action: runDownload,
		},
		{
			Name:   "version",
			Usage:  "display forkgenesis version",
			Action: runVersion,
		},
	}
	app.Action = runFork

	app.Before = func(c *cli.Context) error {

		// to suppress reading config file if certain commands
		command := c.Args().Get(0)
		if "version" == command || "help" == command || "h" == command {
			return nil
		}

		m, err := setup(c)
		if nil != err {
			return err
		}
		c.App.Metadata[sessionKey] = m
		return nil
	}

	app.After = func(c *cli.Context) error {
		m, ok := c.App.Metadata[sessionKey].(*session)
		if !ok {
			return nil
		}
		m.finalise()
		return nil
	}

	return app
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:   "config-file, c",
			Value:  "",
			Usage:  " optional Lua configuration `FILE`",
			EnvVar: "FORK_CONFIG_FILE",
		},
		cli.StringFlag{
			Name:   "data-directory, d",
			Value:  defaultDataDirectory,
			Usage:  " directory holding the binary, runtime and artifacts `DIR`",
			EnvVar: "FORK_DATA_DIRECTORY",
		},
		cli.StringFlag{
			Name:   "endpoint, e",
			Value:  defaultEndpoint,
			Usage:  " HTTP JSON-RPC endpoint of the live chain `URL`",
			EnvVar: "HTTP_RPC_ENDPOINT",
		},
		cli.IntFlag{
			Name:   "chunks-level, l",
			Value:  defaultChunksLevel,
			Usage:  " split the download into 256^`LEVEL` requests",
			EnvVar: "FORK_CHUNKS_LEVEL",
		},
		cli.StringFlag{
			Name:   "from-block, b",
			Value:  "",
			Usage:  " snapshot at block `NUMBER` instead of the head",
			EnvVar: "FROM_BLOCK_NUM",
		},
		cli.StringFlag{
			Name:   "quick-mode, q",
			Value:  "",
			Usage:  " fetch the last level in parallel when non-empty `FLAG`",
			EnvVar: "QUICK_MODE",
		},
		cli.IntFlag{
			Name:   "max-parallel, p",
			Value:  defaultMaxParallel,
			Usage:  " concurrent requests in quick mode `COUNT`",
			EnvVar: "FORK_MAX_PARALLEL",
		},
		cli.StringFlag{
			Name:   "sudo, alice, a",
			Value:  "",
			Usage:  " set the sudo key: any flag value selects //Alice, or give a hex key or SS58 `ACCOUNT`",
			EnvVar: "ALICE",
		},
		cli.StringFlag{
			Name:   "chain",
			Value:  "",
			Usage:  " build the template with --chain `NAME` instead of --dev",
			EnvVar: "FORK_CHAIN",
		},
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " copy the log to the console",
		},
	}
}

// overrides from the command line or environment, only when given
func flagOverrides(c *cli.Context) overrides {
	o := overrides{
		Verbose: c.GlobalBool("verbose"),
	}

	stringOverride := func(name string) *string {
		if !c.GlobalIsSet(name) {
			return nil
		}
		s := c.GlobalString(name)
		return &s
	}
	intOverride := func(name string) *int {
		if !c.GlobalIsSet(name) {
			return nil
		}
		i := c.GlobalInt(name)
		return &i
	}

	o.DataDirectory = stringOverride("data-directory")
	o.Endpoint = stringOverride("endpoint")
	o.ChunksLevel = intOverride("chunks-level")
	o.FromBlock = stringOverride("from-block")
	o.QuickMode = stringOverride("quick-mode")
	o.MaxParallel = intOverride("max-parallel")
	o.Sudo = stringOverride("sudo")
	o.Chain = stringOverride("chain")
	return o
}
