// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/pkg/errors"

	"github.com/bitmark-inc/forkgenesis/allowlist"
	"github.com/bitmark-inc/forkgenesis/configuration"
	"github.com/bitmark-inc/forkgenesis/fault"
	"github.com/bitmark-inc/forkgenesis/fork"
	"github.com/bitmark-inc/forkgenesis/rpc"
	"github.com/bitmark-inc/forkgenesis/util"
)

// basic defaults (files are relative to the data directory)
const (
	defaultDataDirectory = "data"
	defaultEndpoint      = "http://127.0.0.1:9933"
	defaultChunksLevel   = 1
	defaultMaxParallel   = 256
	defaultTimeout       = 120 // seconds
	defaultRetries       = 0
	defaultProgress      = 2 // seconds

	defaultBinary        = "binary"
	defaultRuntimeWasm   = "runtime.wasm"
	defaultRuntimeHex    = "runtime.hex"
	defaultModules       = "modules.json"
	defaultTemplate      = "fork.json"
	defaultExportedState = "exported_state.json"
	defaultStatePairs    = "state_pairs.json"

	defaultLogDirectory = "log"
	defaultLogFile      = "forkgenesis.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "info",
	}
)

// FileNames - artifacts inside the data directory
type FileNames struct {
	Binary        string `gluamapper:"binary" json:"binary"`
	RuntimeWasm   string `gluamapper:"runtime_wasm" json:"runtime_wasm"`
	RuntimeHex    string `gluamapper:"runtime_hex" json:"runtime_hex"`
	Modules       string `gluamapper:"modules" json:"modules"`
	Template      string `gluamapper:"template" json:"template"`
	Output        string `gluamapper:"output" json:"output"`
	ExportedState string `gluamapper:"exported_state" json:"exported_state"`
	StatePairs    string `gluamapper:"state_pairs" json:"state_pairs"`
}

// Configuration - every setting of the tool
type Configuration struct {
	DataDirectory string               `gluamapper:"data_directory" json:"data_directory"`
	Endpoint      string               `gluamapper:"endpoint" json:"endpoint"`
	ChunksLevel   int                  `gluamapper:"chunks_level" json:"chunks_level"`
	FromBlock     string               `gluamapper:"from_block" json:"from_block"`
	QuickMode     bool                 `gluamapper:"quick_mode" json:"quick_mode"`
	MaxParallel   int                  `gluamapper:"max_parallel" json:"max_parallel"`
	RateLimit     float64              `gluamapper:"rate_limit" json:"rate_limit"`
	RateBurst     int                  `gluamapper:"rate_burst" json:"rate_burst"`
	Timeout       int                  `gluamapper:"timeout" json:"timeout"`
	Retries       int                  `gluamapper:"retries" json:"retries"`
	Progress      int                  `gluamapper:"progress" json:"progress"`
	Sudo          string               `gluamapper:"sudo" json:"sudo"`
	Chain         string               `gluamapper:"chain" json:"chain"`
	Pinned        []string             `gluamapper:"pinned" json:"pinned"`
	Skipped       []string             `gluamapper:"skipped" json:"skipped"`
	PinAccounts   []string             `gluamapper:"pin_accounts" json:"pin_accounts"`
	Colour        bool                 `gluamapper:"colour" json:"colour"`
	Files         FileNames            `gluamapper:"files" json:"files"`
	Logging       logger.Configuration `gluamapper:"logging" json:"logging"`
}

// command line and environment values, only the ones given are used
type overrides struct {
	DataDirectory *string
	Endpoint      *string
	ChunksLevel   *int
	FromBlock     *string
	QuickMode     *string
	MaxParallel   *int
	Sudo          *string
	Chain         *string
	Verbose       bool
}

func defaultConfiguration() *Configuration {
	return &Configuration{
		DataDirectory: defaultDataDirectory,
		Endpoint:      defaultEndpoint,
		ChunksLevel:   defaultChunksLevel,
		MaxParallel:   defaultMaxParallel,
		Timeout:       defaultTimeout,
		Retries:       defaultRetries,
		Progress:      defaultProgress,
		Colour:        true,

		Files: FileNames{
			Binary:        defaultBinary,
			RuntimeWasm:   defaultRuntimeWasm,
			RuntimeHex:    defaultRuntimeHex,
			Modules:       defaultModules,
			Template:      defaultTemplate,
			ExportedState: defaultExportedState,
			StatePairs:    defaultStatePairs,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Console:   false,
			Levels:    defaultLogLevels,
		},
	}
}

// will read decode and verify the configuration
//
// defaults, then the optional config file, then the overrides
func getConfiguration(configurationFileName string, o overrides) (*Configuration, error) {

	options := defaultConfiguration()

	if "" != configurationFileName {
		configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
		if nil != err {
			return nil, err
		}

		if err := configuration.ParseConfigurationFile(configurationFileName, options); nil != err {
			return nil, err
		}
	}

	o.apply(options)

	// lists are not merged with the defaults, a file list replaces them
	if nil == options.Pinned {
		options.Pinned = append([]string{}, allowlist.DefaultPinned...)
	}
	if nil == options.Skipped {
		options.Skipped = append([]string{}, allowlist.DefaultSkipped...)
	}

	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, errors.Wrapf(fault.ErrInvalidPath, "data directory: %q", options.DataDirectory)
	}
	dataDirectory, err := filepath.Abs(filepath.Clean(options.DataDirectory))
	if nil != err {
		return nil, err
	}
	options.DataDirectory = dataDirectory

	// this directory must exist, the node binary and runtime are placed there
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, errors.Wrapf(fault.ErrInvalidPath, "data directory: %q is not a directory", options.DataDirectory)
	}

	if _, err := options.fromBlock(); nil != err {
		return nil, err
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Files.Binary,
		&options.Files.RuntimeWasm,
		&options.Files.RuntimeHex,
		&options.Files.Modules,
		&options.Files.Template,
		&options.Files.ExportedState,
		&options.Files.StatePairs,
	}
	for _, f := range mustBeAbsolute {
		if "" == *f {
			return nil, errors.Wrap(fault.ErrInvalidPath, "empty file name")
		}
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.Files.Output,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// fail if the log file is not a simple file name
	switch filepath.Dir(options.Logging.File) {
	case "", ".":
	default:
		return nil, errors.Wrapf(fault.ErrInvalidPath, "log file: %q is not plain name", options.Logging.File)
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Logging.Directory,
	} {
		*d = util.EnsureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0o700); nil != err {
			return nil, err
		}
	}

	if o.Verbose {
		options.Logging.Console = true
	}

	return options, nil
}

func (o overrides) apply(options *Configuration) {
	if nil != o.DataDirectory {
		options.DataDirectory = *o.DataDirectory
	}
	if nil != o.Endpoint {
		options.Endpoint = *o.Endpoint
	}
	if nil != o.ChunksLevel {
		options.ChunksLevel = *o.ChunksLevel
	}
	if nil != o.FromBlock {
		options.FromBlock = *o.FromBlock
	}
	if nil != o.QuickMode {
		options.QuickMode = truthy(*o.QuickMode)
	}
	if nil != o.MaxParallel {
		options.MaxParallel = *o.MaxParallel
	}
	if nil != o.Sudo {
		options.Sudo = *o.Sudo
	}
	if nil != o.Chain {
		options.Chain = *o.Chain
	}
}

// any non-empty value enables a switch, except an explicit false
func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "no", "off":
		return false
	default:
		return true
	}
}

// the snapshot height, nil for the head
func (c *Configuration) fromBlock() (*uint64, error) {
	s := strings.TrimSpace(c.FromBlock)
	if "" == s {
		return nil, nil
	}
	height, err := strconv.ParseUint(s, 10, 64)
	if nil != err {
		return nil, errors.Wrapf(fault.ErrInvalidBlockNumber, "from block: %q", c.FromBlock)
	}
	return &height, nil
}

func (c *Configuration) rpcConfiguration() rpc.Configuration {
	return rpc.Configuration{
		Endpoint:  c.Endpoint,
		Timeout:   time.Duration(c.Timeout) * time.Second,
		RateLimit: c.RateLimit,
		RateBurst: c.RateBurst,
		Retries:   c.Retries,
	}
}

func (c *Configuration) forkOptions() (fork.Options, error) {
	height, err := c.fromBlock()
	if nil != err {
		return fork.Options{}, err
	}

	return fork.Options{
		Files: fork.Files{
			Binary:        c.Files.Binary,
			RuntimeWasm:   c.Files.RuntimeWasm,
			RuntimeHex:    c.Files.RuntimeHex,
			Modules:       c.Files.Modules,
			Template:      c.Files.Template,
			Output:        c.Files.Output,
			ExportedState: c.Files.ExportedState,
			StatePairs:    c.Files.StatePairs,
		},
		ChunksLevel: c.ChunksLevel,
		FromBlock:   height,
		QuickMode:   c.QuickMode,
		MaxParallel: c.MaxParallel,
		Sudo:        c.Sudo,
		Chain:       c.Chain,
		Allowlist: allowlist.Builder{
			Pinned:      c.Pinned,
			Skip:        c.Skipped,
			PinAccounts: c.PinAccounts,
		},
		ProgressInterval: time.Duration(c.Progress) * time.Second,
	}, nil
}
