// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fork

import (
	"context"
	"os"

	"github.com/bitmark-inc/logger"
	"github.com/pkg/errors"

	"github.com/bitmark-inc/forkgenesis/allowlist"
	"github.com/bitmark-inc/forkgenesis/fault"
	"github.com/bitmark-inc/forkgenesis/genesis"
	"github.com/bitmark-inc/forkgenesis/metadata"
	"github.com/bitmark-inc/forkgenesis/snapshot"
	"github.com/bitmark-inc/forkgenesis/state"
	"github.com/bitmark-inc/forkgenesis/util"
	"github.com/bitmark-inc/forkgenesis/wasm"
)

const logCategory = "fork"

// Fork - one configured fork run
type Fork struct {
	log     *logger.L
	options Options
	sudo    string
	source  state.Source
	builder genesis.Builder
	console *util.Console
}

// Result - summary of a completed run
type Result struct {
	Prefixes int
	Pairs    int
	Merge    genesis.Result
	Output   string
}

// New - check the options and create a fork
func New(options Options, source state.Source, console *util.Console) (*Fork, error) {
	err := options.keyspace().Validate()
	if nil != err {
		return nil, err
	}

	sudo, err := SudoKey(options.Sudo)
	if nil != err {
		return nil, errors.Wrap(err, "sudo")
	}

	if "" == options.Files.Output {
		options.Files.Output = options.Files.Template
	}

	if nil == console {
		console = util.NewConsole(nil, nil, false)
	}

	log := logger.New(logCategory)
	return &Fork{
		log:     log,
		options: options,
		sudo:    sudo,
		source:  source,
		builder: genesis.NodeBuilder{
			Binary: options.Files.Binary,
			Chain:  options.Chain,
			Log:    log,
		},
		console: console,
	}, nil
}

// Run - produce the forked genesis
func (f *Fork) Run(ctx context.Context) (*Result, error) {
	files := f.options.Files

	err := f.preconditions()
	if nil != err {
		return nil, err
	}

	code, err := wasm.Code(files.RuntimeHex, files.RuntimeWasm)
	if nil != err {
		return nil, errors.Wrap(err, "runtime code")
	}

	list, err := f.Prefixes(ctx)
	if nil != err {
		return nil, err
	}

	pairs, err := f.pairs(ctx)
	if nil != err {
		return nil, err
	}

	if !util.EnsureFileExists(files.Template) {
		if "" == f.options.Chain {
			f.console.Plain("build fork raw chain spec (dev)")
		} else {
			f.console.Plain("build fork raw chain spec (%s)", f.options.Chain)
		}
	}
	document, err := genesis.LoadOrBuild(ctx, files.Template, f.builder, f.log)
	if nil != err {
		return nil, errors.Wrap(err, "template")
	}

	merged := genesis.Merge(document, list, pairs, genesis.Overrides{
		Code: code,
		Sudo: f.sudo,
	}, f.log)

	err = genesis.Save(files.Output, document)
	if nil != err {
		return nil, errors.Wrap(err, "forked genesis")
	}

	f.console.Info("Forked genesis generated successfully. Find it at %s", files.Output)

	return &Result{
		Prefixes: list.Len(),
		Pairs:    len(pairs),
		Merge:    merged,
		Output:   files.Output,
	}, nil
}

// fail before any file is written or request made
func (f *Fork) preconditions() error {
	files := f.options.Files

	if !wasm.Available(files.RuntimeHex, files.RuntimeWasm) {
		f.console.Error("WASM missing. Please copy the WASM blob of your substrate node to %s", files.RuntimeWasm)
		return errors.Wrap(fault.ErrRuntimeNotFound, files.RuntimeWasm)
	}

	err := util.EnsureExecutable(files.Binary)
	if nil == err {
		return nil
	}
	if !os.IsNotExist(err) {
		return errors.Wrap(err, files.Binary)
	}

	if util.EnsureFileExists(files.Template) {
		return nil
	}

	f.console.Error("Binary missing. Please copy the binary of your substrate node to %s", files.Binary)
	return errors.Wrap(fault.ErrBinaryNotFound, files.Binary)
}

// ModuleNames - pallets that own storage, from the cache file if present
func (f *Fork) ModuleNames(ctx context.Context) ([]string, error) {
	filename := f.options.Files.Modules
	if util.EnsureFileExists(filename) {
		f.log.Infof("module names: %s", filename)
		return metadata.LoadNames(filename)
	}

	data, err := f.source.Metadata(ctx)
	if nil != err {
		return nil, errors.Wrap(err, "fetch metadata")
	}
	names, err := metadata.PalletsWithStorage(data)
	if nil != err {
		return nil, errors.Wrap(err, "decode metadata")
	}
	return names, nil
}

// Prefixes - the allowlist for the live chain
func (f *Fork) Prefixes(ctx context.Context) (*allowlist.Allowlist, error) {
	names, err := f.ModuleNames(ctx)
	if nil != err {
		return nil, err
	}

	list, err := f.options.Allowlist.Build(names, f.log)
	if nil != err {
		return nil, err
	}

	f.console.Plain("%d prefixes:", list.Len())
	for _, p := range list.Prefixes() {
		f.console.Plain("%s", p)
	}
	return list, nil
}

// live pairs, from the cheapest available place
func (f *Fork) pairs(ctx context.Context) ([]state.Pair, error) {
	files := f.options.Files

	if util.EnsureFileExists(files.ExportedState) {
		f.log.Infof("exported state: %s", files.ExportedState)
		pairs, err := snapshot.LoadExportedState(files.ExportedState)
		if nil != err {
			return nil, errors.Wrap(err, "exported state")
		}
		return pairs, nil
	}

	if util.EnsureFileExists(files.StatePairs) {
		f.console.Warn("Reusing cached storage. Delete %s and rerun to fetch the latest storage", files.StatePairs)
	} else {
		_, err := f.Snapshot(ctx, false)
		if nil != err {
			return nil, err
		}
	}

	pairs, err := snapshot.LoadPairs(files.StatePairs)
	if nil != err {
		return nil, errors.Wrap(err, "state pairs")
	}
	return pairs, nil
}

// Snapshot - download the live state to the state pairs file
//
// an existing snapshot is only replaced when force is set
func (f *Fork) Snapshot(ctx context.Context, force bool) (DownloadResult, error) {
	path := f.options.Files.StatePairs
	if !force && util.EnsureFileExists(path) {
		return DownloadResult{}, errors.Wrap(fault.ErrSnapshotExists, path)
	}

	if nil == f.options.FromBlock {
		f.console.Info("Fetching current state of the live chain. Please wait, it can take a while depending on the size of your chain.")
	} else {
		f.console.Info("Fetching current state from block %d of the live chain. Please wait, it can take a while depending on the size of your chain.", *f.options.FromBlock)
	}

	result, err := Download(ctx, f.source, DownloadOptions{
		Keyspace:         f.options.keyspace(),
		FromBlock:        f.options.FromBlock,
		ProgressInterval: f.options.ProgressInterval,
		Console:          f.console.Writer(),
	}, path, f.log)
	if nil != err {
		return result, errors.Wrap(err, "download state")
	}

	f.log.Infof("downloaded: %s  at: %s  pairs: %d", path, result.At, result.Pairs)
	return result, nil
}
