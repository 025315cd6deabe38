// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package genesis

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/bitmark-inc/logger"
	"github.com/pkg/errors"

	"github.com/bitmark-inc/forkgenesis/fault"
)

// Builder - produces a raw chain spec when no template file exists
type Builder interface {
	Build(ctx context.Context) ([]byte, error)
}

// NodeBuilder - runs the node's build-spec command
type NodeBuilder struct {
	Binary string
	Chain  string // empty selects the development chain
	Log    *logger.L
}

// Arguments - the build-spec command line, without the binary
func (b NodeBuilder) Arguments() []string {
	if "" == b.Chain {
		return []string{"build-spec", "--dev", "--raw"}
	}
	return []string{"build-spec", "--chain", b.Chain, "--raw"}
}

// Build - run build-spec and return its standard output
func (b NodeBuilder) Build(ctx context.Context) ([]byte, error) {
	if _, err := os.Stat(b.Binary); nil != err {
		return nil, errors.Wrap(fault.ErrBinaryNotFound, b.Binary)
	}

	arguments := b.Arguments()
	if nil != b.Log {
		b.Log.Infof("run: %s %s", b.Binary, strings.Join(arguments, " "))
	}

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd := exec.CommandContext(ctx, b.Binary, arguments...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if nil != err {
		if nil != b.Log {
			b.Log.Errorf("build-spec stderr: %s", stderr.String())
		}
		return nil, errors.Wrapf(fault.ErrBuildSpecFailed, "%s: %s", b.Binary, err)
	}
	return stdout.Bytes(), nil
}

// LoadOrBuild - load the template at path, building and saving it
// first if it does not exist
func LoadOrBuild(ctx context.Context, path string, builder Builder, log *logger.L) (*Document, error) {
	_, err := os.Stat(path)
	if nil == err {
		log.Infof("template: %s", path)
		return Load(path)
	}
	if !os.IsNotExist(err) {
		return nil, err
	}
	if nil == builder {
		return nil, errors.Wrap(fault.ErrTemplateNotFound, path)
	}

	data, err := builder.Build(ctx)
	if nil != err {
		return nil, err
	}

	d, err := Parse(data)
	if nil != err {
		return nil, errors.Wrap(err, "build-spec output")
	}

	err = writeFile(path, data)
	if nil != err {
		return nil, err
	}

	log.Infof("built template: %s  chain: %q", path, d.Name())
	return d, nil
}
