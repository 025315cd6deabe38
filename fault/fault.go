// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"github.com/pkg/errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	ErrChecksumMismatch           = InvalidError("checksum mismatch")
	ErrInvalidAccount             = InvalidError("invalid account")
	ErrInvalidBlockNumber         = InvalidError("invalid block number")
	ErrInvalidChunksLevel         = InvalidError("chunks level is out of range")
	ErrInvalidEndpoint            = InvalidError("invalid rpc endpoint")
	ErrInvalidGenesis             = InvalidError("invalid genesis document")
	ErrInvalidHex                 = InvalidError("invalid hex string")
	ErrInvalidKeyLength           = InvalidError("invalid key length")
	ErrInvalidMaxParallel         = InvalidError("max parallel is out of range")
	ErrInvalidMetadata            = InvalidError("invalid metadata")
	ErrInvalidPair                = InvalidError("invalid key value pair")
	ErrInvalidPath                = InvalidError("invalid path")
	ErrInvalidPrefix              = InvalidError("invalid prefix")
	ErrInvalidStructPointer       = InvalidError("invalid struct pointer")
	ErrMissingGenesisSection      = InvalidError("missing genesis.raw.top section")
	ErrUnsupportedMetadataVersion = InvalidError("unsupported metadata version")
	ErrBinaryNotFound             = NotFoundError("node binary not found")
	ErrBlockNotFound              = NotFoundError("block not found")
	ErrNotFoundConfigFile         = NotFoundError("config file is not found")
	ErrRuntimeNotFound            = NotFoundError("runtime wasm not found")
	ErrTemplateNotFound           = NotFoundError("genesis template not found")
	ErrSnapshotExists             = ExistsError("state snapshot already exists")
	ErrBuildSpecFailed            = ProcessError("build-spec command failed")
	ErrEmptyResponse              = ProcessError("empty rpc response")
	ErrRateLimiting               = ProcessError("rate limiting")
	ErrSnapshotClosed             = ProcessError("state snapshot is closed")
	ErrTruncatedMetadata          = ProcessError("truncated metadata")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }

// determine the class of an error, looking through any wrapping
func IsErrExists(e error) bool   { _, ok := errors.Cause(e).(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := errors.Cause(e).(InvalidError); return ok }
func IsErrNotFound(e error) bool { _, ok := errors.Cause(e).(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := errors.Cause(e).(ProcessError); return ok }
