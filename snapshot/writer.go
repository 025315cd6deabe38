// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package snapshot

import (
	"bufio"
	"encoding/json"
	"os"
	"sync"

	"github.com/bitmark-inc/logger"
	"github.com/pkg/errors"

	"github.com/bitmark-inc/forkgenesis/fault"
	"github.com/bitmark-inc/forkgenesis/state"
)

// PartialSuffix - appended to the final path while writing
const PartialSuffix = ".partial"

const bufferSize = 1 << 20

// Writer - collects batches of pairs into one JSON array
type Writer struct {
	sync.Mutex

	log       *logger.L
	path      string
	partial   string
	file      *os.File
	buffer    *bufio.Writer
	separator bool
	batches   int
	pairs     int
	closed    bool
}

// Create - start a snapshot that will be published at path
//
// any stale partial file is replaced
func Create(path string, log *logger.L) (*Writer, error) {
	partial := path + PartialSuffix
	file, err := os.OpenFile(partial, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if nil != err {
		return nil, err
	}

	w := &Writer{
		log:     log,
		path:    path,
		partial: partial,
		file:    file,
		buffer:  bufio.NewWriterSize(file, bufferSize),
	}

	_, err = w.buffer.WriteString("[")
	if nil != err {
		w.Abort()
		return nil, err
	}

	log.Infof("create: %s", partial)
	return w, nil
}

// Write - append one batch
//
// an empty batch writes nothing; otherwise a comma is written if any
// earlier batch was, then the batch's elements
func (w *Writer) Write(pairs []state.Pair) error {
	if 0 == len(pairs) {
		return nil
	}

	data, err := json.Marshal(pairs)
	if nil != err {
		return err
	}
	interior := data[1 : len(data)-1]

	w.Lock()
	defer w.Unlock()

	if w.closed {
		return fault.ErrSnapshotClosed
	}

	if w.separator {
		err = w.buffer.WriteByte(',')
		if nil != err {
			return err
		}
	} else {
		w.separator = true
	}

	_, err = w.buffer.Write(interior)
	if nil != err {
		return err
	}

	w.batches += 1
	w.pairs += len(pairs)
	return nil
}

// Counts - batches and pairs written so far
func (w *Writer) Counts() (batches int, pairs int) {
	w.Lock()
	defer w.Unlock()
	return w.batches, w.pairs
}

// Close - finish the array and publish it at the final path
func (w *Writer) Close() error {
	w.Lock()
	defer w.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	err := w.finish()
	if nil != err {
		w.file.Close()
		os.Remove(w.partial)
		return errors.Wrapf(err, "snapshot: %s", w.path)
	}

	err = os.Rename(w.partial, w.path)
	if nil != err {
		os.Remove(w.partial)
		return errors.Wrapf(err, "snapshot: %s", w.path)
	}

	w.log.Infof("published: %s  batches: %d  pairs: %d", w.path, w.batches, w.pairs)
	return nil
}

func (w *Writer) finish() error {
	if err := w.buffer.WriteByte(']'); nil != err {
		return err
	}
	if err := w.buffer.Flush(); nil != err {
		return err
	}
	if err := w.file.Sync(); nil != err {
		return err
	}
	return w.file.Close()
}

// Abort - discard the partial file, the final path is never touched
func (w *Writer) Abort() {
	w.Lock()
	defer w.Unlock()

	if w.closed {
		return
	}
	w.closed = true

	w.file.Close()
	err := os.Remove(w.partial)
	if nil != err && !os.IsNotExist(err) {
		w.log.Warnf("remove: %s  error: %s", w.partial, err)
		return
	}
	w.log.Infof("discarded: %s", w.partial)
}
