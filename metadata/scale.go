// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metadata

import (
	"encoding/binary"

	"github.com/bitmark-inc/forkgenesis/fault"
)

// upper bound on any vector or string length, anything larger is
// corrupt data rather than a real runtime
const maximumLength = 1 << 24

// reader - sequential SCALE decoder
//
// the first error sticks; every later read returns zero values
type reader struct {
	buffer []byte
	offset int
	err    error
}

func newReader(buffer []byte) *reader {
	return &reader{buffer: buffer}
}

func (r *reader) take(n int) []byte {
	if nil != r.err {
		return nil
	}
	if n < 0 || r.offset+n > len(r.buffer) {
		r.err = fault.ErrTruncatedMetadata
		return nil
	}
	b := r.buffer[r.offset : r.offset+n]
	r.offset += n
	return b
}

func (r *reader) u8() byte {
	b := r.take(1)
	if nil == b {
		return 0
	}
	return b[0]
}

func (r *reader) u32() uint32 {
	b := r.take(4)
	if nil == b {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// compact - SCALE compact integer
//
// the low two bits of the first byte select the mode: 00 is a 6 bit
// value in one byte, 01 a 14 bit value in two bytes, 10 a 30 bit value
// in four bytes, and 11 means the upper six bits plus four give the
// number of little endian bytes that follow
func (r *reader) compact() uint64 {
	first := r.u8()
	if nil != r.err {
		return 0
	}
	switch first & 0x03 {
	case 0x00:
		return uint64(first >> 2)
	case 0x01:
		b := r.take(1)
		if nil == b {
			return 0
		}
		return uint64(binary.LittleEndian.Uint16([]byte{first, b[0]}) >> 2)
	case 0x02:
		b := r.take(3)
		if nil == b {
			return 0
		}
		return uint64(binary.LittleEndian.Uint32([]byte{first, b[0], b[1], b[2]}) >> 2)
	default:
		n := int(first>>2) + 4
		if n > 8 {
			r.err = fault.ErrInvalidMetadata
			return 0
		}
		b := r.take(n)
		if nil == b {
			return 0
		}
		value := uint64(0)
		for i := n - 1; i >= 0; i -= 1 {
			value = value<<8 | uint64(b[i])
		}
		return value
	}
}

// length - a compact used as a vector length
func (r *reader) length() int {
	n := r.compact()
	if nil != r.err {
		return 0
	}
	if n > maximumLength {
		r.err = fault.ErrInvalidMetadata
		return 0
	}
	return int(n)
}

func (r *reader) bytes() []byte {
	return r.take(r.length())
}

func (r *reader) string() string {
	return string(r.bytes())
}

// option - true if the Some variant follows
func (r *reader) option() bool {
	switch r.u8() {
	case 0:
		return false
	case 1:
		return true
	default:
		if nil == r.err {
			r.err = fault.ErrInvalidMetadata
		}
		return false
	}
}

func (r *reader) skipStrings() {
	n := r.length()
	for i := 0; i < n && nil == r.err; i += 1 {
		r.bytes()
	}
}

func (r *reader) skipOptionString() {
	if r.option() {
		r.bytes()
	}
}

// type ids in the portable registry are compact
func (r *reader) skipTypeID() {
	r.compact()
}

func (r *reader) skipOptionTypeID() {
	if r.option() {
		r.skipTypeID()
	}
}
