// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metadata

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/forkgenesis/fault"
)

// encoder - the write side of reader, enough to build test metadata
type encoder []byte

func (e *encoder) u8(b byte) *encoder {
	*e = append(*e, b)
	return e
}

func (e *encoder) u32(v uint32) *encoder {
	*e = binary.LittleEndian.AppendUint32(*e, v)
	return e
}

func (e *encoder) compact(v uint64) *encoder {
	switch {
	case v < 1<<6:
		*e = append(*e, byte(v<<2))
	case v < 1<<14:
		*e = binary.LittleEndian.AppendUint16(*e, uint16(v<<2|1))
	case v < 1<<30:
		*e = binary.LittleEndian.AppendUint32(*e, uint32(v<<2|2))
	default:
		b := binary.LittleEndian.AppendUint64(nil, v)
		for len(b) > 4 && 0 == b[len(b)-1] {
			b = b[:len(b)-1]
		}
		*e = append(*e, byte(len(b)-4)<<2|3)
		*e = append(*e, b...)
	}
	return e
}

func (e *encoder) bytes(b []byte) *encoder {
	e.compact(uint64(len(b)))
	*e = append(*e, b...)
	return e
}

func (e *encoder) string(s string) *encoder {
	return e.bytes([]byte(s))
}

func (e *encoder) strings(s ...string) *encoder {
	e.compact(uint64(len(s)))
	for _, item := range s {
		e.string(item)
	}
	return e
}

func (e *encoder) none() *encoder {
	return e.u8(0)
}

func (e *encoder) some() *encoder {
	return e.u8(1)
}

// one named field of type 0
func (e *encoder) field(name string) *encoder {
	return e.some().string(name).compact(0).some().string("u32").strings("a field")
}

// a registry with one type of every definition kind
func registry(e *encoder) {
	e.compact(8)

	// composite with a type parameter
	e.compact(0).strings("frame_system", "AccountInfo")
	e.compact(1).string("T").some().compact(1)
	e.u8(typeDefComposite).compact(2).field("nonce").field("data")
	e.strings("account info")

	// variant
	e.compact(1).strings("Option").compact(1).string("T").none()
	e.u8(typeDefVariant).compact(2)
	e.string("None").compact(0).u8(0).strings()
	e.string("Some").compact(1).field("0").u8(1).strings("something")
	e.strings()

	// sequence
	e.compact(2).strings().compact(0).u8(typeDefSequence).compact(5).strings()

	// array
	e.compact(3).strings().compact(0).u8(typeDefArray).u32(32).compact(5).strings()

	// tuple
	e.compact(4).strings().compact(0).u8(typeDefTuple).compact(2).compact(0).compact(5).strings()

	// primitive
	e.compact(5).strings().compact(0).u8(typeDefPrimitive).u8(2).strings()

	// compact
	e.compact(6).strings().compact(0).u8(typeDefCompact).compact(5).strings()

	// bit sequence
	e.compact(7).strings().compact(0).u8(typeDefBitSequence).compact(5).compact(5).strings()
}

type testPallet struct {
	name    string
	storage []string
	index   byte
}

func pallet(e *encoder, p testPallet, version byte) {
	e.string(p.name)

	if nil == p.storage {
		e.none()
	} else {
		e.some().string(p.name).compact(uint64(len(p.storage)))
		for i, entry := range p.storage {
			e.string(entry).u8(0)
			if 0 == i%2 {
				e.u8(storagePlain).compact(5)
			} else {
				e.u8(storageMap).bytes([]byte{0x02, 0x03}).compact(3).compact(0)
			}
			e.bytes([]byte{0, 0, 0, 0}).strings("storage entry")
		}
	}

	e.some().compact(1) // calls
	e.none()            // event

	e.compact(1).string("MaxSize").compact(5).bytes([]byte{1, 2, 3, 4}).strings()

	e.some().compact(1) // error
	e.u8(p.index)

	if V15 == version {
		e.strings("pallet docs")
	}
}

var testPallets = []testPallet{
	{name: "System", storage: []string{"Account", "Number", "LastRuntimeUpgrade"}, index: 0},
	{name: "Utility", index: 1},
	{name: "Balances", storage: []string{"TotalIssuance"}, index: 5},
	{name: "Sudo", storage: []string{"Key"}, index: 9},
	{name: "Empty", storage: []string{}, index: 10},
}

func build(version byte, pallets []testPallet) []byte {
	e := &encoder{}
	*e = append(*e, magic...)
	e.u8(version)
	registry(e)
	e.compact(uint64(len(pallets)))
	for _, p := range pallets {
		pallet(e, p, version)
	}

	// trailing extrinsic and runtime metadata are never read
	e.u8(4).compact(0)
	return []byte(*e)
}

func TestCompact(t *testing.T) {
	values := []uint64{
		0, 1, 63, 64, 16383, 16384,
		1<<30 - 1, 1 << 30, 1<<32 + 5,
		math.MaxUint64,
	}

	for i, v := range values {
		e := &encoder{}
		e.compact(v)
		r := newReader([]byte(*e))
		actual := r.compact()
		assert.Nil(t, r.err, "%d: unexpected error", i)
		assert.Equal(t, v, actual, "%d: wrong value", i)
		assert.Equal(t, len(*e), r.offset, "%d: not all bytes consumed", i)
	}
}

func TestCompactTruncated(t *testing.T) {
	r := newReader([]byte{0x01})
	r.compact()
	assert.Equal(t, fault.ErrTruncatedMetadata, r.err, "wrong error")
}

func TestReaderErrorSticks(t *testing.T) {
	r := newReader([]byte{0x08, 'a'})
	assert.Equal(t, "", r.string(), "truncated string")
	assert.Equal(t, fault.ErrTruncatedMetadata, r.err, "wrong error")
	assert.Equal(t, byte(0), r.u8(), "read after error")
}

func TestPalletsWithStorage(t *testing.T) {
	for _, version := range []byte{V14, V15} {
		names, err := PalletsWithStorage(build(version, testPallets))
		require.Nil(t, err, "version %d: unexpected error", version)
		assert.Equal(t, []string{"System", "Balances", "Sudo", "Empty"}, names, "version %d: wrong names", version)
	}
}

func TestDecode(t *testing.T) {
	pallets, err := Decode(build(V14, testPallets))
	require.Nil(t, err, "unexpected error")
	require.Equal(t, len(testPallets), len(pallets), "wrong pallet count")

	for i, p := range pallets {
		assert.Equal(t, testPallets[i].name, p.Name, "%d: wrong name", i)
		assert.Equal(t, testPallets[i].index, p.Index, "%d: wrong index", i)
		assert.Equal(t, nil != testPallets[i].storage, p.HasStorage, "%d: wrong storage flag", i)
		assert.Equal(t, len(testPallets[i].storage), p.Entries, "%d: wrong entry count", i)
	}
	assert.Equal(t, "Balances", pallets[2].StoragePrefix, "wrong storage prefix")
}

func TestDecodeInvalid(t *testing.T) {
	good := build(V14, testPallets)

	v13 := append([]byte{}, good...)
	v13[4] = 13

	items := []struct {
		buffer []byte
		err    error
	}{
		{nil, fault.ErrInvalidMetadata},
		{[]byte("meta"), fault.ErrInvalidMetadata},
		{[]byte("atem\x0e"), fault.ErrInvalidMetadata},
		{v13, fault.ErrUnsupportedMetadataVersion},
		{good[:len(good)/2], fault.ErrTruncatedMetadata},
		{good[:6], fault.ErrTruncatedMetadata},
	}

	for i, item := range items {
		names, err := PalletsWithStorage(item.buffer)
		assert.Equal(t, item.err, err, "%d: wrong error", i)
		assert.Nil(t, names, "%d: unexpected names", i)
	}
}

func TestDecodeBadTypeDefinition(t *testing.T) {
	e := &encoder{}
	*e = append(*e, magic...)
	e.u8(V14)
	e.compact(1).compact(0).strings().compact(0).u8(9)

	_, err := Decode([]byte(*e))
	assert.Equal(t, fault.ErrInvalidMetadata, err, "wrong error")
}

func TestNamesCache(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "modules.json")

	names := []string{"Balances", "Sudo", "Assets"}
	err := SaveNames(filename, names)
	require.Nil(t, err, "save error")

	actual, err := LoadNames(filename)
	require.Nil(t, err, "load error")
	assert.Equal(t, names, actual, "wrong names")
}

func TestLoadNamesInvalid(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadNames(filepath.Join(dir, "missing.json"))
	assert.True(t, os.IsNotExist(err), "expected not exist: %v", err)

	filename := filepath.Join(dir, "modules.json")
	err = os.WriteFile(filename, []byte(`{"System": 1}`), 0o600)
	require.Nil(t, err, "write error")

	_, err = LoadNames(filename)
	assert.True(t, fault.IsErrInvalid(err), "expected invalid: %v", err)
}
