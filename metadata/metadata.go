// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metadata

import (
	"bytes"

	"github.com/bitmark-inc/forkgenesis/fault"
)

// magic number at the start of all metadata
var magic = []byte("meta")

// supported versions
const (
	V14 = 14
	V15 = 15
)

// scale-info type definition variants
const (
	typeDefComposite = iota
	typeDefVariant
	typeDefSequence
	typeDefArray
	typeDefTuple
	typeDefPrimitive
	typeDefCompact
	typeDefBitSequence
)

// storage entry type variants
const (
	storagePlain = iota
	storageMap
)

// Pallet - the parts of a pallet needed to derive storage prefixes
type Pallet struct {
	Name          string
	Index         byte
	StoragePrefix string
	Entries       int
	HasStorage    bool
}

// Decode - list every pallet in the metadata
func Decode(buffer []byte) ([]Pallet, error) {
	if len(buffer) < len(magic)+1 || !bytes.Equal(buffer[:len(magic)], magic) {
		return nil, fault.ErrInvalidMetadata
	}
	version := buffer[len(magic)]
	if V14 != version && V15 != version {
		return nil, fault.ErrUnsupportedMetadataVersion
	}

	r := newReader(buffer[len(magic)+1:])
	skipRegistry(r)

	n := r.length()
	pallets := make([]Pallet, 0, n)
	for i := 0; i < n && nil == r.err; i += 1 {
		p := readPallet(r, version)
		if nil != r.err {
			break
		}
		pallets = append(pallets, p)
	}
	if nil != r.err {
		return nil, r.err
	}
	return pallets, nil
}

// PalletsWithStorage - names of the pallets that own storage, in
// metadata order
func PalletsWithStorage(buffer []byte) ([]string, error) {
	pallets, err := Decode(buffer)
	if nil != err {
		return nil, err
	}
	names := make([]string, 0, len(pallets))
	for _, p := range pallets {
		if p.HasStorage {
			names = append(names, p.Name)
		}
	}
	return names, nil
}

// PortableRegistry: Vec<PortableType{ id: Compact<u32>, ty: Type }>
func skipRegistry(r *reader) {
	n := r.length()
	for i := 0; i < n && nil == r.err; i += 1 {
		r.skipTypeID()
		skipType(r)
	}
}

// Type{ path: Vec<String>, params: Vec<TypeParameter>, def: TypeDef, docs: Vec<String> }
func skipType(r *reader) {
	r.skipStrings()

	params := r.length()
	for i := 0; i < params && nil == r.err; i += 1 {
		r.bytes()
		r.skipOptionTypeID()
	}

	switch r.u8() {
	case typeDefComposite:
		skipFields(r)

	case typeDefVariant:
		variants := r.length()
		for i := 0; i < variants && nil == r.err; i += 1 {
			r.bytes()
			skipFields(r)
			r.u8()
			r.skipStrings()
		}

	case typeDefSequence, typeDefCompact:
		r.skipTypeID()

	case typeDefArray:
		r.u32()
		r.skipTypeID()

	case typeDefTuple:
		n := r.length()
		for i := 0; i < n && nil == r.err; i += 1 {
			r.skipTypeID()
		}

	case typeDefPrimitive:
		r.u8()

	case typeDefBitSequence:
		r.skipTypeID()
		r.skipTypeID()

	default:
		if nil == r.err {
			r.err = fault.ErrInvalidMetadata
		}
	}

	r.skipStrings()
}

// Vec<Field{ name: Option<String>, ty, type_name: Option<String>, docs: Vec<String> }>
func skipFields(r *reader) {
	n := r.length()
	for i := 0; i < n && nil == r.err; i += 1 {
		r.skipOptionString()
		r.skipTypeID()
		r.skipOptionString()
		r.skipStrings()
	}
}

// PalletMetadata{ name, storage: Option, calls: Option, event: Option,
// constants: Vec, error: Option, index: u8 [, docs: Vec<String> (V15)] }
func readPallet(r *reader, version byte) Pallet {
	p := Pallet{
		Name: r.string(),
	}

	if r.option() {
		p.HasStorage = true
		p.StoragePrefix = r.string()
		p.Entries = r.length()
		for i := 0; i < p.Entries && nil == r.err; i += 1 {
			skipStorageEntry(r)
		}
	}

	r.skipOptionTypeID() // calls
	r.skipOptionTypeID() // event

	constants := r.length()
	for i := 0; i < constants && nil == r.err; i += 1 {
		r.bytes() // name
		r.skipTypeID()
		r.bytes() // value
		r.skipStrings()
	}

	r.skipOptionTypeID() // error
	p.Index = r.u8()

	if V15 == version {
		r.skipStrings()
	}
	return p
}

// StorageEntryMetadata{ name, modifier: u8, ty: StorageEntryType,
// default: Vec<u8>, docs: Vec<String> }
func skipStorageEntry(r *reader) {
	r.bytes()
	r.u8()

	switch r.u8() {
	case storagePlain:
		r.skipTypeID()
	case storageMap:
		r.bytes() // hashers, one byte each
		r.skipTypeID()
		r.skipTypeID()
	default:
		if nil == r.err {
			r.err = fault.ErrInvalidMetadata
		}
	}

	r.bytes()
	r.skipStrings()
}
