// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package genesis

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/bitmark-inc/forkgenesis/fault"
)

// section names along the path to the storage map
const (
	genesisSection = "genesis"
	rawSection     = "raw"
	topSection     = "top"
)

const indent = "    "

// Document - a raw chain spec
//
// every field other than genesis.raw.top is carried through unchanged
type Document struct {
	fields  map[string]json.RawMessage
	genesis map[string]json.RawMessage
	raw     map[string]json.RawMessage

	Top map[string]string
}

// Parse - decode a raw chain spec
func Parse(data []byte) (*Document, error) {
	d := &Document{}

	err := json.Unmarshal(data, &d.fields)
	if nil != err {
		return nil, errors.Wrap(fault.ErrInvalidGenesis, err.Error())
	}
	if nil == d.fields {
		return nil, fault.ErrInvalidGenesis
	}

	d.genesis, err = section(d.fields, genesisSection)
	if nil != err {
		return nil, err
	}

	d.raw, err = section(d.genesis, rawSection)
	if nil != err {
		return nil, err
	}

	top, ok := d.raw[topSection]
	if !ok || isNull(top) {
		return nil, errors.Wrap(fault.ErrMissingGenesisSection, topSection)
	}
	err = json.Unmarshal(top, &d.Top)
	if nil != err {
		return nil, errors.Wrapf(fault.ErrInvalidGenesis, "%s: %s", topSection, err)
	}
	return d, nil
}

func section(parent map[string]json.RawMessage, name string) (map[string]json.RawMessage, error) {
	data, ok := parent[name]
	if !ok || isNull(data) {
		return nil, errors.Wrap(fault.ErrMissingGenesisSection, name)
	}

	var child map[string]json.RawMessage
	err := json.Unmarshal(data, &child)
	if nil != err {
		return nil, errors.Wrapf(fault.ErrInvalidGenesis, "%s: %s", name, err)
	}
	return child, nil
}

func isNull(data json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

// Load - read and decode a raw chain spec file
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if nil != err {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(fault.ErrTemplateNotFound, path)
		}
		return nil, err
	}

	d, err := Parse(data)
	if nil != err {
		return nil, errors.Wrap(err, path)
	}
	return d, nil
}

// Name - the chain name, if the document has one
func (d *Document) Name() string {
	var name string
	if data, ok := d.fields["name"]; ok {
		_ = json.Unmarshal(data, &name)
	}
	return name
}

// MarshalJSON - the original document with the current top map
func (d *Document) MarshalJSON() ([]byte, error) {
	top, err := marshal(d.Top)
	if nil != err {
		return nil, err
	}

	raw := with(d.raw, topSection, top)
	rawData, err := marshal(raw)
	if nil != err {
		return nil, err
	}

	genesis := with(d.genesis, rawSection, rawData)
	genesisData, err := marshal(genesis)
	if nil != err {
		return nil, err
	}

	return marshal(with(d.fields, genesisSection, genesisData))
}

// shallow copy of m with key replaced
func with(m map[string]json.RawMessage, key string, value json.RawMessage) map[string]json.RawMessage {
	result := make(map[string]json.RawMessage, len(m)+1)
	for k, v := range m {
		result[k] = v
	}
	result[key] = value
	return result
}

// compact JSON without HTML escaping
func marshal(v interface{}) ([]byte, error) {
	buffer := &bytes.Buffer{}
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)
	err := encoder.Encode(v)
	if nil != err {
		return nil, err
	}
	return bytes.TrimRight(buffer.Bytes(), "\n"), nil
}

// Encode - the document as indented JSON
//
// map keys are sorted, so equal documents always encode to the same
// bytes
func (d *Document) Encode() ([]byte, error) {
	buffer := &bytes.Buffer{}
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", indent)
	err := encoder.Encode(d)
	if nil != err {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// Save - replace the file at path with the encoded document
//
// the data goes to a temporary file in the same directory first, so
// a failure never leaves a half written document at path
func Save(path string, d *Document) error {
	data, err := d.Encode()
	if nil != err {
		return err
	}
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	file, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if nil != err {
		return err
	}
	temporary := file.Name()

	_, err = file.Write(data)
	if nil == err {
		err = file.Sync()
	}
	if closeErr := file.Close(); nil == err {
		err = closeErr
	}
	if nil == err {
		err = os.Chmod(temporary, 0o644)
	}
	if nil == err {
		err = os.Rename(temporary, path)
	}
	if nil != err {
		os.Remove(temporary)
		return errors.Wrapf(err, "save: %s", path)
	}
	return nil
}
