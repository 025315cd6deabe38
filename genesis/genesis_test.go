// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package genesis_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/forkgenesis/allowlist"
	"github.com/bitmark-inc/forkgenesis/fault"
	"github.com/bitmark-inc/forkgenesis/fixtures"
	"github.com/bitmark-inc/forkgenesis/genesis"
	"github.com/bitmark-inc/forkgenesis/state"
	"github.com/bitmark-inc/forkgenesis/storagekey"
)

const template = `{
  "name": "Development",
  "id": "dev",
  "chainType": "Development",
  "bootNodes": [],
  "properties": {"tokenSymbol": "<UNIT>", "tokenDecimals": 12},
  "codeSubstitutes": {},
  "genesis": {
    "raw": {
      "top": {
        "0xAB01": "old",
        "0x26aa394eea5630e07c48ae0c9558cef7f9cce9c888469bb1a0dceaa129672ef8": "0x0102",
        "0x3a636f6465": "0xtemplatecode"
      },
      "childrenDefault": {}
    }
  }
}`

const alice = "0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"

func parse(t *testing.T) *genesis.Document {
	d, err := genesis.Parse([]byte(template))
	require.Nil(t, err, "parse error")
	return d
}

func TestParse(t *testing.T) {
	d := parse(t)
	assert.Equal(t, "Development", d.Name(), "wrong name")
	assert.Equal(t, 3, len(d.Top), "wrong top size")
	assert.Equal(t, "old", d.Top["0xAB01"], "wrong top value")
}

func TestParseInvalid(t *testing.T) {
	items := []struct {
		content string
		err     error
	}{
		{`{"genesis":`, fault.ErrInvalidGenesis},
		{`[]`, fault.ErrInvalidGenesis},
		{`null`, fault.ErrInvalidGenesis},
		{`{}`, fault.ErrMissingGenesisSection},
		{`{"genesis": null}`, fault.ErrMissingGenesisSection},
		{`{"genesis": {"runtime": {}}}`, fault.ErrMissingGenesisSection},
		{`{"genesis": {"raw": {"childrenDefault": {}}}}`, fault.ErrMissingGenesisSection},
		{`{"genesis": {"raw": []}}`, fault.ErrInvalidGenesis},
		{`{"genesis": {"raw": {"top": {"0x01": 1}}}}`, fault.ErrInvalidGenesis},
	}

	for i, item := range items {
		_, err := genesis.Parse([]byte(item.content))
		require.NotNil(t, err, "%d: expected error", i)
		assert.True(t, fault.IsErrInvalid(err), "%d: expected invalid: %v", i, err)
		assert.Contains(t, err.Error(), item.err.Error(), "%d: wrong error", i)
	}
}

func TestEncodeKeepsOtherFields(t *testing.T) {
	d := parse(t)
	d.Top["0x99"] = "0x01"

	data, err := d.Encode()
	require.Nil(t, err, "encode error")

	assert.Contains(t, string(data), `"tokenSymbol": "<UNIT>"`, "HTML escaped or field lost")
	assert.Contains(t, string(data), "\n    \"bootNodes\": []", "wrong indent")

	var decoded map[string]interface{}
	require.Nil(t, json.Unmarshal(data, &decoded), "output is not JSON")
	assert.Equal(t, "dev", decoded["id"], "wrong id")
	assert.Equal(t, map[string]interface{}{}, decoded["codeSubstitutes"], "wrong codeSubstitutes")

	raw := decoded["genesis"].(map[string]interface{})["raw"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{}, raw["childrenDefault"], "childrenDefault lost")
	assert.Equal(t, "0x01", raw["top"].(map[string]interface{})["0x99"], "new key missing")
}

// depth=1, allowlist ["0xAB"], pairs (0xAB01,v1),(0xCD02,v2), template
// {"0xAB01":"old"}: only 0xAB01 is copied
func TestMergeExample(t *testing.T) {
	d, err := genesis.Parse([]byte(`{"genesis": {"raw": {"top": {"0xAB01": "old"}}}}`))
	require.Nil(t, err, "parse error")

	pairs := []state.Pair{
		{Key: "0xAB01", Value: "v1"},
		{Key: "0xCD02", Value: "v2"},
	}
	result := genesis.Merge(d, allowlist.New([]string{"0xAB"}), pairs, genesis.Overrides{Code: "0xc0de"}, nil)

	assert.Equal(t, map[string]string{
		"0xAB01":        "v1",
		storagekey.Code: "0xc0de",
	}, d.Top, "wrong top map")
	assert.Equal(t, 1, result.Copied, "wrong copied count")
	assert.Equal(t, 1, result.Replaced, "wrong replaced count")
	assert.False(t, result.RemovedLastUpgrade, "nothing to remove")
	assert.False(t, result.SudoSet, "sudo set")
}

func TestMergeOverridesWin(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	d := parse(t)

	// every pair matches the allowlist, including the override keys
	list := allowlist.New([]string{"0x"})
	pairs := []state.Pair{
		{Key: storagekey.Code, Value: "0xlivecode"},
		{Key: storagekey.LastRuntimeUpgrade, Value: "0x0203"},
		{Key: storagekey.SudoKey, Value: "0xlivesudo"},
		{Key: "0x1234", Value: "0x5678"},
	}

	result := genesis.Merge(d, list, pairs, genesis.Overrides{Code: "0xnewcode", Sudo: alice}, fixtures.Logger())

	assert.Equal(t, "0xnewcode", d.Top[storagekey.Code], "code not overridden")
	_, ok := d.Top[storagekey.LastRuntimeUpgrade]
	assert.False(t, ok, "last runtime upgrade not removed")
	assert.Equal(t, alice, d.Top[storagekey.SudoKey], "sudo key not overridden")
	assert.Equal(t, "0x5678", d.Top["0x1234"], "pair not copied")
	assert.Equal(t, 4, result.Copied, "wrong copied count")
	assert.True(t, result.RemovedLastUpgrade, "expected removal")
	assert.True(t, result.SudoSet, "expected sudo")
}

func TestMergeWithoutSudoKeepsLiveSudo(t *testing.T) {
	d := parse(t)
	pairs := []state.Pair{{Key: storagekey.SudoKey, Value: "0xlivesudo"}}

	genesis.Merge(d, allowlist.New([]string{storagekey.HexPrefix("Sudo")}), pairs, genesis.Overrides{Code: "0x00"}, nil)
	assert.Equal(t, "0xlivesudo", d.Top[storagekey.SudoKey], "live sudo replaced")
}

func TestMergeSudoWithoutPairs(t *testing.T) {
	d := parse(t)
	genesis.Merge(d, allowlist.New(nil), nil, genesis.Overrides{Code: "0x00", Sudo: alice}, nil)
	assert.Equal(t, alice, d.Top[storagekey.SudoKey], "wrong sudo key")
}

func TestMergeIsIdempotent(t *testing.T) {
	list := allowlist.New([]string{"0xab", storagekey.SystemAccount})
	pairs := []state.Pair{
		{Key: "0xab01", Value: "0x01"},
		{Key: "0xab02", Value: "0x02"},
		{Key: storagekey.AccountKey(make([]byte, 32)), Value: "0xbalance"},
		{Key: "0xcd01", Value: "0x03"},
	}
	overrides := genesis.Overrides{Code: "0xc0de", Sudo: alice}

	encode := func() []byte {
		d := parse(t)
		genesis.Merge(d, list, pairs, overrides, nil)
		data, err := d.Encode()
		require.Nil(t, err, "encode error")
		return data
	}

	first := encode()
	second := encode()
	assert.True(t, bytes.Equal(first, second), "merge output differs")

	// merging again into an already merged document changes nothing
	d, err := genesis.Parse(first)
	require.Nil(t, err, "parse merged error")
	genesis.Merge(d, list, pairs, overrides, nil)
	third, err := d.Encode()
	require.Nil(t, err, "encode error")
	assert.Equal(t, string(first), string(third), "second merge changed the document")
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fork.json")
	require.Nil(t, os.WriteFile(path, []byte("previous content"), 0o600), "write error")

	d := parse(t)
	genesis.Merge(d, allowlist.New(nil), nil, genesis.Overrides{Code: "0xc0de"}, nil)
	require.Nil(t, genesis.Save(path, d), "save error")

	loaded, err := genesis.Load(path)
	require.Nil(t, err, "load error")
	assert.Equal(t, d.Top, loaded.Top, "wrong top after reload")

	first, err := os.ReadFile(path)
	require.Nil(t, err, "read error")
	require.Nil(t, genesis.Save(path, loaded), "second save error")
	second, err := os.ReadFile(path)
	require.Nil(t, err, "read error")
	assert.Equal(t, string(first), string(second), "saves differ")

	entries, err := os.ReadDir(dir)
	require.Nil(t, err, "read dir error")
	assert.Equal(t, 1, len(entries), "temporary files left behind")
}

func TestLoadMissing(t *testing.T) {
	_, err := genesis.Load(filepath.Join(t.TempDir(), "fork.json"))
	assert.True(t, fault.IsErrNotFound(err), "expected not found: %v", err)
}
