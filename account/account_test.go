// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account_test

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/forkgenesis/account"
	"github.com/bitmark-inc/forkgenesis/fault"
)

const alicePublicKey = "d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"

// Valid addresses of the development account on different networks
var testAccount = []struct {
	prefix  uint16
	address string
}{
	{42, "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"},
	{0, "15oF4uVJwmo4TdGW7VfQxNLavjCXviqxT9S1MgbjMNHr6Sp5"},
}

func TestFromSS58(t *testing.T) {
	for i, item := range testAccount {
		a, err := account.FromSS58(item.address)
		if !assert.Nil(t, err, "%d: wrong FromSS58", i) {
			continue
		}
		assert.Equal(t, item.prefix, a.Prefix, "%d: wrong prefix", i)
		assert.Equal(t, alicePublicKey, hex.EncodeToString(a.PublicKey), "%d: wrong public key", i)
		assert.Equal(t, item.address, a.String(), "%d: wrong re-encoding", i)
	}
}

func TestAlice(t *testing.T) {
	assert.Equal(t, "0x"+alicePublicKey, account.Alice.Hex(), "wrong alice key")
	assert.Equal(t, "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY", account.Alice.String(), "wrong alice address")
}

func TestTwoBytePrefixRoundTrip(t *testing.T) {
	for _, prefix := range []uint16{64, 255, 1284, 16383} {
		a := account.Account{
			Prefix:    prefix,
			PublicKey: account.Alice.PublicKey,
		}
		b, err := account.FromSS58(a.String())
		if !assert.Nil(t, err, "prefix %d: wrong FromSS58", prefix) {
			continue
		}
		assert.Equal(t, prefix, b.Prefix, "wrong prefix")
		assert.Equal(t, a.PublicKey, b.PublicKey, "wrong public key for prefix %d", prefix)
	}
}

func TestInvalidSS58(t *testing.T) {
	items := []struct {
		address string
		err     error
	}{
		{"", fault.ErrInvalidAccount},
		{"0OIl", fault.ErrInvalidAccount},
		{"5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQZ", fault.ErrChecksumMismatch},
		{"3MvykBZzN", fault.ErrInvalidKeyLength},
	}
	for i, item := range items {
		_, err := account.FromSS58(item.address)
		assert.Equal(t, item.err, err, "%d: wrong error for %q", i, item.address)
	}
}

func TestFromHex(t *testing.T) {
	a, err := account.FromHex("0x" + alicePublicKey)
	assert.Nil(t, err, "wrong FromHex")
	assert.Equal(t, account.Alice.PublicKey, a.PublicKey, "wrong public key")

	_, err = account.FromHex("0x1234")
	assert.Equal(t, fault.ErrInvalidKeyLength, err, "short key")

	_, err = account.FromHex(alicePublicKey)
	assert.Equal(t, fault.ErrInvalidHex, err, "missing marker")
}

func TestJSON(t *testing.T) {
	var a account.Account
	err := json.Unmarshal([]byte(`"5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"`), &a)
	assert.Nil(t, err, "wrong unmarshal")
	assert.Equal(t, account.Alice.PublicKey, a.PublicKey, "wrong public key")

	b, err := json.Marshal(a)
	assert.Nil(t, err, "wrong marshal")
	assert.Equal(t, `"5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"`, string(b), "wrong JSON")
}
