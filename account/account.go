// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"bytes"
	"encoding/hex"
	"strings"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"

	"github.com/bitmark-inc/forkgenesis/fault"
)

// miscellaneous constants
const (
	PublicKeySize  = 32
	checksumLength = 2

	// network identifiers up to this fit in a single byte
	simplePrefixLimit = 64
	prefixLimit       = 16384

	// generic substrate network
	GenericPrefix = 42
)

// domain separation for the checksum
var checksumContext = []byte("SS58PRE")

// Alice - the development account public key
var Alice = Account{
	Prefix: GenericPrefix,
	PublicKey: []byte{
		0xd4, 0x35, 0x93, 0xc7, 0x15, 0xfd, 0xd3, 0x1c,
		0x61, 0x14, 0x1a, 0xbd, 0x04, 0xa9, 0x9f, 0xd6,
		0x82, 0x2c, 0x85, 0x58, 0x85, 0x4c, 0xcd, 0xe3,
		0x9a, 0x56, 0x84, 0xe7, 0xa5, 0x6d, 0xa2, 0x7d,
	},
}

// Account - a 32 byte public key and the network it was encoded for
type Account struct {
	Prefix    uint16
	PublicKey []byte
}

// FromSS58 - convert an SS58 encoded address to an account
func FromSS58(address string) (*Account, error) {
	decoded, err := base58.Decode(address)
	if nil != err || 0 == len(decoded) {
		return nil, fault.ErrInvalidAccount
	}

	prefix, prefixLength, err := decodePrefix(decoded)
	if nil != err {
		return nil, err
	}

	keyLength := len(decoded) - prefixLength - checksumLength
	if PublicKeySize != keyLength {
		return nil, fault.ErrInvalidKeyLength
	}

	checksumStart := len(decoded) - checksumLength
	checksum := ss58Checksum(decoded[:checksumStart])
	if !bytes.Equal(checksum, decoded[checksumStart:]) {
		return nil, fault.ErrChecksumMismatch
	}

	return &Account{
		Prefix:    prefix,
		PublicKey: decoded[prefixLength:checksumStart],
	}, nil
}

// FromHex - convert a 0x prefixed hex public key to an account
func FromHex(s string) (*Account, error) {
	if !strings.HasPrefix(s, "0x") {
		return nil, fault.ErrInvalidHex
	}
	publicKey, err := hex.DecodeString(s[2:])
	if nil != err {
		return nil, fault.ErrInvalidHex
	}
	if PublicKeySize != len(publicKey) {
		return nil, fault.ErrInvalidKeyLength
	}
	return &Account{
		Prefix:    GenericPrefix,
		PublicKey: publicKey,
	}, nil
}

// Parse - accept either the hex or the SS58 form
func Parse(s string) (*Account, error) {
	if strings.HasPrefix(s, "0x") {
		return FromHex(s)
	}
	return FromSS58(s)
}

// String - SS58 encoding of the account
func (account *Account) String() string {
	buffer := encodePrefix(account.Prefix)
	buffer = append(buffer, account.PublicKey...)
	buffer = append(buffer, ss58Checksum(buffer)...)
	return base58.Encode(buffer)
}

// Hex - public key as 0x prefixed hex
func (account *Account) Hex() string {
	return "0x" + hex.EncodeToString(account.PublicKey)
}

// MarshalText - convert an account to its SS58 JSON form
func (account Account) MarshalText() ([]byte, error) {
	return []byte(account.String()), nil
}

// UnmarshalText - convert an SS58 or hex string to an account
func (account *Account) UnmarshalText(s []byte) error {
	a, err := Parse(string(s))
	if nil != err {
		return err
	}
	*account = *a
	return nil
}

func ss58Checksum(data []byte) []byte {
	h, _ := blake2b.New512(nil)
	h.Write(checksumContext)
	h.Write(data)
	return h.Sum(nil)[:checksumLength]
}

// prefix is either one byte (0..63) or two bytes with the network
// identifier bits spread across them
//
// byte 1:  0 | 1 | I07 | I06 | I05 | I04 | I03 | I02
// byte 2:  I01 | I00 | I13 | I12 | I11 | I10 | I09 | I08
func decodePrefix(buffer []byte) (uint16, int, error) {
	first := buffer[0]
	switch {
	case first < simplePrefixLimit:
		return uint16(first), 1, nil
	case first < 128:
		if len(buffer) < 2 {
			return 0, 0, fault.ErrInvalidAccount
		}
		second := buffer[1]
		lower := (first << 2) | (second >> 6)
		upper := second & 0x3f
		return uint16(lower) | uint16(upper)<<8, 2, nil
	default:
		return 0, 0, fault.ErrInvalidAccount
	}
}

func encodePrefix(prefix uint16) []byte {
	if prefix < simplePrefixLimit {
		return []byte{byte(prefix)}
	}
	prefix %= prefixLimit
	first := byte((prefix&0x00fc)>>2) | 0x40
	second := byte(prefix>>8) | byte((prefix&0x0003)<<6)
	return []byte{first, second}
}
