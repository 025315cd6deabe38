// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package allowlist

import (
	"strings"

	"github.com/bitmark-inc/logger"
	"github.com/pkg/errors"

	"github.com/bitmark-inc/forkgenesis/account"
	"github.com/bitmark-inc/forkgenesis/fault"
	"github.com/bitmark-inc/forkgenesis/state"
	"github.com/bitmark-inc/forkgenesis/storagekey"
)

// DefaultSkipped - pallets whose storage describes the validator set and
// consensus of the live chain, none of which can run on a fork
var DefaultSkipped = []string{
	"System",
	"Session",
	"Historical",
	"Babe",
	"Grandpa",
	"Staking",
	"Authorship",
	"AuthorityDiscovery",
	"ImOnline",
	"Offences",
	"BagsList",
	"ElectionProviderMultiPhase",
}

// DefaultPinned - System.Account is kept although System is skipped
var DefaultPinned = []string{
	storagekey.SystemAccount,
}

// Builder - inputs for building an allowlist
type Builder struct {
	Pinned      []string // literal prefixes, always included
	Skip        []string // pallet names never derived
	PinAccounts []string // SS58 or hex public keys whose System.Account entry is pinned
}

// Allowlist - immutable set of migrated prefixes
type Allowlist struct {
	prefixes []string
	lower    []string
}

// Build - pinned prefixes first, then H(name, 128) for every name
// not in the skip set, both in the order given
func (b Builder) Build(names []string, log *logger.L) (*Allowlist, error) {

	prefixes := make([]string, 0, len(b.Pinned)+len(b.PinAccounts)+len(names))
	for _, p := range b.Pinned {
		if !storagekey.ValidPrefix(p) {
			return nil, errors.Wrapf(fault.ErrInvalidPrefix, "pinned prefix: %q", p)
		}
		prefixes = append(prefixes, p)
	}

	for _, s := range b.PinAccounts {
		a, err := account.Parse(s)
		if nil != err {
			return nil, errors.Wrapf(err, "pinned account: %q", s)
		}
		prefixes = append(prefixes, storagekey.AccountKey(a.PublicKey))
	}

	skip := make(map[string]struct{}, len(b.Skip))
	for _, s := range b.Skip {
		skip[s] = struct{}{}
	}

	for _, name := range names {
		if _, ok := skip[name]; ok {
			log.Infof("skip module: %s", name)
			continue
		}
		prefixes = append(prefixes, storagekey.HexPrefix(name))
	}

	log.Infof("%d prefixes", len(prefixes))
	for i, p := range prefixes {
		log.Debugf("prefix[%d]: %s", i, p)
	}

	return New(prefixes), nil
}

// New - allowlist from literal prefixes
func New(prefixes []string) *Allowlist {
	l := &Allowlist{
		prefixes: make([]string, len(prefixes)),
		lower:    make([]string, len(prefixes)),
	}
	copy(l.prefixes, prefixes)
	for i, p := range prefixes {
		l.lower[i] = strings.ToLower(p)
	}
	return l
}

// Prefixes - copy of the ordered prefix list, duplicates included
func (l *Allowlist) Prefixes() []string {
	result := make([]string, len(l.prefixes))
	copy(result, l.prefixes)
	return result
}

// Len - number of prefixes
func (l *Allowlist) Len() int {
	return len(l.prefixes)
}

// Match - true if key starts with any prefix
//
// hex digits compare case insensitively
func (l *Allowlist) Match(key string) bool {
	key = strings.ToLower(key)
	for _, p := range l.lower {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

// Filter - matching pairs in input order, each at most once
func (l *Allowlist) Filter(pairs []state.Pair) []state.Pair {
	result := make([]state.Pair, 0)
	for _, p := range pairs {
		if l.Match(p.Key) {
			result = append(result, p)
		}
	}
	return result
}
