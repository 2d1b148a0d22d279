package types

import (
	"bytes"
	"fmt"
	"sort"
)

// PublicKey is an opaque serialized public key. Signature verification is an
// external collaborator; the evaluator only stores and compares keys.
type PublicKey []byte

// AccountAuth is one weighted account entry of an authority.
type AccountAuth struct {
	Account ObjectID
	Weight  uint16
}

// KeyAuth is one weighted key entry of an authority.
type KeyAuth struct {
	Key    PublicKey
	Weight uint16
}

// Authority is a weighted multi-key/multi-account threshold authority.
// Entries are kept sorted so the wire encoding is canonical.
type Authority struct {
	WeightThreshold uint32
	AccountAuths    []AccountAuth
	KeyAuths        []KeyAuth
}

// NewKeyAuthority builds a single-key authority with the given weight acting
// as its own threshold.
func NewKeyAuthority(key PublicKey, weight uint16) Authority {
	return Authority{
		WeightThreshold: uint32(weight),
		KeyAuths:        []KeyAuth{{Key: append(PublicKey(nil), key...), Weight: weight}},
	}
}

// NumAuths returns the number of entries across both maps.
func (a Authority) NumAuths() int {
	return len(a.AccountAuths) + len(a.KeyAuths)
}

// KeyWeight returns the weight assigned to key, or zero.
func (a Authority) KeyWeight(key PublicKey) uint16 {
	for _, ka := range a.KeyAuths {
		if bytes.Equal(ka.Key, key) {
			return ka.Weight
		}
	}
	return 0
}

// AddAccountAuth inserts or replaces the weight for an account entry.
func (a *Authority) AddAccountAuth(account ObjectID, weight uint16) {
	for i := range a.AccountAuths {
		if a.AccountAuths[i].Account == account {
			a.AccountAuths[i].Weight = weight
			return
		}
	}
	a.AccountAuths = append(a.AccountAuths, AccountAuth{Account: account, Weight: weight})
	a.normalize()
}

func (a *Authority) normalize() {
	sort.Slice(a.AccountAuths, func(i, j int) bool {
		return a.AccountAuths[i].Account.Less(a.AccountAuths[j].Account)
	})
	sort.Slice(a.KeyAuths, func(i, j int) bool {
		return bytes.Compare(a.KeyAuths[i].Key, a.KeyAuths[j].Key) < 0
	})
}

// Validate checks the structural authority invariants: a reachable threshold,
// sorted unique entries, and a weight total that does not overflow.
func (a Authority) Validate() error {
	if a.WeightThreshold == 0 {
		return fmt.Errorf("authority threshold must be positive")
	}
	var total uint64
	for i, aa := range a.AccountAuths {
		if aa.Weight == 0 {
			return fmt.Errorf("authority account %s has zero weight", aa.Account)
		}
		if i > 0 && !a.AccountAuths[i-1].Account.Less(aa.Account) {
			return fmt.Errorf("authority account entries not strictly sorted")
		}
		total += uint64(aa.Weight)
	}
	for i, ka := range a.KeyAuths {
		if len(ka.Key) == 0 {
			return fmt.Errorf("authority key entry is empty")
		}
		if ka.Weight == 0 {
			return fmt.Errorf("authority key has zero weight")
		}
		if i > 0 && bytes.Compare(a.KeyAuths[i-1].Key, ka.Key) >= 0 {
			return fmt.Errorf("authority key entries not strictly sorted")
		}
		total += uint64(ka.Weight)
	}
	if total > 1<<32 {
		return fmt.Errorf("authority weight total %d overflows", total)
	}
	if total < uint64(a.WeightThreshold) {
		return fmt.Errorf("authority threshold %d unreachable with total weight %d", a.WeightThreshold, total)
	}
	return nil
}

// Clone returns a deep copy.
func (a Authority) Clone() Authority {
	out := Authority{WeightThreshold: a.WeightThreshold}
	out.AccountAuths = append([]AccountAuth(nil), a.AccountAuths...)
	out.KeyAuths = make([]KeyAuth, len(a.KeyAuths))
	for i, ka := range a.KeyAuths {
		out.KeyAuths[i] = KeyAuth{Key: append(PublicKey(nil), ka.Key...), Weight: ka.Weight}
	}
	return out
}
