package state

import (
	"fmt"

	chainerr "halochain/core/errors"
	"halochain/core/types"
)

type spaceType struct {
	space types.Space
	typ   uint8
}

type balanceKey struct {
	owner types.ObjectID
	asset types.ObjectID
}

// Store is the single shared resource of the evaluator: a keyed store of
// typed objects with named secondary indices. All mutation flows through
// Create/Modify/Remove/Adjust so the active journal can record inverse
// entries first.
type Store struct {
	objects      map[types.ObjectID]Object
	nextInstance map[spaceType]uint64

	accountByName map[string]types.ObjectID
	assetBySymbol map[string]types.ObjectID
	balances      map[balanceKey]types.ShareType

	sessions []*journal
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		objects:       make(map[types.ObjectID]Object),
		nextInstance:  make(map[spaceType]uint64),
		accountByName: make(map[string]types.ObjectID),
		assetBySymbol: make(map[string]types.ObjectID),
		balances:      make(map[balanceKey]types.ShareType),
	}
}

// NextID returns the id the next created object of (space, typ) will get.
// Instances are dense and never reused.
func (s *Store) NextID(space types.Space, typ uint8) types.ObjectID {
	return types.ObjectID{Space: space, Type: typ, Instance: s.nextInstance[spaceType{space, typ}]}
}

// Create allocates the next instance id of (space, typ), passes it to build,
// and inserts the resulting object. Unique secondary indices are enforced.
func (s *Store) Create(space types.Space, typ uint8, build func(id types.ObjectID) Object) (Object, error) {
	key := spaceType{space, typ}
	id := types.ObjectID{Space: space, Type: typ, Instance: s.nextInstance[key]}
	obj := build(id)
	if obj.ObjectID() != id {
		return nil, fmt.Errorf("object built with id %s, expected %s", obj.ObjectID(), id)
	}
	if err := s.checkUniqueIndices(obj); err != nil {
		return nil, err
	}
	s.record(&createdEntry{id: id})
	s.nextInstance[key] = id.Instance + 1
	s.objects[id] = obj
	s.indexInsert(obj)
	return obj, nil
}

// Get resolves an id to its object in O(1).
func (s *Store) Get(id types.ObjectID) (Object, error) {
	obj, ok := s.objects[id]
	if !ok {
		return nil, chainerr.UnknownObjectf("%s", id)
	}
	return obj, nil
}

// Modify snapshots the object into the journal, re-keys its secondary
// indices, and applies mut. Mutations outside Modify corrupt the undo stack.
func (s *Store) Modify(id types.ObjectID, mut func(Object) error) error {
	obj, ok := s.objects[id]
	if !ok {
		return chainerr.UnknownObjectf("%s", id)
	}
	s.record(&modifiedEntry{prev: obj.Clone()})
	s.indexRemove(obj)
	if err := mut(obj); err != nil {
		// The journal still holds the pre-image; the caller is expected to
		// undo the enclosing session.
		s.indexInsert(obj)
		return err
	}
	if err := s.checkUniqueIndicesExcept(obj, id); err != nil {
		s.indexInsert(obj)
		return err
	}
	s.indexInsert(obj)
	return nil
}

// Remove deletes an object. Protocol objects on this chain are never
// destroyed; this exists for the undo machinery and implementation-space
// housekeeping.
func (s *Store) Remove(id types.ObjectID) error {
	obj, ok := s.objects[id]
	if !ok {
		return chainerr.UnknownObjectf("%s", id)
	}
	s.record(&removedEntry{prev: obj.Clone()})
	s.indexRemove(obj)
	delete(s.objects, id)
	return nil
}

// ForEach visits every live object of (space, typ) in instance order.
// Iteration is O(k) over the allocated instance range.
func (s *Store) ForEach(space types.Space, typ uint8, fn func(Object) error) error {
	limit := s.nextInstance[spaceType{space, typ}]
	for instance := uint64(0); instance < limit; instance++ {
		obj, ok := s.objects[types.ObjectID{Space: space, Type: typ, Instance: instance}]
		if !ok {
			continue
		}
		if err := fn(obj); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) checkUniqueIndices(obj Object) error {
	return s.checkUniqueIndicesExcept(obj, types.ObjectID{})
}

func (s *Store) checkUniqueIndicesExcept(obj Object, self types.ObjectID) error {
	switch o := obj.(type) {
	case *AccountObject:
		if existing, ok := s.accountByName[o.Name]; ok && existing != self {
			return fmt.Errorf("account name %q already taken by %s", o.Name, existing)
		}
	case *AssetObject:
		if existing, ok := s.assetBySymbol[o.Symbol]; ok && existing != self {
			return fmt.Errorf("asset symbol %q already taken by %s", o.Symbol, existing)
		}
	}
	return nil
}

func (s *Store) indexInsert(obj Object) {
	switch o := obj.(type) {
	case *AccountObject:
		s.accountByName[o.Name] = o.ID
	case *AssetObject:
		s.assetBySymbol[o.Symbol] = o.ID
	}
}

func (s *Store) indexRemove(obj Object) {
	switch o := obj.(type) {
	case *AccountObject:
		delete(s.accountByName, o.Name)
	case *AssetObject:
		delete(s.assetBySymbol, o.Symbol)
	}
}

// AccountByName resolves the unique by_name index.
func (s *Store) AccountByName(name string) (*AccountObject, error) {
	id, ok := s.accountByName[name]
	if !ok {
		return nil, chainerr.UnknownObjectf("account %q", name)
	}
	return s.GetAccount(id)
}

// AssetBySymbol resolves the unique by_symbol index.
func (s *Store) AssetBySymbol(symbol string) (*AssetObject, error) {
	id, ok := s.assetBySymbol[symbol]
	if !ok {
		return nil, chainerr.UnknownObjectf("asset %q", symbol)
	}
	return s.GetAsset(id)
}

// Typed getters. Each fails with the unknown-object kind when the id is
// absent or of the wrong type.

func (s *Store) GetAccount(id types.ObjectID) (*AccountObject, error) {
	obj, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	account, ok := obj.(*AccountObject)
	if !ok {
		return nil, chainerr.UnknownObjectf("%s is not an account", id)
	}
	return account, nil
}

func (s *Store) GetAccountStatistics(id types.ObjectID) (*AccountStatisticsObject, error) {
	obj, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	stats, ok := obj.(*AccountStatisticsObject)
	if !ok {
		return nil, chainerr.UnknownObjectf("%s is not an account statistics object", id)
	}
	return stats, nil
}

func (s *Store) GetAsset(id types.ObjectID) (*AssetObject, error) {
	obj, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	asset, ok := obj.(*AssetObject)
	if !ok {
		return nil, chainerr.UnknownObjectf("%s is not an asset", id)
	}
	return asset, nil
}

func (s *Store) GetAssetDynamicData(id types.ObjectID) (*AssetDynamicDataObject, error) {
	obj, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	dynamic, ok := obj.(*AssetDynamicDataObject)
	if !ok {
		return nil, chainerr.UnknownObjectf("%s is not asset dynamic data", id)
	}
	return dynamic, nil
}

func (s *Store) GetBitassetData(id types.ObjectID) (*AssetBitassetDataObject, error) {
	obj, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	bitasset, ok := obj.(*AssetBitassetDataObject)
	if !ok {
		return nil, chainerr.UnknownObjectf("%s is not bitasset data", id)
	}
	return bitasset, nil
}

func (s *Store) GetWitness(id types.ObjectID) (*WitnessObject, error) {
	obj, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	witness, ok := obj.(*WitnessObject)
	if !ok {
		return nil, chainerr.UnknownObjectf("%s is not a witness", id)
	}
	return witness, nil
}

func (s *Store) GetCommitteeMember(id types.ObjectID) (*CommitteeMemberObject, error) {
	obj, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	member, ok := obj.(*CommitteeMemberObject)
	if !ok {
		return nil, chainerr.UnknownObjectf("%s is not a committee member", id)
	}
	return member, nil
}

func (s *Store) GetVestingBalance(id types.ObjectID) (*VestingBalanceObject, error) {
	obj, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	vb, ok := obj.(*VestingBalanceObject)
	if !ok {
		return nil, chainerr.UnknownObjectf("%s is not a vesting balance", id)
	}
	return vb, nil
}

// GlobalProperties returns the parameter singleton.
func (s *Store) GlobalProperties() (*GlobalPropertyObject, error) {
	obj, err := s.Get(GlobalPropertyID)
	if err != nil {
		return nil, err
	}
	gpo, ok := obj.(*GlobalPropertyObject)
	if !ok {
		return nil, chainerr.UnknownObjectf("global property object missing")
	}
	return gpo, nil
}

// DynamicGlobalProperties returns the per-block singleton.
func (s *Store) DynamicGlobalProperties() (*DynamicGlobalPropertyObject, error) {
	obj, err := s.Get(DynamicGlobalPropertyID)
	if err != nil {
		return nil, err
	}
	dgp, ok := obj.(*DynamicGlobalPropertyObject)
	if !ok {
		return nil, chainerr.UnknownObjectf("dynamic global property object missing")
	}
	return dgp, nil
}

// Balance reads the (owner, asset) balance index; absent entries are zero.
func (s *Store) Balance(owner, asset types.ObjectID) types.Asset {
	return types.Asset{Amount: s.balances[balanceKey{owner, asset}], AssetID: asset}
}

// Adjust credits (positive delta) or debits (negative delta) a balance.
// Debits past zero fail with the insufficient-balance kind.
func (s *Store) Adjust(owner types.ObjectID, delta types.Asset) error {
	if delta.Amount == 0 {
		return nil
	}
	key := balanceKey{owner, delta.AssetID}
	current := s.balances[key]
	next, err := current.CheckedAdd(delta.Amount)
	if err != nil {
		return chainerr.InvariantViolationf("balance overflow for %s: %v", owner, err)
	}
	if next < 0 {
		return chainerr.InsufficientBalancef("account %s has %d of %s, needs %d",
			owner, current, delta.AssetID, -delta.Amount)
	}
	s.record(&balanceEntry{key: key, prev: current})
	if next == 0 {
		delete(s.balances, key)
		return nil
	}
	s.balances[key] = next
	return nil
}

// TotalBalances sums the balance index per asset; used by the supply
// invariant checker.
func (s *Store) TotalBalances() map[types.ObjectID]types.ShareType {
	totals := make(map[types.ObjectID]types.ShareType)
	for key, amount := range s.balances {
		totals[key.asset] += amount
	}
	return totals
}
