package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
	"lukechampine.com/blake3"

	"halochain/core/types"
	"halochain/native/vesting"
	"halochain/storage"
)

// Snapshots flatten the whole store into one KV record: an RLP envelope
// carrying the height, a BLAKE3 digest, and the JSON-encoded object payload.
// The payload stays JSON because state objects hold signed amounts and a
// polymorphic vesting policy, neither of which RLP can express. The snapshot
// encoding is node-local persistence, not the consensus wire format.

var snapshotKey = []byte("chain/snapshot")

type snapshotRecord struct {
	Height  uint64
	Digest  [32]byte
	Payload []byte
}

type vestingPolicyDTO struct {
	Kind   types.VestingPolicyKind
	CDD    *vesting.CDDPolicy    `json:",omitempty"`
	Linear *vesting.LinearPolicy `json:",omitempty"`
}

type vestingBalanceDTO struct {
	ID      types.ObjectID
	Owner   types.ObjectID
	Balance types.Asset
	Policy  vestingPolicyDTO
}

type balanceDTO struct {
	Owner  types.ObjectID
	Asset  types.ObjectID
	Amount types.ShareType
}

type nextInstanceDTO struct {
	Space    types.Space
	Type     uint8
	Instance uint64
}

type snapshotDTO struct {
	Accounts        []*AccountObject
	Statistics      []*AccountStatisticsObject
	Assets          []*AssetObject
	DynamicData     []*AssetDynamicDataObject
	BitassetData    []*AssetBitassetDataObject
	CommitteeMember []*CommitteeMemberObject
	Witnesses       []*WitnessObject
	VestingBalances []vestingBalanceDTO
	Global          *GlobalPropertyObject
	DynamicGlobal   *DynamicGlobalPropertyObject
	Balances        []balanceDTO
	NextInstances   []nextInstanceDTO
}

// WriteSnapshot persists the full store state at the given height.
func (s *Store) WriteSnapshot(db storage.Database, height uint64) error {
	dto := snapshotDTO{}
	ids := make([]types.ObjectID, 0, len(s.objects))
	for id := range s.objects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	for _, id := range ids {
		switch obj := s.objects[id].(type) {
		case *AccountObject:
			dto.Accounts = append(dto.Accounts, obj)
		case *AccountStatisticsObject:
			dto.Statistics = append(dto.Statistics, obj)
		case *AssetObject:
			dto.Assets = append(dto.Assets, obj)
		case *AssetDynamicDataObject:
			dto.DynamicData = append(dto.DynamicData, obj)
		case *AssetBitassetDataObject:
			dto.BitassetData = append(dto.BitassetData, obj)
		case *CommitteeMemberObject:
			dto.CommitteeMember = append(dto.CommitteeMember, obj)
		case *WitnessObject:
			dto.Witnesses = append(dto.Witnesses, obj)
		case *VestingBalanceObject:
			vb := vestingBalanceDTO{ID: obj.ID, Owner: obj.Owner, Balance: obj.Balance}
			switch policy := obj.Policy.(type) {
			case *vesting.CDDPolicy:
				vb.Policy = vestingPolicyDTO{Kind: types.VestingPolicyCDD, CDD: policy}
			case *vesting.LinearPolicy:
				vb.Policy = vestingPolicyDTO{Kind: types.VestingPolicyLinear, Linear: policy}
			default:
				return fmt.Errorf("unknown vesting policy %T on %s", policy, obj.ID)
			}
			dto.VestingBalances = append(dto.VestingBalances, vb)
		case *GlobalPropertyObject:
			dto.Global = obj
		case *DynamicGlobalPropertyObject:
			dto.DynamicGlobal = obj
		default:
			return fmt.Errorf("unknown object type %T at %s", obj, id)
		}
	}
	for key, amount := range s.balances {
		dto.Balances = append(dto.Balances, balanceDTO{Owner: key.owner, Asset: key.asset, Amount: amount})
	}
	sort.Slice(dto.Balances, func(i, j int) bool {
		if dto.Balances[i].Owner != dto.Balances[j].Owner {
			return dto.Balances[i].Owner.Less(dto.Balances[j].Owner)
		}
		return dto.Balances[i].Asset.Less(dto.Balances[j].Asset)
	})
	for key, next := range s.nextInstance {
		dto.NextInstances = append(dto.NextInstances, nextInstanceDTO{Space: key.space, Type: key.typ, Instance: next})
	}
	sort.Slice(dto.NextInstances, func(i, j int) bool {
		a, b := dto.NextInstances[i], dto.NextInstances[j]
		if a.Space != b.Space {
			return a.Space < b.Space
		}
		return a.Type < b.Type
	})

	payload, err := json.Marshal(dto)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	record := snapshotRecord{Height: height, Digest: blake3.Sum256(payload), Payload: payload}
	encoded, err := rlp.EncodeToBytes(&record)
	if err != nil {
		return fmt.Errorf("encode snapshot record: %w", err)
	}
	return db.Put(snapshotKey, encoded)
}

// LoadSnapshot replaces the store contents with the persisted snapshot and
// returns its height. The payload digest is verified before anything is
// applied.
func (s *Store) LoadSnapshot(db storage.Database) (uint64, error) {
	encoded, err := db.Get(snapshotKey)
	if err != nil {
		return 0, err
	}
	var record snapshotRecord
	if err := rlp.DecodeBytes(encoded, &record); err != nil {
		return 0, fmt.Errorf("decode snapshot record: %w", err)
	}
	if digest := blake3.Sum256(record.Payload); !bytes.Equal(digest[:], record.Digest[:]) {
		return 0, fmt.Errorf("snapshot digest mismatch")
	}
	var dto snapshotDTO
	if err := json.Unmarshal(record.Payload, &dto); err != nil {
		return 0, fmt.Errorf("decode snapshot: %w", err)
	}

	fresh := NewStore()
	insert := func(obj Object) {
		fresh.objects[obj.ObjectID()] = obj
		fresh.indexInsert(obj)
	}
	for _, obj := range dto.Accounts {
		insert(obj)
	}
	for _, obj := range dto.Statistics {
		insert(obj)
	}
	for _, obj := range dto.Assets {
		insert(obj)
	}
	for _, obj := range dto.DynamicData {
		insert(obj)
	}
	for _, obj := range dto.BitassetData {
		insert(obj)
	}
	for _, obj := range dto.CommitteeMember {
		insert(obj)
	}
	for _, obj := range dto.Witnesses {
		insert(obj)
	}
	for _, vb := range dto.VestingBalances {
		obj := &VestingBalanceObject{ID: vb.ID, Owner: vb.Owner, Balance: vb.Balance}
		switch {
		case vb.Policy.Kind == types.VestingPolicyCDD && vb.Policy.CDD != nil:
			obj.Policy = vb.Policy.CDD
		case vb.Policy.Kind == types.VestingPolicyLinear && vb.Policy.Linear != nil:
			obj.Policy = vb.Policy.Linear
		default:
			return 0, fmt.Errorf("vesting balance %s has no policy payload", vb.ID)
		}
		insert(obj)
	}
	if dto.Global != nil {
		insert(dto.Global)
	}
	if dto.DynamicGlobal != nil {
		insert(dto.DynamicGlobal)
	}
	for _, bal := range dto.Balances {
		fresh.balances[balanceKey{bal.Owner, bal.Asset}] = bal.Amount
	}
	for _, ni := range dto.NextInstances {
		fresh.nextInstance[spaceType{ni.Space, ni.Type}] = ni.Instance
	}

	*s = *fresh
	return record.Height, nil
}
