// Package state implements the multi-indexed object store backing the chain
// evaluator: typed objects addressed by dense (space, type, instance) ids,
// named secondary indices, and a nestable undo journal giving every
// transaction all-or-nothing semantics.
package state

import (
	"halochain/core/types"
	"halochain/native/fees"
	"halochain/native/vesting"
)

// Object is anything the store persists. Clone must return a deep copy; the
// journal snapshots objects before mutation.
type Object interface {
	ObjectID() types.ObjectID
	Clone() Object
}

// AccountObject is the protocol-space account.
type AccountObject struct {
	ID             types.ObjectID
	Name           string
	Owner          types.Authority
	Active         types.Authority
	Options        types.AccountOptions
	LifetimeMember bool
	Statistics     types.ObjectID
}

func (o *AccountObject) ObjectID() types.ObjectID { return o.ID }

func (o *AccountObject) Clone() Object {
	clone := *o
	clone.Owner = o.Owner.Clone()
	clone.Active = o.Active.Clone()
	clone.Options = o.Options.Clone()
	return &clone
}

// AccountStatisticsObject is the implementation-space companion of an
// account.
type AccountStatisticsObject struct {
	ID               types.ObjectID
	Owner            types.ObjectID
	LifetimeFeesPaid types.ShareType
}

func (o *AccountStatisticsObject) ObjectID() types.ObjectID { return o.ID }

func (o *AccountStatisticsObject) Clone() Object {
	clone := *o
	return &clone
}

// AssetObject is the immutable descriptor plus mutable options of an asset.
type AssetObject struct {
	ID           types.ObjectID
	Symbol       string
	Precision    uint8
	Issuer       types.ObjectID
	Options      types.AssetOptions
	DynamicData  types.ObjectID
	BitassetData *types.ObjectID
}

func (o *AssetObject) ObjectID() types.ObjectID { return o.ID }

func (o *AssetObject) Clone() Object {
	clone := *o
	clone.Options = o.Options.Clone()
	if o.BitassetData != nil {
		id := *o.BitassetData
		clone.BitassetData = &id
	}
	return &clone
}

// IsMarketIssued reports whether the asset is collateral-backed.
func (o *AssetObject) IsMarketIssued() bool { return o.BitassetData != nil }

// Amount builds an amount denominated in this asset.
func (o *AssetObject) Amount(v types.ShareType) types.Asset {
	return types.Asset{Amount: v, AssetID: o.ID}
}

// AssetDynamicDataObject carries the mutable accounting of an asset.
// FeePool is core-denominated.
type AssetDynamicDataObject struct {
	ID              types.ObjectID
	CurrentSupply   types.ShareType
	AccumulatedFees types.ShareType
	FeePool         types.ShareType
}

func (o *AssetDynamicDataObject) ObjectID() types.ObjectID { return o.ID }

func (o *AssetDynamicDataObject) Clone() Object {
	clone := *o
	return &clone
}

// AssetBitassetDataObject marks an asset as market-issued and remembers
// whether it is a prediction market.
type AssetBitassetDataObject struct {
	ID                 types.ObjectID
	IsPredictionMarket bool
}

func (o *AssetBitassetDataObject) ObjectID() types.ObjectID { return o.ID }

func (o *AssetBitassetDataObject) Clone() Object {
	clone := *o
	return &clone
}

// CommitteeMemberObject links an account to a committee seat.
type CommitteeMemberObject struct {
	ID      types.ObjectID
	Account types.ObjectID
	VoteID  types.VoteID
	URL     string
}

func (o *CommitteeMemberObject) ObjectID() types.ObjectID { return o.ID }

func (o *CommitteeMemberObject) Clone() Object {
	clone := *o
	return &clone
}

// WitnessObject links an account to a block-producer seat. PayVB is the
// vesting balance accumulating the witness's pay, created on first payment.
type WitnessObject struct {
	ID         types.ObjectID
	Account    types.ObjectID
	VoteID     types.VoteID
	URL        string
	SigningKey types.PublicKey
	PayVB      *types.ObjectID
}

func (o *WitnessObject) ObjectID() types.ObjectID { return o.ID }

func (o *WitnessObject) Clone() Object {
	clone := *o
	clone.SigningKey = append(types.PublicKey(nil), o.SigningKey...)
	if o.PayVB != nil {
		id := *o.PayVB
		clone.PayVB = &id
	}
	return &clone
}

// VestingBalanceObject is a time-locked holding releasing funds under its
// policy. It stays at zero balance rather than being destroyed.
type VestingBalanceObject struct {
	ID      types.ObjectID
	Owner   types.ObjectID
	Balance types.Asset
	Policy  vesting.Policy
}

func (o *VestingBalanceObject) ObjectID() types.ObjectID { return o.ID }

func (o *VestingBalanceObject) Clone() Object {
	clone := *o
	clone.Policy = o.Policy.Clone()
	return &clone
}

// ChainParameters is the consensus parameter block of the global property
// object.
type ChainParameters struct {
	BlockInterval            uint8
	MaintenanceInterval      uint32
	WitnessPayPerBlock       types.ShareType
	WitnessPayVestingSeconds uint64
	MaximumWitnesses         uint16
	MaximumCommittee         uint16
	CurrentFees              *fees.Schedule
}

// Clone returns a deep copy.
func (p ChainParameters) Clone() ChainParameters {
	clone := p
	if p.CurrentFees != nil {
		clone.CurrentFees = p.CurrentFees.Clone()
	}
	return clone
}

// GlobalPropertyObject is the singleton carrying the parameters and active
// seat holders.
type GlobalPropertyObject struct {
	ID                     types.ObjectID
	Parameters             ChainParameters
	ActiveCommitteeMembers []types.ObjectID
	ActiveWitnesses        []types.ObjectID
	NextAvailableVoteID    [2]uint32
}

func (o *GlobalPropertyObject) ObjectID() types.ObjectID { return o.ID }

func (o *GlobalPropertyObject) Clone() Object {
	clone := *o
	clone.Parameters = o.Parameters.Clone()
	clone.ActiveCommitteeMembers = append([]types.ObjectID(nil), o.ActiveCommitteeMembers...)
	clone.ActiveWitnesses = append([]types.ObjectID(nil), o.ActiveWitnesses...)
	return &clone
}

// AllocateVoteID hands out the next dense vote id of a kind.
func (o *GlobalPropertyObject) AllocateVoteID(kind types.VoteKind) types.VoteID {
	id := types.VoteID{Kind: kind, Instance: o.NextAvailableVoteID[kind]}
	o.NextAvailableVoteID[kind]++
	return id
}

// DynamicGlobalPropertyObject is the singleton advancing with every block.
type DynamicGlobalPropertyObject struct {
	ID                  types.ObjectID
	HeadBlockNum        uint64
	HeadBlockTime       int64
	CurrentWitness      types.ObjectID
	NextMaintenanceTime int64
	LastBudgetTime      int64
	WitnessBudget       types.ShareType
}

func (o *DynamicGlobalPropertyObject) ObjectID() types.ObjectID { return o.ID }

func (o *DynamicGlobalPropertyObject) Clone() Object {
	clone := *o
	return &clone
}

// Well-known singleton ids.
var (
	GlobalPropertyID        = types.ObjectID{Space: types.SpaceImplementation, Type: types.ObjectTypeGlobalProperty, Instance: 0}
	DynamicGlobalPropertyID = types.ObjectID{Space: types.SpaceImplementation, Type: types.ObjectTypeDynamicGlobalProperty, Instance: 0}
)
