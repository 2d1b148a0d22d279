package types

import "fmt"

// Space partitions object ids between consensus-visible protocol objects and
// node-local implementation objects.
type Space uint8

const (
	SpaceProtocol       Space = 1
	SpaceImplementation Space = 2
)

// Protocol-space object types.
const (
	ObjectTypeAccount uint8 = iota + 1
	ObjectTypeAsset
	ObjectTypeCommitteeMember
	ObjectTypeWitness
	ObjectTypeVestingBalance
)

// Implementation-space object types.
const (
	ObjectTypeGlobalProperty uint8 = iota + 1
	ObjectTypeDynamicGlobalProperty
	ObjectTypeAssetDynamicData
	ObjectTypeAssetBitassetData
	ObjectTypeAccountStatistics
)

// ObjectID identifies a persistent object as (space, type, instance).
// Instances are dense and never reused; ids are stable for the lifetime of
// the object and usable as foreign keys.
type ObjectID struct {
	Space    Space
	Type     uint8
	Instance uint64
}

func (id ObjectID) String() string {
	return fmt.Sprintf("%d.%d.%d", id.Space, id.Type, id.Instance)
}

// IsNil reports whether the id is the zero id.
func (id ObjectID) IsNil() bool {
	return id.Space == 0 && id.Type == 0 && id.Instance == 0
}

// Less orders ids by (space, type, instance).
func (id ObjectID) Less(other ObjectID) bool {
	if id.Space != other.Space {
		return id.Space < other.Space
	}
	if id.Type != other.Type {
		return id.Type < other.Type
	}
	return id.Instance < other.Instance
}

// AccountID returns the protocol-space account id for an instance.
func AccountID(instance uint64) ObjectID {
	return ObjectID{Space: SpaceProtocol, Type: ObjectTypeAccount, Instance: instance}
}

// AssetID returns the protocol-space asset id for an instance.
func AssetID(instance uint64) ObjectID {
	return ObjectID{Space: SpaceProtocol, Type: ObjectTypeAsset, Instance: instance}
}

// VestingBalanceID returns the protocol-space vesting balance id for an instance.
func VestingBalanceID(instance uint64) ObjectID {
	return ObjectID{Space: SpaceProtocol, Type: ObjectTypeVestingBalance, Instance: instance}
}

// Reserved account instances created at genesis.
const (
	CommitteeAccountInstance        uint64 = 0
	WitnessAccountInstance          uint64 = 1
	RelaxedCommitteeAccountInstance uint64 = 2
	NullAccountInstance             uint64 = 3
	TempAccountInstance             uint64 = 4
	ProxyToSelfAccountInstance      uint64 = 5
)

// CommitteeAccount is the account funded with the initial supply at genesis.
var CommitteeAccount = AccountID(CommitteeAccountInstance)

// WitnessAccount is the reserved witness role account.
var WitnessAccount = AccountID(WitnessAccountInstance)

// ProxyToSelfAccount is the sentinel voting account meaning "vote with my own
// stake".
var ProxyToSelfAccount = AccountID(ProxyToSelfAccountInstance)

// CoreAsset is the distinguished asset all fees convert into.
var CoreAsset = AssetID(0)

// VoteKind distinguishes the electables a vote id can reference.
type VoteKind uint8

const (
	VoteCommittee VoteKind = 0
	VoteWitness   VoteKind = 1
)

// VoteID identifies one electable seat holder. Instances are allocated
// densely per kind from the global property object.
type VoteID struct {
	Kind     VoteKind
	Instance uint32
}

func (v VoteID) String() string {
	return fmt.Sprintf("%d:%d", v.Kind, v.Instance)
}

// Less orders vote ids by (kind, instance).
func (v VoteID) Less(other VoteID) bool {
	if v.Kind != other.Kind {
		return v.Kind < other.Kind
	}
	return v.Instance < other.Instance
}
