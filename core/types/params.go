package types

// Percentages are expressed in basis points.
const (
	FullPercent         uint16 = 10000
	MaxMarketFeePercent uint16 = FullPercent
)

// Witness budget scaling constants. These must match across nodes; the
// budget recharge formula shifts by CoreAssetCycleRateBits with ceiling
// semantics.
const (
	CoreAssetCycleRate     uint64 = 17
	CoreAssetCycleRateBits uint64 = 32
)

// Asset flag / permission bits. A flag may only be set while the matching
// permission bit is still present in issuer_permissions.
const (
	AssetChargeMarketFee     uint16 = 0x01
	AssetWhiteList           uint16 = 0x02
	AssetOverrideAuthority   uint16 = 0x04
	AssetTransferRestricted  uint16 = 0x08
	AssetDisableForceSettle  uint16 = 0x10
	AssetGlobalSettle        uint16 = 0x20
	AssetDisableConfidential uint16 = 0x40
	AssetWitnessFed          uint16 = 0x80
	AssetCommitteeFed        uint16 = 0x100
)

// IssuerPermissionMask covers every permission bit a market-issued asset may
// carry; UIAIssuerPermissionMask is the subset available to user-issued
// assets.
const (
	IssuerPermissionMask uint16 = AssetChargeMarketFee | AssetWhiteList |
		AssetOverrideAuthority | AssetTransferRestricted | AssetDisableForceSettle |
		AssetGlobalSettle | AssetDisableConfidential | AssetWitnessFed | AssetCommitteeFed
	UIAIssuerPermissionMask uint16 = AssetChargeMarketFee | AssetWhiteList |
		AssetOverrideAuthority | AssetTransferRestricted | AssetDisableConfidential
)

// Name and symbol size limits.
const (
	MinAccountNameLength = 3
	MaxAccountNameLength = 63
	MinSymbolLength      = 3
	MaxSymbolLength      = 16
	MaxAssetPrecision    = 12
)

// LifetimeReferralCutPercent is the portion of a lifetime membership fee
// burned when the upgrade applies; the remainder is network income.
const LifetimeReferralCutPercent uint16 = 8000

// AssetOptions is the mutable option block of an asset.
type AssetOptions struct {
	MaxSupply         ShareType
	MarketFeePercent  uint16
	IssuerPermissions uint16
	Flags             uint16
	CoreExchangeRate  Price
}

// Clone returns a copy of the options.
func (o AssetOptions) Clone() AssetOptions {
	return o
}

// AccountOptions is the mutable option block of an account.
type AccountOptions struct {
	MemoKey       PublicKey
	VotingAccount ObjectID
	NumWitness    uint16
	NumCommittee  uint16
	Votes         []VoteID
}

// Clone returns a deep copy.
func (o AccountOptions) Clone() AccountOptions {
	out := o
	out.MemoKey = append(PublicKey(nil), o.MemoKey...)
	out.Votes = append([]VoteID(nil), o.Votes...)
	return out
}
