package types

import (
	chainerr "halochain/core/errors"
)

// OpTag is the stable numeric discriminant of the operation union. Tags are
// part of the wire format and of fee-parameter lookup; existing values never
// change.
type OpTag uint8

const (
	TagTransfer OpTag = iota
	TagAccountCreate
	TagAccountUpdate
	TagAccountUpgrade
	TagCommitteeMemberCreate
	TagWitnessCreate
	TagAssetCreate
	TagAssetUpdate
	TagAssetIssue
	TagAssetReserve
	TagAssetFundFeePool
	TagVestingBalanceCreate
	TagVestingBalanceWithdraw
	TagProxyTransfer

	opTagCount
)

func (t OpTag) String() string {
	names := [...]string{
		"transfer", "account_create", "account_update", "account_upgrade",
		"committee_member_create", "witness_create",
		"asset_create", "asset_update", "asset_issue", "asset_reserve",
		"asset_fund_fee_pool",
		"vesting_balance_create", "vesting_balance_withdraw",
		"proxy_transfer",
	}
	if int(t) < len(names) {
		return names[t]
	}
	return "unknown"
}

// Operation is one variant of the closed operation union. Validate is pure
// and state-free; everything touching chain state happens in the evaluators.
type Operation interface {
	Tag() OpTag
	// OpFee returns the declared fee of the operation.
	OpFee() Asset
	// SetOpFee replaces the declared fee; used by the fee schedule.
	SetOpFee(fee Asset)
	// FeePayer is the account debited for the fee.
	FeePayer() ObjectID
	// Validate performs structural validation.
	Validate() error

	marshalFields(e *encoder)
	unmarshalFields(d *decoder) error
}

func validateFee(fee Asset) error {
	if fee.Amount < 0 {
		return chainerr.Malformedf("fee %s is negative", fee)
	}
	return nil
}

// Transfer moves amount from one account to another in a single asset.
type Transfer struct {
	Fee    Asset
	From   ObjectID
	To     ObjectID
	Amount Asset
}

func (op *Transfer) Tag() OpTag         { return TagTransfer }
func (op *Transfer) OpFee() Asset       { return op.Fee }
func (op *Transfer) SetOpFee(fee Asset) { op.Fee = fee }
func (op *Transfer) FeePayer() ObjectID { return op.From }

func (op *Transfer) Validate() error {
	if err := validateFee(op.Fee); err != nil {
		return err
	}
	if op.Amount.Amount <= 0 {
		return chainerr.Malformedf("transfer amount %s must be positive", op.Amount)
	}
	if op.From == op.To {
		return chainerr.Malformedf("transfer from %s to itself", op.From)
	}
	return nil
}

// AccountCreate registers a new account.
type AccountCreate struct {
	Fee       Asset
	Registrar ObjectID
	Name      string
	Owner     Authority
	Active    Authority
	Options   AccountOptions
}

func (op *AccountCreate) Tag() OpTag         { return TagAccountCreate }
func (op *AccountCreate) OpFee() Asset       { return op.Fee }
func (op *AccountCreate) SetOpFee(fee Asset) { op.Fee = fee }
func (op *AccountCreate) FeePayer() ObjectID { return op.Registrar }

func (op *AccountCreate) Validate() error {
	if err := validateFee(op.Fee); err != nil {
		return err
	}
	if err := ValidateAccountName(op.Name); err != nil {
		return chainerr.Malformedf("%v", err)
	}
	if err := op.Owner.Validate(); err != nil {
		return chainerr.Malformedf("owner authority: %v", err)
	}
	if err := op.Active.Validate(); err != nil {
		return chainerr.Malformedf("active authority: %v", err)
	}
	return nil
}

// AccountUpdate replaces the owner authority, active authority, or options of
// an account; absent fields stay untouched.
type AccountUpdate struct {
	Fee        Asset
	Account    ObjectID
	Owner      *Authority
	Active     *Authority
	NewOptions *AccountOptions
}

func (op *AccountUpdate) Tag() OpTag         { return TagAccountUpdate }
func (op *AccountUpdate) OpFee() Asset       { return op.Fee }
func (op *AccountUpdate) SetOpFee(fee Asset) { op.Fee = fee }
func (op *AccountUpdate) FeePayer() ObjectID { return op.Account }

func (op *AccountUpdate) Validate() error {
	if err := validateFee(op.Fee); err != nil {
		return err
	}
	if op.Owner == nil && op.Active == nil && op.NewOptions == nil {
		return chainerr.Malformedf("account update of %s changes nothing", op.Account)
	}
	if op.Owner != nil {
		if err := op.Owner.Validate(); err != nil {
			return chainerr.Malformedf("owner authority: %v", err)
		}
	}
	if op.Active != nil {
		if err := op.Active.Validate(); err != nil {
			return chainerr.Malformedf("active authority: %v", err)
		}
	}
	return nil
}

// AccountUpgrade upgrades an account to lifetime membership.
type AccountUpgrade struct {
	Fee              Asset
	AccountToUpgrade ObjectID
	LifetimeMember   bool
}

func (op *AccountUpgrade) Tag() OpTag         { return TagAccountUpgrade }
func (op *AccountUpgrade) OpFee() Asset       { return op.Fee }
func (op *AccountUpgrade) SetOpFee(fee Asset) { op.Fee = fee }
func (op *AccountUpgrade) FeePayer() ObjectID { return op.AccountToUpgrade }

func (op *AccountUpgrade) Validate() error {
	if err := validateFee(op.Fee); err != nil {
		return err
	}
	if !op.LifetimeMember {
		return chainerr.Malformedf("account upgrade of %s requests no membership", op.AccountToUpgrade)
	}
	return nil
}

// CommitteeMemberCreate registers an account as a committee member.
type CommitteeMemberCreate struct {
	Fee                    Asset
	CommitteeMemberAccount ObjectID
	URL                    string
}

func (op *CommitteeMemberCreate) Tag() OpTag         { return TagCommitteeMemberCreate }
func (op *CommitteeMemberCreate) OpFee() Asset       { return op.Fee }
func (op *CommitteeMemberCreate) SetOpFee(fee Asset) { op.Fee = fee }
func (op *CommitteeMemberCreate) FeePayer() ObjectID { return op.CommitteeMemberAccount }

func (op *CommitteeMemberCreate) Validate() error {
	return validateFee(op.Fee)
}

// WitnessCreate registers an account as a block-producing witness.
type WitnessCreate struct {
	Fee            Asset
	WitnessAccount ObjectID
	URL            string
	SigningKey     PublicKey
}

func (op *WitnessCreate) Tag() OpTag         { return TagWitnessCreate }
func (op *WitnessCreate) OpFee() Asset       { return op.Fee }
func (op *WitnessCreate) SetOpFee(fee Asset) { op.Fee = fee }
func (op *WitnessCreate) FeePayer() ObjectID { return op.WitnessAccount }

func (op *WitnessCreate) Validate() error {
	return validateFee(op.Fee)
}

// AssetCreate registers a new asset. The non-core leg of the core exchange
// rate is rewritten to the allocated asset id on apply.
type AssetCreate struct {
	Fee                Asset
	Issuer             ObjectID
	Symbol             string
	Precision          uint8
	Options            AssetOptions
	IsPredictionMarket bool
	IsMarketIssued     bool
}

func (op *AssetCreate) Tag() OpTag         { return TagAssetCreate }
func (op *AssetCreate) OpFee() Asset       { return op.Fee }
func (op *AssetCreate) SetOpFee(fee Asset) { op.Fee = fee }
func (op *AssetCreate) FeePayer() ObjectID { return op.Issuer }

func (op *AssetCreate) Validate() error {
	if err := validateFee(op.Fee); err != nil {
		return err
	}
	if err := ValidateAssetSymbol(op.Symbol); err != nil {
		return chainerr.Malformedf("%v", err)
	}
	if op.Precision > MaxAssetPrecision {
		return chainerr.Malformedf("asset precision %d exceeds maximum %d", op.Precision, MaxAssetPrecision)
	}
	if op.Options.MaxSupply <= 0 || op.Options.MaxSupply > MaxShareSupply {
		return chainerr.Malformedf("asset max supply %d out of range", op.Options.MaxSupply)
	}
	if op.Options.MarketFeePercent > MaxMarketFeePercent {
		return chainerr.Malformedf("market fee percent %d exceeds maximum", op.Options.MarketFeePercent)
	}
	if op.Options.Flags&^op.Options.IssuerPermissions != 0 {
		return chainerr.Malformedf("asset flags %#x exceed permissions %#x", op.Options.Flags, op.Options.IssuerPermissions)
	}
	cer := op.Options.CoreExchangeRate
	if err := cer.Validate(); err != nil {
		return chainerr.Malformedf("core exchange rate: %v", err)
	}
	if cer.Base.AssetID != CoreAsset && cer.Quote.AssetID != CoreAsset {
		return chainerr.Malformedf("core exchange rate must have a core leg")
	}
	return nil
}

// AssetUpdate changes any of: issuer, options (flags, permissions, core
// exchange rate) of an existing asset.
type AssetUpdate struct {
	Fee           Asset
	Issuer        ObjectID
	AssetToUpdate ObjectID
	NewIssuer     *ObjectID
	NewOptions    AssetOptions
}

func (op *AssetUpdate) Tag() OpTag         { return TagAssetUpdate }
func (op *AssetUpdate) OpFee() Asset       { return op.Fee }
func (op *AssetUpdate) SetOpFee(fee Asset) { op.Fee = fee }
func (op *AssetUpdate) FeePayer() ObjectID { return op.Issuer }

func (op *AssetUpdate) Validate() error {
	if err := validateFee(op.Fee); err != nil {
		return err
	}
	if op.NewOptions.MaxSupply <= 0 || op.NewOptions.MaxSupply > MaxShareSupply {
		return chainerr.Malformedf("asset max supply %d out of range", op.NewOptions.MaxSupply)
	}
	// Flags are not bounded by the new permissions here: a flag set while its
	// permission was live stays set after the permission is dropped. Flag
	// changes are checked against the asset's current permissions instead.
	cer := op.NewOptions.CoreExchangeRate
	if err := cer.Validate(); err != nil {
		return chainerr.Malformedf("core exchange rate: %v", err)
	}
	if cer.Base.AssetID != CoreAsset && cer.Quote.AssetID != CoreAsset {
		return chainerr.Malformedf("core exchange rate must have a core leg")
	}
	return nil
}

// AssetIssue mints new supply of a user-issued asset to a recipient.
type AssetIssue struct {
	Fee            Asset
	Issuer         ObjectID
	AssetToIssue   Asset
	IssueToAccount ObjectID
}

func (op *AssetIssue) Tag() OpTag         { return TagAssetIssue }
func (op *AssetIssue) OpFee() Asset       { return op.Fee }
func (op *AssetIssue) SetOpFee(fee Asset) { op.Fee = fee }
func (op *AssetIssue) FeePayer() ObjectID { return op.Issuer }

func (op *AssetIssue) Validate() error {
	if err := validateFee(op.Fee); err != nil {
		return err
	}
	if op.AssetToIssue.Amount <= 0 {
		return chainerr.Malformedf("issue amount %s must be positive", op.AssetToIssue)
	}
	if op.AssetToIssue.AssetID == CoreAsset {
		return chainerr.Malformedf("core asset cannot be issued")
	}
	return nil
}

// AssetReserve burns circulating supply back into the reserve.
type AssetReserve struct {
	Fee             Asset
	Payer           ObjectID
	AmountToReserve Asset
}

func (op *AssetReserve) Tag() OpTag         { return TagAssetReserve }
func (op *AssetReserve) OpFee() Asset       { return op.Fee }
func (op *AssetReserve) SetOpFee(fee Asset) { op.Fee = fee }
func (op *AssetReserve) FeePayer() ObjectID { return op.Payer }

func (op *AssetReserve) Validate() error {
	if err := validateFee(op.Fee); err != nil {
		return err
	}
	if op.AmountToReserve.Amount <= 0 {
		return chainerr.Malformedf("reserve amount %s must be positive", op.AmountToReserve)
	}
	return nil
}

// AssetFundFeePool moves core from the payer into an asset's fee pool.
type AssetFundFeePool struct {
	Fee         Asset
	FromAccount ObjectID
	AssetToFund ObjectID
	AmountCore  ShareType
}

func (op *AssetFundFeePool) Tag() OpTag         { return TagAssetFundFeePool }
func (op *AssetFundFeePool) OpFee() Asset       { return op.Fee }
func (op *AssetFundFeePool) SetOpFee(fee Asset) { op.Fee = fee }
func (op *AssetFundFeePool) FeePayer() ObjectID { return op.FromAccount }

func (op *AssetFundFeePool) Validate() error {
	if err := validateFee(op.Fee); err != nil {
		return err
	}
	if op.Fee.AssetID != CoreAsset {
		return chainerr.Malformedf("fee pool funding fee must be core")
	}
	if op.AmountCore <= 0 {
		return chainerr.Malformedf("fee pool funding amount %d must be positive", op.AmountCore)
	}
	return nil
}

// VestingPolicyKind selects the release policy of a new vesting balance.
type VestingPolicyKind uint8

const (
	VestingPolicyCDD VestingPolicyKind = iota
	VestingPolicyLinear
)

// VestingBalanceCreate locks funds of the creator into a new vesting balance
// owned by owner.
type VestingBalanceCreate struct {
	Fee     Asset
	Creator ObjectID
	Owner   ObjectID
	Amount  Asset

	PolicyKind VestingPolicyKind
	// CDD policy.
	VestingSeconds uint64
	// Linear policy.
	StartClaim      int64
	CliffSeconds    uint64
	DurationSeconds uint64
}

func (op *VestingBalanceCreate) Tag() OpTag         { return TagVestingBalanceCreate }
func (op *VestingBalanceCreate) OpFee() Asset       { return op.Fee }
func (op *VestingBalanceCreate) SetOpFee(fee Asset) { op.Fee = fee }
func (op *VestingBalanceCreate) FeePayer() ObjectID { return op.Creator }

func (op *VestingBalanceCreate) Validate() error {
	if err := validateFee(op.Fee); err != nil {
		return err
	}
	if op.Amount.Amount <= 0 {
		return chainerr.Malformedf("vesting amount %s must be positive", op.Amount)
	}
	if op.PolicyKind == VestingPolicyLinear && op.DurationSeconds == 0 {
		return chainerr.Malformedf("linear vesting duration must be positive")
	}
	return nil
}

// VestingBalanceWithdraw releases vested funds to the owner.
type VestingBalanceWithdraw struct {
	Fee            Asset
	VestingBalance ObjectID
	Owner          ObjectID
	Amount         Asset
}

func (op *VestingBalanceWithdraw) Tag() OpTag         { return TagVestingBalanceWithdraw }
func (op *VestingBalanceWithdraw) OpFee() Asset       { return op.Fee }
func (op *VestingBalanceWithdraw) SetOpFee(fee Asset) { op.Fee = fee }
func (op *VestingBalanceWithdraw) FeePayer() ObjectID { return op.Owner }

func (op *VestingBalanceWithdraw) Validate() error {
	if err := validateFee(op.Fee); err != nil {
		return err
	}
	if op.Amount.Amount <= 0 {
		return chainerr.Malformedf("withdraw amount %s must be positive", op.Amount)
	}
	return nil
}

// ProxyTransferRequest is the party-signed payload of a proxy transfer. The
// signature bytes are opaque here; verification is an external collaborator.
type ProxyTransferRequest struct {
	From         ObjectID
	To           ObjectID
	ProxyAccount ObjectID
	Percentage   uint16
	Amount       Asset
	Memo         string
	Expiration   int64
	Signatures   [][]byte
}

// ProxyTransfer lets an authorized proxy move funds between two parties,
// keeping a basis-point cut of the amount.
type ProxyTransfer struct {
	Fee           Asset
	ProxyMemo     string
	RequestParams ProxyTransferRequest
}

func (op *ProxyTransfer) Tag() OpTag         { return TagProxyTransfer }
func (op *ProxyTransfer) OpFee() Asset       { return op.Fee }
func (op *ProxyTransfer) SetOpFee(fee Asset) { op.Fee = fee }
func (op *ProxyTransfer) FeePayer() ObjectID { return op.RequestParams.ProxyAccount }

func (op *ProxyTransfer) Validate() error {
	if err := validateFee(op.Fee); err != nil {
		return err
	}
	p := op.RequestParams
	if p.Amount.Amount <= 0 {
		return chainerr.Malformedf("proxy transfer amount %s must be positive", p.Amount)
	}
	if p.Percentage > FullPercent {
		return chainerr.Malformedf("proxy transfer percentage %d exceeds %d", p.Percentage, FullPercent)
	}
	if p.From == p.To {
		return chainerr.Malformedf("proxy transfer from %s to itself", p.From)
	}
	return nil
}

// CutFee returns amount*percentage/10000 with saturation at the share-type
// bounds.
func CutFee(amount ShareType, percentage uint16) ShareType {
	if amount <= 0 || percentage == 0 {
		return 0
	}
	if amount > MaxShareSupply {
		amount = MaxShareSupply
	}
	cut := uint64(amount) * uint64(percentage) / uint64(FullPercent)
	if cut > uint64(MaxShareSupply) {
		return MaxShareSupply
	}
	return ShareType(cut)
}
