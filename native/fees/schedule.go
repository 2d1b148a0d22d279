// Package fees holds the per-operation fee parameters and the calculator
// that converts fees into a non-core billing asset through its core exchange
// rate.
package fees

import (
	"encoding/json"

	chainerr "halochain/core/errors"
	"halochain/core/types"
)

// Parameters is the fee parameter record of one operation variant. Amounts
// are core-denominated.
type Parameters struct {
	Fee types.ShareType
	// MembershipLifetimeFee applies to account upgrades only.
	MembershipLifetimeFee types.ShareType
}

// Schedule maps every operation tag to its fee parameters.
type Schedule struct {
	params [int(types.TagProxyTransfer) + 1]Parameters
}

// Blockchain precision of the core asset: 10^5 satoshis per whole coin.
const CorePrecision types.ShareType = 100000

// DefaultSchedule returns the schedule used at genesis.
func DefaultSchedule() *Schedule {
	s := &Schedule{}
	for tag := range s.params {
		s.params[tag] = Parameters{Fee: 20 * CorePrecision}
	}
	s.params[types.TagTransfer] = Parameters{Fee: 20 * CorePrecision}
	s.params[types.TagAccountCreate] = Parameters{Fee: 5 * CorePrecision}
	s.params[types.TagAccountUpgrade] = Parameters{
		Fee:                   20 * CorePrecision,
		MembershipLifetimeFee: 10000 * CorePrecision,
	}
	s.params[types.TagAssetCreate] = Parameters{Fee: 500 * CorePrecision}
	s.params[types.TagAssetFundFeePool] = Parameters{Fee: 1 * CorePrecision}
	s.params[types.TagVestingBalanceCreate] = Parameters{Fee: 1 * CorePrecision}
	s.params[types.TagVestingBalanceWithdraw] = Parameters{Fee: 1 * CorePrecision}
	return s
}

// ZeroSchedule returns a schedule with every fee set to zero; used before
// fees are enabled and in tests.
func ZeroSchedule() *Schedule {
	return &Schedule{}
}

// Get returns the parameter record for a tag.
func (s *Schedule) Get(tag types.OpTag) Parameters {
	if int(tag) >= len(s.params) {
		return Parameters{}
	}
	return s.params[tag]
}

// Set replaces the parameter record for a tag; used by the privileged
// parameter update path.
func (s *Schedule) Set(tag types.OpTag, p Parameters) {
	if int(tag) < len(s.params) {
		s.params[tag] = p
	}
}

// Clone returns an independent copy of the schedule.
func (s *Schedule) Clone() *Schedule {
	clone := *s
	return &clone
}

// coreFeeFor computes the core-denominated fee of an operation.
func (s *Schedule) coreFeeFor(op types.Operation) types.ShareType {
	p := s.Get(op.Tag())
	fee := p.Fee
	if upgrade, ok := op.(*types.AccountUpgrade); ok && upgrade.LifetimeMember {
		fee = p.MembershipLifetimeFee
	}
	return fee
}

// CalculateFee returns the fee owed for op. With a nil rate the fee is
// core-denominated; otherwise it is converted into the rate's non-core asset,
// rounded up so the network never undercharges.
func (s *Schedule) CalculateFee(op types.Operation, rate *types.Price) (types.Asset, error) {
	coreFee := types.CoreAmount(s.coreFeeFor(op))
	if rate == nil {
		return coreFee, nil
	}
	converted, err := rate.Convert(coreFee, types.RoundUp)
	if err != nil {
		return types.Asset{}, chainerr.Malformedf("fee conversion: %v", err)
	}
	if converted.AssetID == types.CoreAsset {
		return types.Asset{}, chainerr.Malformedf("fee conversion rate has no non-core leg")
	}
	return converted, nil
}

// MarshalJSON encodes the parameter table; used by state snapshots.
func (s *Schedule) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.params[:])
}

// UnmarshalJSON restores the parameter table from a state snapshot.
func (s *Schedule) UnmarshalJSON(data []byte) error {
	var params []Parameters
	if err := json.Unmarshal(data, &params); err != nil {
		return err
	}
	for i := range s.params {
		if i < len(params) {
			s.params[i] = params[i]
		} else {
			s.params[i] = Parameters{}
		}
	}
	return nil
}

// SetFee stamps the calculated fee onto the operation and returns it.
func (s *Schedule) SetFee(op types.Operation, rate *types.Price) (types.Asset, error) {
	fee, err := s.CalculateFee(op, rate)
	if err != nil {
		return types.Asset{}, err
	}
	op.SetOpFee(fee)
	return fee, nil
}
