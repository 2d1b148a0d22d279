package core

import (
	chainerr "halochain/core/errors"
	"halochain/core/state"
	"halochain/core/types"
)

// VerifyAssetSupplies checks the supply identity of every asset: account
// balances plus vesting balances plus accumulated fees must equal the
// recorded current supply. The core asset additionally carries the witness
// budget and every asset's core-denominated fee pool. A mismatch is a bug in
// the evaluator, never a user error.
func VerifyAssetSupplies(s *state.Store) error {
	totals := s.TotalBalances()
	if err := s.ForEach(types.SpaceProtocol, types.ObjectTypeVestingBalance, func(obj state.Object) error {
		vb := obj.(*state.VestingBalanceObject)
		totals[vb.Balance.AssetID] += vb.Balance.Amount
		return nil
	}); err != nil {
		return err
	}
	var corePools types.ShareType
	type supplyLine struct {
		asset   *state.AssetObject
		dynamic *state.AssetDynamicDataObject
	}
	var lines []supplyLine
	if err := s.ForEach(types.SpaceProtocol, types.ObjectTypeAsset, func(obj state.Object) error {
		asset := obj.(*state.AssetObject)
		dynamic, err := s.GetAssetDynamicData(asset.DynamicData)
		if err != nil {
			return err
		}
		corePools += dynamic.FeePool
		lines = append(lines, supplyLine{asset: asset, dynamic: dynamic})
		return nil
	}); err != nil {
		return err
	}
	dgp, err := s.DynamicGlobalProperties()
	if err != nil {
		return err
	}
	for _, line := range lines {
		total := totals[line.asset.ID] + line.dynamic.AccumulatedFees
		if line.asset.ID == types.CoreAsset {
			total += dgp.WitnessBudget + corePools
		}
		if total != line.dynamic.CurrentSupply {
			return chainerr.InvariantViolationf("asset %s accounts for %d, current supply is %d",
				line.asset.Symbol, total, line.dynamic.CurrentSupply)
		}
	}
	return nil
}
