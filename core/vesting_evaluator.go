package core

import (
	chainerr "halochain/core/errors"
	"halochain/core/state"
	"halochain/core/types"
	"halochain/native/vesting"
)

func (p *Processor) evaluateVestingBalanceCreate(ctx *applyContext, op *types.VestingBalanceCreate) error {
	if _, err := p.store.GetAccount(op.Creator); err != nil {
		return err
	}
	if _, err := p.store.GetAccount(op.Owner); err != nil {
		return err
	}
	if _, err := p.store.GetAsset(op.Amount.AssetID); err != nil {
		return err
	}
	if _, err := p.evaluateFee(op); err != nil {
		return err
	}
	needed := op.Amount.Amount
	if op.Fee.AssetID == op.Amount.AssetID {
		needed += op.Fee.Amount
	} else if p.store.Balance(op.Creator, op.Fee.AssetID).Amount < op.Fee.Amount {
		return chainerr.InsufficientBalancef("creator %s cannot cover fee %s", op.Creator, op.Fee)
	}
	if bal := p.store.Balance(op.Creator, op.Amount.AssetID); bal.Amount < needed {
		return chainerr.InsufficientBalancef("creator %s holds %s, vesting lock needs %d",
			op.Creator, bal, needed)
	}
	return nil
}

func (p *Processor) applyVestingBalanceCreate(ctx *applyContext, op *types.VestingBalanceCreate) (OperationResult, error) {
	if err := p.chargeFee(op); err != nil {
		return OperationResult{}, err
	}
	if err := p.store.Adjust(op.Creator, types.Asset{Amount: -op.Amount.Amount, AssetID: op.Amount.AssetID}); err != nil {
		return OperationResult{}, err
	}
	var policy vesting.Policy
	switch op.PolicyKind {
	case types.VestingPolicyLinear:
		start := op.StartClaim
		if start == 0 {
			start = ctx.headTime
		}
		policy = vesting.NewLinearPolicy(op.Amount.Amount, start, op.CliffSeconds, op.DurationSeconds)
	default:
		policy = vesting.NewCDDPolicy(op.VestingSeconds, ctx.headTime)
	}
	created, err := p.store.Create(types.SpaceProtocol, types.ObjectTypeVestingBalance, func(id types.ObjectID) state.Object {
		return &state.VestingBalanceObject{
			ID:      id,
			Owner:   op.Owner,
			Balance: op.Amount,
			Policy:  policy,
		}
	})
	if err != nil {
		return OperationResult{}, err
	}
	return OperationResult{NewObject: created.ObjectID()}, nil
}

func (p *Processor) evaluateVestingBalanceWithdraw(ctx *applyContext, op *types.VestingBalanceWithdraw) error {
	vb, err := p.store.GetVestingBalance(op.VestingBalance)
	if err != nil {
		return err
	}
	if vb.Owner != op.Owner {
		return chainerr.Unauthorizedf("account %s does not own vesting balance %s", op.Owner, op.VestingBalance)
	}
	if op.Amount.AssetID != vb.Balance.AssetID {
		return chainerr.Malformedf("vesting balance %s holds %s, not %s",
			op.VestingBalance, vb.Balance.AssetID, op.Amount.AssetID)
	}
	withdrawable := vb.Policy.WithdrawableAt(vb.Balance.Amount, ctx.headTime)
	if op.Amount.Amount > withdrawable {
		return chainerr.VestingNotMaturef("vesting balance %s releases %d at head time, withdrawal wants %d",
			op.VestingBalance, withdrawable, op.Amount.Amount)
	}
	if _, err := p.evaluateFee(op); err != nil {
		return err
	}
	if bal := p.store.Balance(op.Owner, op.Fee.AssetID); bal.Amount < op.Fee.Amount {
		return chainerr.InsufficientBalancef("owner %s cannot cover fee %s", op.Owner, op.Fee)
	}
	return nil
}

// applyVestingBalanceWithdraw releases vested funds to the owner. The object
// stays at zero balance rather than being destroyed.
func (p *Processor) applyVestingBalanceWithdraw(ctx *applyContext, op *types.VestingBalanceWithdraw) error {
	if err := p.chargeFee(op); err != nil {
		return err
	}
	if err := p.store.Modify(op.VestingBalance, func(obj state.Object) error {
		vb := obj.(*state.VestingBalanceObject)
		vb.Policy.OnWithdraw(vb.Balance.Amount, op.Amount.Amount, ctx.headTime)
		vb.Balance.Amount -= op.Amount.Amount
		return nil
	}); err != nil {
		return err
	}
	return p.store.Adjust(op.Owner, op.Amount)
}
