package core

import (
	chainerr "halochain/core/errors"
	"halochain/core/state"
	"halochain/core/types"
)

// checkAuthorityAccounts verifies every account referenced by an authority
// exists.
func (p *Processor) checkAuthorityAccounts(auth *types.Authority) error {
	for _, aa := range auth.AccountAuths {
		if _, err := p.store.GetAccount(aa.Account); err != nil {
			return err
		}
	}
	return nil
}

// checkAccountOptions verifies the voting account and every vote id of an
// option block against current state.
func (p *Processor) checkAccountOptions(opts *types.AccountOptions) error {
	if !opts.VotingAccount.IsNil() {
		if _, err := p.store.GetAccount(opts.VotingAccount); err != nil {
			return err
		}
	}
	gpo, err := p.store.GlobalProperties()
	if err != nil {
		return err
	}
	for _, v := range opts.Votes {
		if v.Kind != types.VoteCommittee && v.Kind != types.VoteWitness {
			return chainerr.Malformedf("vote %s references unknown kind", v)
		}
		if v.Instance >= gpo.NextAvailableVoteID[v.Kind] {
			return chainerr.Malformedf("vote %s is not yet allocated", v)
		}
	}
	return nil
}

func (p *Processor) evaluateAccountCreate(ctx *applyContext, op *types.AccountCreate) error {
	if _, err := p.store.GetAccount(op.Registrar); err != nil {
		return err
	}
	if _, err := p.store.AccountByName(op.Name); err == nil {
		return chainerr.Malformedf("account name %q is taken", op.Name)
	}
	if err := p.checkAuthorityAccounts(&op.Owner); err != nil {
		return err
	}
	if err := p.checkAuthorityAccounts(&op.Active); err != nil {
		return err
	}
	if err := p.checkAccountOptions(&op.Options); err != nil {
		return err
	}
	if _, err := p.evaluateFee(op); err != nil {
		return err
	}
	if bal := p.store.Balance(op.Registrar, op.Fee.AssetID); bal.Amount < op.Fee.Amount {
		return chainerr.InsufficientBalancef("registrar %s cannot cover fee %s", op.Registrar, op.Fee)
	}
	return nil
}

func (p *Processor) applyAccountCreate(ctx *applyContext, op *types.AccountCreate) (OperationResult, error) {
	if err := p.chargeFee(op); err != nil {
		return OperationResult{}, err
	}
	accountID := p.store.NextID(types.SpaceProtocol, types.ObjectTypeAccount)
	stats, err := p.store.Create(types.SpaceImplementation, types.ObjectTypeAccountStatistics, func(id types.ObjectID) state.Object {
		return &state.AccountStatisticsObject{ID: id, Owner: accountID}
	})
	if err != nil {
		return OperationResult{}, err
	}
	opts := op.Options.Clone()
	if opts.VotingAccount.IsNil() {
		opts.VotingAccount = types.ProxyToSelfAccount
	}
	account, err := p.store.Create(types.SpaceProtocol, types.ObjectTypeAccount, func(id types.ObjectID) state.Object {
		return &state.AccountObject{
			ID:         id,
			Name:       op.Name,
			Owner:      op.Owner.Clone(),
			Active:     op.Active.Clone(),
			Options:    opts,
			Statistics: stats.ObjectID(),
		}
	})
	if err != nil {
		return OperationResult{}, err
	}
	return OperationResult{NewObject: account.ObjectID()}, nil
}

func (p *Processor) evaluateAccountUpdate(ctx *applyContext, op *types.AccountUpdate) error {
	if _, err := p.store.GetAccount(op.Account); err != nil {
		return err
	}
	if op.Owner != nil {
		if err := p.checkAuthorityAccounts(op.Owner); err != nil {
			return err
		}
	}
	if op.Active != nil {
		if err := p.checkAuthorityAccounts(op.Active); err != nil {
			return err
		}
	}
	if op.NewOptions != nil {
		if err := p.checkAccountOptions(op.NewOptions); err != nil {
			return err
		}
	}
	if _, err := p.evaluateFee(op); err != nil {
		return err
	}
	if bal := p.store.Balance(op.Account, op.Fee.AssetID); bal.Amount < op.Fee.Amount {
		return chainerr.InsufficientBalancef("account %s cannot cover fee %s", op.Account, op.Fee)
	}
	return nil
}

func (p *Processor) applyAccountUpdate(ctx *applyContext, op *types.AccountUpdate) error {
	if err := p.chargeFee(op); err != nil {
		return err
	}
	return p.store.Modify(op.Account, func(obj state.Object) error {
		account := obj.(*state.AccountObject)
		if op.Owner != nil {
			account.Owner = op.Owner.Clone()
		}
		if op.Active != nil {
			account.Active = op.Active.Clone()
		}
		if op.NewOptions != nil {
			opts := op.NewOptions.Clone()
			if opts.VotingAccount.IsNil() {
				opts.VotingAccount = types.ProxyToSelfAccount
			}
			account.Options = opts
		}
		return nil
	})
}

func (p *Processor) evaluateAccountUpgrade(ctx *applyContext, op *types.AccountUpgrade) error {
	account, err := p.store.GetAccount(op.AccountToUpgrade)
	if err != nil {
		return err
	}
	if account.LifetimeMember {
		return chainerr.Malformedf("account %s is already a lifetime member", op.AccountToUpgrade)
	}
	if op.Fee.AssetID != types.CoreAsset {
		return chainerr.Malformedf("membership fee must be paid in core")
	}
	if _, err := p.evaluateFee(op); err != nil {
		return err
	}
	if bal := p.store.Balance(op.AccountToUpgrade, types.CoreAsset); bal.Amount < op.Fee.Amount {
		return chainerr.InsufficientBalancef("account %s holds %s, membership fee is %s",
			op.AccountToUpgrade, bal, op.Fee)
	}
	return nil
}

// applyAccountUpgrade routes the membership fee itself: the referral share
// falls to the untaken committee referrer and burns into the reserve on the
// spot, the remainder is network income on the core asset.
func (p *Processor) applyAccountUpgrade(ctx *applyContext, op *types.AccountUpgrade) error {
	if err := p.store.Adjust(op.AccountToUpgrade, types.Asset{Amount: -op.Fee.Amount, AssetID: types.CoreAsset}); err != nil {
		return err
	}
	referral := types.CutFee(op.Fee.Amount, types.LifetimeReferralCutPercent)
	network := op.Fee.Amount - referral
	coreAsset, err := p.store.GetAsset(types.CoreAsset)
	if err != nil {
		return err
	}
	if err := p.store.Modify(coreAsset.DynamicData, func(obj state.Object) error {
		dynamic := obj.(*state.AssetDynamicDataObject)
		dynamic.CurrentSupply -= referral
		dynamic.AccumulatedFees += network
		return nil
	}); err != nil {
		return err
	}
	if err := p.recordFeePaid(op.AccountToUpgrade, op.Fee.Amount); err != nil {
		return err
	}
	return p.store.Modify(op.AccountToUpgrade, func(obj state.Object) error {
		obj.(*state.AccountObject).LifetimeMember = true
		return nil
	})
}
