package core

import (
	chainerr "halochain/core/errors"
	"halochain/core/state"
	"halochain/core/types"
)

func (p *Processor) evaluateCommitteeMemberCreate(ctx *applyContext, op *types.CommitteeMemberCreate) error {
	account, err := p.store.GetAccount(op.CommitteeMemberAccount)
	if err != nil {
		return err
	}
	if !account.LifetimeMember {
		return chainerr.Unauthorizedf("account %s is not a lifetime member", op.CommitteeMemberAccount)
	}
	var taken bool
	if err := p.store.ForEach(types.SpaceProtocol, types.ObjectTypeCommitteeMember, func(obj state.Object) error {
		if obj.(*state.CommitteeMemberObject).Account == op.CommitteeMemberAccount {
			taken = true
		}
		return nil
	}); err != nil {
		return err
	}
	if taken {
		return chainerr.Malformedf("account %s already holds a committee seat", op.CommitteeMemberAccount)
	}
	if _, err := p.evaluateFee(op); err != nil {
		return err
	}
	if bal := p.store.Balance(op.CommitteeMemberAccount, op.Fee.AssetID); bal.Amount < op.Fee.Amount {
		return chainerr.InsufficientBalancef("account %s cannot cover fee %s", op.CommitteeMemberAccount, op.Fee)
	}
	return nil
}

func (p *Processor) applyCommitteeMemberCreate(ctx *applyContext, op *types.CommitteeMemberCreate) (OperationResult, error) {
	if err := p.chargeFee(op); err != nil {
		return OperationResult{}, err
	}
	var voteID types.VoteID
	if err := p.store.Modify(state.GlobalPropertyID, func(obj state.Object) error {
		voteID = obj.(*state.GlobalPropertyObject).AllocateVoteID(types.VoteCommittee)
		return nil
	}); err != nil {
		return OperationResult{}, err
	}
	member, err := p.store.Create(types.SpaceProtocol, types.ObjectTypeCommitteeMember, func(id types.ObjectID) state.Object {
		return &state.CommitteeMemberObject{
			ID:      id,
			Account: op.CommitteeMemberAccount,
			VoteID:  voteID,
			URL:     op.URL,
		}
	})
	if err != nil {
		return OperationResult{}, err
	}
	return OperationResult{NewObject: member.ObjectID()}, nil
}

func (p *Processor) evaluateWitnessCreate(ctx *applyContext, op *types.WitnessCreate) error {
	account, err := p.store.GetAccount(op.WitnessAccount)
	if err != nil {
		return err
	}
	if !account.LifetimeMember {
		return chainerr.Unauthorizedf("account %s is not a lifetime member", op.WitnessAccount)
	}
	var taken bool
	if err := p.store.ForEach(types.SpaceProtocol, types.ObjectTypeWitness, func(obj state.Object) error {
		if obj.(*state.WitnessObject).Account == op.WitnessAccount {
			taken = true
		}
		return nil
	}); err != nil {
		return err
	}
	if taken {
		return chainerr.Malformedf("account %s already holds a witness seat", op.WitnessAccount)
	}
	if _, err := p.evaluateFee(op); err != nil {
		return err
	}
	if bal := p.store.Balance(op.WitnessAccount, op.Fee.AssetID); bal.Amount < op.Fee.Amount {
		return chainerr.InsufficientBalancef("account %s cannot cover fee %s", op.WitnessAccount, op.Fee)
	}
	return nil
}

func (p *Processor) applyWitnessCreate(ctx *applyContext, op *types.WitnessCreate) (OperationResult, error) {
	if err := p.chargeFee(op); err != nil {
		return OperationResult{}, err
	}
	var voteID types.VoteID
	if err := p.store.Modify(state.GlobalPropertyID, func(obj state.Object) error {
		voteID = obj.(*state.GlobalPropertyObject).AllocateVoteID(types.VoteWitness)
		return nil
	}); err != nil {
		return OperationResult{}, err
	}
	witness, err := p.store.Create(types.SpaceProtocol, types.ObjectTypeWitness, func(id types.ObjectID) state.Object {
		return &state.WitnessObject{
			ID:         id,
			Account:    op.WitnessAccount,
			VoteID:     voteID,
			URL:        op.URL,
			SigningKey: append(types.PublicKey(nil), op.SigningKey...),
		}
	})
	if err != nil {
		return OperationResult{}, err
	}
	return OperationResult{NewObject: witness.ObjectID()}, nil
}
