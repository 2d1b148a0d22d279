package core

import (
	"sort"

	"halochain/core/state"
	"halochain/core/types"
	"halochain/native/vesting"
	"halochain/observability"
)

// budgetWindowBlocks is the number of blocks one reference budget is sized
// to cover.
const budgetWindowBlocks = 30

// referenceBudget is the per-maintenance witness budget implied by the
// lifetime membership fee: the fee is cycled through the pay window at the
// core asset cycle rate, rounding up.
func referenceBudget(upgradeFee types.ShareType, blockInterval uint8) types.ShareType {
	if upgradeFee <= 0 {
		return 0
	}
	raw := uint64(upgradeFee) * types.CoreAssetCycleRate * budgetWindowBlocks * uint64(blockInterval)
	budget := (raw + (1 << types.CoreAssetCycleRateBits) - 1) >> types.CoreAssetCycleRateBits
	if budget > uint64(types.MaxShareSupply) {
		return types.MaxShareSupply
	}
	return types.ShareType(budget)
}

// payWitness pays the signing witness of the current block out of the
// standing witness budget. Pay accrues on the witness's vesting balance,
// created on first payment. The budget recharged by a maintenance pass only
// reaches witnesses from the following block.
func (p *Processor) payWitness(witnessID types.ObjectID, t int64) error {
	gpo, err := p.store.GlobalProperties()
	if err != nil {
		return err
	}
	dgp, err := p.store.DynamicGlobalProperties()
	if err != nil {
		return err
	}
	pay := gpo.Parameters.WitnessPayPerBlock
	if pay > dgp.WitnessBudget {
		pay = dgp.WitnessBudget
	}
	if pay <= 0 {
		return nil
	}
	witness, err := p.store.GetWitness(witnessID)
	if err != nil {
		return err
	}
	if err := p.store.Modify(state.DynamicGlobalPropertyID, func(obj state.Object) error {
		obj.(*state.DynamicGlobalPropertyObject).WitnessBudget -= pay
		return nil
	}); err != nil {
		return err
	}
	payVB := witness.PayVB
	if payVB == nil {
		created, err := p.store.Create(types.SpaceProtocol, types.ObjectTypeVestingBalance, func(id types.ObjectID) state.Object {
			return &state.VestingBalanceObject{
				ID:      id,
				Owner:   witness.Account,
				Balance: types.Asset{AssetID: types.CoreAsset},
				Policy:  vesting.NewCDDPolicy(gpo.Parameters.WitnessPayVestingSeconds, t),
			}
		})
		if err != nil {
			return err
		}
		id := created.ObjectID()
		payVB = &id
		if err := p.store.Modify(witnessID, func(obj state.Object) error {
			obj.(*state.WitnessObject).PayVB = payVB
			return nil
		}); err != nil {
			return err
		}
	}
	if err := p.store.Modify(*payVB, func(obj state.Object) error {
		vb := obj.(*state.VestingBalanceObject)
		vb.Policy.OnDeposit(vb.Balance.Amount, pay, t)
		vb.Balance.Amount += pay
		return nil
	}); err != nil {
		return err
	}
	observability.EvaluatorMetrics().WitnessPaid(int64(pay))
	return nil
}

// performMaintenance runs the periodic chain upkeep: re-tally the witness
// and committee elections, burn accumulated core fees into the reserve,
// and recharge the witness budget from it.
func (p *Processor) performMaintenance(now int64) error {
	if err := p.updateActiveSets(); err != nil {
		return err
	}
	coreAsset, err := p.store.GetAsset(types.CoreAsset)
	if err != nil {
		return err
	}
	gpo, err := p.store.GlobalProperties()
	if err != nil {
		return err
	}
	upgradeFee := types.ShareType(0)
	if gpo.Parameters.CurrentFees != nil {
		upgradeFee = gpo.Parameters.CurrentFees.Get(types.TagAccountUpgrade).MembershipLifetimeFee
	}
	refBudget := referenceBudget(upgradeFee, gpo.Parameters.BlockInterval)
	var budget types.ShareType
	if err := p.store.Modify(coreAsset.DynamicData, func(obj state.Object) error {
		dynamic := obj.(*state.AssetDynamicDataObject)
		// Accumulated core fees burn into the reserve.
		dynamic.CurrentSupply -= dynamic.AccumulatedFees
		dynamic.AccumulatedFees = 0
		// The unspent budget returns before the recharge is sized.
		dgp, err := p.store.DynamicGlobalProperties()
		if err != nil {
			return err
		}
		dynamic.CurrentSupply -= dgp.WitnessBudget
		reserve := coreAsset.Options.MaxSupply - dynamic.CurrentSupply
		budget = refBudget
		if budget > reserve {
			budget = reserve
		}
		dynamic.CurrentSupply += budget
		return nil
	}); err != nil {
		return err
	}
	if err := p.store.Modify(state.DynamicGlobalPropertyID, func(obj state.Object) error {
		dgp := obj.(*state.DynamicGlobalPropertyObject)
		dgp.WitnessBudget = budget
		dgp.LastBudgetTime = now
		next := dgp.NextMaintenanceTime
		interval := int64(gpo.Parameters.MaintenanceInterval)
		if interval <= 0 {
			interval = 1
		}
		for next <= now {
			next += interval
		}
		dgp.NextMaintenanceTime = next
		return nil
	}); err != nil {
		return err
	}
	observability.EvaluatorMetrics().MaintenancePerformed()
	p.log.Info("maintenance performed", "witness_budget", int64(budget), "reference_budget", int64(refBudget))
	return nil
}

// voteTally accumulates core stake behind each allocated vote id.
type voteTally struct {
	committee map[uint32]types.ShareType
	witness   map[uint32]types.ShareType
}

func (t *voteTally) add(v types.VoteID, stake types.ShareType) {
	switch v.Kind {
	case types.VoteCommittee:
		t.committee[v.Instance] += stake
	case types.VoteWitness:
		t.witness[v.Instance] += stake
	}
}

// tallyVotes walks every account, resolves one hop of vote delegation, and
// weighs the delegate's vote slate by the voter's core stake. Stake counts
// liquid core plus core held in vesting balances.
func (p *Processor) tallyVotes() (*voteTally, error) {
	vestingStake := make(map[types.ObjectID]types.ShareType)
	if err := p.store.ForEach(types.SpaceProtocol, types.ObjectTypeVestingBalance, func(obj state.Object) error {
		vb := obj.(*state.VestingBalanceObject)
		if vb.Balance.AssetID == types.CoreAsset {
			vestingStake[vb.Owner] += vb.Balance.Amount
		}
		return nil
	}); err != nil {
		return nil, err
	}
	tally := &voteTally{
		committee: make(map[uint32]types.ShareType),
		witness:   make(map[uint32]types.ShareType),
	}
	if err := p.store.ForEach(types.SpaceProtocol, types.ObjectTypeAccount, func(obj state.Object) error {
		account := obj.(*state.AccountObject)
		stake := p.store.Balance(account.ID, types.CoreAsset).Amount + vestingStake[account.ID]
		if stake <= 0 {
			return nil
		}
		slate := account
		if account.Options.VotingAccount != types.ProxyToSelfAccount && account.Options.VotingAccount != account.ID {
			delegate, err := p.store.GetAccount(account.Options.VotingAccount)
			if err != nil {
				return err
			}
			slate = delegate
		}
		for _, v := range slate.Options.Votes {
			tally.add(v, stake)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return tally, nil
}

// updateActiveSets reseats the active witnesses and committee members from
// the current tally. Seat counts carry over from the previous sets; ties
// break toward the lower object id.
func (p *Processor) updateActiveSets() error {
	tally, err := p.tallyVotes()
	if err != nil {
		return err
	}
	type candidate struct {
		id    types.ObjectID
		votes types.ShareType
	}
	rank := func(cands []candidate, seats int) []types.ObjectID {
		sort.Slice(cands, func(i, j int) bool {
			if cands[i].votes != cands[j].votes {
				return cands[i].votes > cands[j].votes
			}
			return cands[i].id.Less(cands[j].id)
		})
		if seats <= 0 || seats > len(cands) {
			seats = len(cands)
		}
		active := make([]types.ObjectID, 0, seats)
		for _, c := range cands[:seats] {
			active = append(active, c.id)
		}
		sort.Slice(active, func(i, j int) bool { return active[i].Less(active[j]) })
		return active
	}

	var witnesses, committee []candidate
	if err := p.store.ForEach(types.SpaceProtocol, types.ObjectTypeWitness, func(obj state.Object) error {
		w := obj.(*state.WitnessObject)
		witnesses = append(witnesses, candidate{id: w.ID, votes: tally.witness[w.VoteID.Instance]})
		return nil
	}); err != nil {
		return err
	}
	if err := p.store.ForEach(types.SpaceProtocol, types.ObjectTypeCommitteeMember, func(obj state.Object) error {
		m := obj.(*state.CommitteeMemberObject)
		committee = append(committee, candidate{id: m.ID, votes: tally.committee[m.VoteID.Instance]})
		return nil
	}); err != nil {
		return err
	}
	return p.store.Modify(state.GlobalPropertyID, func(obj state.Object) error {
		gpo := obj.(*state.GlobalPropertyObject)
		witnessSeats := len(gpo.ActiveWitnesses)
		if max := int(gpo.Parameters.MaximumWitnesses); max > 0 && witnessSeats > max {
			witnessSeats = max
		}
		committeeSeats := len(gpo.ActiveCommitteeMembers)
		if max := int(gpo.Parameters.MaximumCommittee); max > 0 && committeeSeats > max {
			committeeSeats = max
		}
		gpo.ActiveWitnesses = rank(witnesses, witnessSeats)
		gpo.ActiveCommitteeMembers = rank(committee, committeeSeats)
		return nil
	})
}
