package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"halochain/core/genesis"
	"halochain/core/state"
	"halochain/core/types"
	"halochain/native/fees"
)

func TestReferenceBudget(t *testing.T) {
	// 10^9 core satoshis cycled over 30 five-second blocks at rate 17/2^32,
	// rounded up.
	require.Equal(t, types.ShareType(594), referenceBudget(10_000*fees.CorePrecision, 5))
	// 2^32 cancels the shift exactly: 17 x 30 x 1 = 510.
	require.Equal(t, types.ShareType(510), referenceBudget(1<<32, 1))
	require.Zero(t, referenceBudget(0, 5))
	require.Zero(t, referenceBudget(-1, 5))
}

// vote returns an account update that replaces the voter's slate.
func vote(account, votingAccount types.ObjectID, votes ...types.VoteID) *types.AccountUpdate {
	return &types.AccountUpdate{
		Account: account,
		NewOptions: &types.AccountOptions{
			VotingAccount: votingAccount,
			Votes:         votes,
		},
	}
}

func activeWitnesses(t *testing.T, chain *Blockchain) []types.ObjectID {
	t.Helper()
	gpo, err := chain.Store().GlobalProperties()
	require.NoError(t, err)
	return append([]types.ObjectID(nil), gpo.ActiveWitnesses...)
}

func witnessBudget(t *testing.T, chain *Blockchain) types.ShareType {
	t.Helper()
	dgp, err := chain.Store().DynamicGlobalProperties()
	require.NoError(t, err)
	return dgp.WitnessBudget
}

func TestWitnessBudgetLifecycle(t *testing.T) {
	const interval = 3600
	chain := newTestChain(t, func(cfg *genesis.Config) {
		cfg.WitnessPayPerBlock = 259
		cfg.MaintenanceInterval = interval
	})
	// The membership fee is the only fee on the chain; it sizes the reference
	// budget at 594 per maintenance.
	require.NoError(t, chain.Store().Modify(state.GlobalPropertyID, func(obj state.Object) error {
		gpo := obj.(*state.GlobalPropertyObject)
		gpo.Parameters.CurrentFees.Set(types.TagAccountUpgrade, fees.Parameters{
			MembershipLifetimeFee: 10_000 * fees.CorePrecision,
		})
		return nil
	}))

	alice := createTestAccount(t, chain, "alice")
	upgrade(t, chain, alice)

	// The referral share burned at upgrade opens a reserve; the network share
	// waits in accumulated fees until maintenance.
	dynamic := coreDynamic(t, chain)
	require.Equal(t, types.MaxShareSupply-8_000*fees.CorePrecision, dynamic.CurrentSupply)
	require.Equal(t, 2_000*fees.CorePrecision, dynamic.AccumulatedFees)
	requireSuppliesBalance(t, chain)

	signer := activeWitnesses(t, chain)[0]
	witness, err := chain.Store().GetWitness(signer)
	require.NoError(t, err)
	require.Nil(t, witness.PayVB)

	// The maintenance block itself still pays out of the exhausted budget.
	maintTime := genesisTime + interval
	_, err = chain.GenerateBlock(signer, maintTime, nil)
	require.NoError(t, err)
	require.Equal(t, types.ShareType(594), witnessBudget(t, chain))
	dynamic = coreDynamic(t, chain)
	require.Zero(t, dynamic.AccumulatedFees, "accumulated fees burn at maintenance")
	require.Equal(t, types.MaxShareSupply-10_000*fees.CorePrecision+594, dynamic.CurrentSupply)
	dgp, err := chain.Store().DynamicGlobalProperties()
	require.NoError(t, err)
	require.Equal(t, maintTime+interval, dgp.NextMaintenanceTime)
	witness, err = chain.Store().GetWitness(signer)
	require.NoError(t, err)
	require.Nil(t, witness.PayVB, "no pay accrues while the budget is empty")

	// The recharged budget drains 259 per block until exhausted.
	payouts := []types.ShareType{259, 259, 76, 0}
	budgets := []types.ShareType{335, 76, 0, 0}
	accrued := types.ShareType(0)
	for i, pay := range payouts {
		_, err := chain.GenerateBlock(signer, maintTime+int64(5*(i+1)), nil)
		require.NoError(t, err)
		require.Equal(t, budgets[i], witnessBudget(t, chain))
		accrued += pay
		witness, err = chain.Store().GetWitness(signer)
		require.NoError(t, err)
		if accrued > 0 {
			require.NotNil(t, witness.PayVB)
			vb, err := chain.Store().GetVestingBalance(*witness.PayVB)
			require.NoError(t, err)
			require.Equal(t, witness.Account, vb.Owner)
			require.Equal(t, accrued, vb.Balance.Amount)
		}
	}
	requireSuppliesBalance(t, chain)
}

func TestMaintenanceReseatsByStake(t *testing.T) {
	const interval = 3600
	chain := newTestChain(t, func(cfg *genesis.Config) {
		cfg.InitialSeats = 2
		cfg.MaximumWitnesses = 2
		cfg.MaximumCommittee = 2
		cfg.MaintenanceInterval = interval
	})
	initialSeats := activeWitnesses(t, chain)
	require.Len(t, initialSeats, 2)

	alice := createTestAccount(t, chain, "alice")
	bob := createTestAccount(t, chain, "bob")
	carol := createTestAccount(t, chain, "carol")
	dave := createTestAccount(t, chain, "dave")
	upgrade(t, chain, alice)
	upgrade(t, chain, bob)

	seatA := applyOps(t, chain, genesisTime, stampFee(t, chain, &types.WitnessCreate{WitnessAccount: alice}))[0].NewObject
	seatB := applyOps(t, chain, genesisTime, stampFee(t, chain, &types.WitnessCreate{WitnessAccount: bob}))[0].NewObject
	witnessA, err := chain.Store().GetWitness(seatA)
	require.NoError(t, err)
	witnessB, err := chain.Store().GetWitness(seatB)
	require.NoError(t, err)

	fund(t, chain, alice, 1_000)
	fund(t, chain, carol, 500)
	fund(t, chain, dave, 300)

	// Locked core still votes: a chunk of alice's stake sits in a vesting
	// balance when the tally runs.
	applyOps(t, chain, genesisTime, stampFee(t, chain, &types.VestingBalanceCreate{
		Creator:        alice,
		Owner:          alice,
		Amount:         types.Asset{Amount: 400, AssetID: types.CoreAsset},
		PolicyKind:     types.VestingPolicyCDD,
		VestingSeconds: 86_400,
	}))
	applyOps(t, chain, genesisTime, stampFee(t, chain, vote(alice, types.ProxyToSelfAccount, witnessA.VoteID)))

	// Alice's 1000 backs her own seat; everything else ties at zero, so the
	// second seat falls to the lowest-id incumbent.
	signer := initialSeats[0]
	maint1 := genesisTime + interval
	_, err = chain.GenerateBlock(signer, maint1, nil)
	require.NoError(t, err)
	require.Equal(t, []types.ObjectID{initialSeats[0], seatA}, activeWitnesses(t, chain))

	// Carol delegates her stake to alice's slate; dave votes bob directly.
	// 1500 and 300 now outrank the voteless incumbents.
	applyOps(t, chain, maint1, stampFee(t, chain, vote(carol, alice)))
	applyOps(t, chain, maint1, stampFee(t, chain, vote(dave, types.ProxyToSelfAccount, witnessB.VoteID)))
	_, err = chain.GenerateBlock(signer, maint1+interval, nil)
	require.NoError(t, err)
	require.Equal(t, []types.ObjectID{seatA, seatB}, activeWitnesses(t, chain))
	requireSuppliesBalance(t, chain)
}

func TestMaintenanceCommitteeReseat(t *testing.T) {
	const interval = 3600
	chain := newTestChain(t, func(cfg *genesis.Config) {
		cfg.InitialSeats = 2
		cfg.MaximumCommittee = 2
		cfg.MaintenanceInterval = interval
	})
	alice := createTestAccount(t, chain, "alice")
	upgrade(t, chain, alice)
	seat := applyOps(t, chain, genesisTime, stampFee(t, chain, &types.CommitteeMemberCreate{CommitteeMemberAccount: alice}))[0].NewObject
	member, err := chain.Store().GetCommitteeMember(seat)
	require.NoError(t, err)

	fund(t, chain, alice, 2_000)
	applyOps(t, chain, genesisTime, stampFee(t, chain, vote(alice, types.ProxyToSelfAccount, member.VoteID)))

	gpo, err := chain.Store().GlobalProperties()
	require.NoError(t, err)
	incumbent := gpo.ActiveCommitteeMembers[0]
	signer := gpo.ActiveWitnesses[0]

	_, err = chain.GenerateBlock(signer, genesisTime+interval, nil)
	require.NoError(t, err)
	gpo, err = chain.Store().GlobalProperties()
	require.NoError(t, err)
	require.Equal(t, []types.ObjectID{incumbent, seat}, gpo.ActiveCommitteeMembers)
}
