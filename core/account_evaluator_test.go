package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	chainerr "halochain/core/errors"
	"halochain/core/types"
	"halochain/native/fees"
)

func TestAccountCreate(t *testing.T) {
	chain := newTestChain(t, nil)

	op := &types.AccountCreate{
		Registrar: types.CommitteeAccount,
		Name:      "nathan",
		Owner:     types.NewKeyAuthority(types.PublicKey("nathan-owner"), 1),
		Active:    types.NewKeyAuthority(types.PublicKey("nathan-active"), 1),
	}
	results := applyOps(t, chain, genesisTime, stampFee(t, chain, op))

	account, err := chain.Store().GetAccount(results[0].NewObject)
	require.NoError(t, err)
	require.Equal(t, "nathan", account.Name)
	require.False(t, account.LifetimeMember)
	// An omitted voting account defaults to self-voting.
	require.Equal(t, types.ProxyToSelfAccount, account.Options.VotingAccount)

	stats, err := chain.Store().GetAccountStatistics(account.Statistics)
	require.NoError(t, err)
	require.Equal(t, account.ID, stats.Owner)

	byName, err := chain.Store().AccountByName("nathan")
	require.NoError(t, err)
	require.Equal(t, account.ID, byName.ID)
}

func TestAccountCreateRejections(t *testing.T) {
	chain := newTestChain(t, nil)
	createTestAccount(t, chain, "nathan")

	owner := types.NewKeyAuthority(types.PublicKey("k"), 1)
	base := func(name string) *types.AccountCreate {
		return &types.AccountCreate{
			Registrar: types.CommitteeAccount,
			Name:      name,
			Owner:     owner,
			Active:    owner,
		}
	}

	err := applyOpsErr(t, chain, genesisTime, base("nathan"))
	require.True(t, errors.Is(err, chainerr.ErrMalformedOperation), "duplicate name")

	err = applyOpsErr(t, chain, genesisTime, base("BadName"))
	require.True(t, errors.Is(err, chainerr.ErrMalformedOperation), "invalid name")

	ghost := base("ghostly")
	ghost.Registrar = types.AccountID(9999)
	err = applyOpsErr(t, chain, genesisTime, ghost)
	require.True(t, errors.Is(err, chainerr.ErrUnknownObject), "unknown registrar")

	badVoter := base("voterless")
	badVoter.Options.VotingAccount = types.AccountID(9999)
	err = applyOpsErr(t, chain, genesisTime, badVoter)
	require.True(t, errors.Is(err, chainerr.ErrUnknownObject), "unknown voting account")

	badVote := base("badvote")
	badVote.Options.VotingAccount = types.ProxyToSelfAccount
	badVote.Options.Votes = []types.VoteID{{Kind: types.VoteWitness, Instance: 9999}}
	err = applyOpsErr(t, chain, genesisTime, badVote)
	require.True(t, errors.Is(err, chainerr.ErrMalformedOperation), "unallocated vote id")
}

func TestAccountCreateFeeFromRegistrar(t *testing.T) {
	chain := newTestChain(t, withFees)
	alice := createTestAccount(t, chain, "alice")
	fund(t, chain, alice, 4*fees.CorePrecision)

	// 4 coins cannot cover the 5-coin registration fee.
	op := &types.AccountCreate{
		Registrar: alice,
		Name:      "broke",
		Owner:     types.NewKeyAuthority(types.PublicKey("k"), 1),
		Active:    types.NewKeyAuthority(types.PublicKey("k"), 1),
	}
	stampFee(t, chain, op)
	err := applyOpsErr(t, chain, genesisTime, op)
	require.True(t, errors.Is(err, chainerr.ErrInsufficientBalance))

	fund(t, chain, alice, 1*fees.CorePrecision)
	applyOps(t, chain, genesisTime, op)
	require.Equal(t, types.ShareType(0), coreBalance(chain, alice))
	requireSuppliesBalance(t, chain)
}

func TestAccountUpdate(t *testing.T) {
	chain := newTestChain(t, nil)
	alice := createTestAccount(t, chain, "alice")
	bob := createTestAccount(t, chain, "bob")

	newActive := types.NewKeyAuthority(types.PublicKey("rotated"), 1)
	applyOps(t, chain, genesisTime, stampFee(t, chain, &types.AccountUpdate{
		Account: alice,
		Active:  &newActive,
		NewOptions: &types.AccountOptions{
			VotingAccount: bob,
		},
	}))

	account, err := chain.Store().GetAccount(alice)
	require.NoError(t, err)
	require.Equal(t, newActive, account.Active)
	require.Equal(t, bob, account.Options.VotingAccount)

	// An update that changes nothing is rejected before evaluation.
	err = applyOpsErr(t, chain, genesisTime, &types.AccountUpdate{Account: alice})
	require.True(t, errors.Is(err, chainerr.ErrMalformedOperation))
}

func TestAccountUpgrade(t *testing.T) {
	chain := newTestChain(t, withFees)
	nathan := createTestAccount(t, chain, "nathan")
	membershipFee := 10000 * fees.CorePrecision
	fund(t, chain, nathan, membershipFee)

	supplyBefore := coreDynamic(t, chain).CurrentSupply
	feesBefore := coreDynamic(t, chain).AccumulatedFees

	op := &types.AccountUpgrade{AccountToUpgrade: nathan, LifetimeMember: true}
	stampFee(t, chain, op)
	require.Equal(t, types.CoreAmount(membershipFee), op.Fee)
	applyOps(t, chain, genesisTime, op)

	account, err := chain.Store().GetAccount(nathan)
	require.NoError(t, err)
	require.True(t, account.LifetimeMember)
	require.Equal(t, types.ShareType(0), coreBalance(chain, nathan))

	// 80% of the membership fee burns immediately; 20% is network income.
	dynamic := coreDynamic(t, chain)
	require.Equal(t, supplyBefore-8000*fees.CorePrecision, dynamic.CurrentSupply)
	require.Equal(t, feesBefore+2000*fees.CorePrecision, dynamic.AccumulatedFees)

	stats, err := chain.Store().GetAccountStatistics(account.Statistics)
	require.NoError(t, err)
	require.Equal(t, membershipFee, stats.LifetimeFeesPaid)
	requireSuppliesBalance(t, chain)

	// Upgrading twice is malformed.
	repeat := &types.AccountUpgrade{AccountToUpgrade: nathan, LifetimeMember: true}
	stampFee(t, chain, repeat)
	err = applyOpsErr(t, chain, genesisTime, repeat)
	require.True(t, errors.Is(err, chainerr.ErrMalformedOperation))
}

func TestAccountUpgradeRejections(t *testing.T) {
	chain := newTestChain(t, withFees)
	nathan := createTestAccount(t, chain, "nathan")

	short := &types.AccountUpgrade{AccountToUpgrade: nathan, LifetimeMember: true}
	short.Fee = types.CoreAmount(10000*fees.CorePrecision - 1)
	err := applyOpsErr(t, chain, genesisTime, short)
	require.True(t, errors.Is(err, chainerr.ErrMalformedOperation), "declared fee below schedule")

	nonCore := &types.AccountUpgrade{AccountToUpgrade: nathan, LifetimeMember: true}
	nonCore.Fee = types.Asset{Amount: 10000 * fees.CorePrecision, AssetID: types.AssetID(3)}
	err = applyOpsErr(t, chain, genesisTime, nonCore)
	require.True(t, errors.Is(err, chainerr.ErrMalformedOperation), "membership fee must be core")

	broke := &types.AccountUpgrade{AccountToUpgrade: nathan, LifetimeMember: true}
	stampFee(t, chain, broke)
	err = applyOpsErr(t, chain, genesisTime, broke)
	require.True(t, errors.Is(err, chainerr.ErrInsufficientBalance), "cannot afford membership")
}
