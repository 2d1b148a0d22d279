package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	chainerr "halochain/core/errors"
	"halochain/core/types"
)

// upgrade makes an account a lifetime member, funding it with the membership
// fee first when fees are enabled.
func upgrade(t *testing.T, chain *Blockchain, account types.ObjectID) {
	t.Helper()
	op := &types.AccountUpgrade{AccountToUpgrade: account, LifetimeMember: true}
	stampFee(t, chain, op)
	if op.Fee.Amount > 0 {
		fund(t, chain, account, op.Fee.Amount)
	}
	applyOps(t, chain, genesisTime, op)
}

func TestCommitteeMemberCreate(t *testing.T) {
	chain := newTestChain(t, nil)
	alice := createTestAccount(t, chain, "alice")
	upgrade(t, chain, alice)

	gpoBefore, err := chain.Store().GlobalProperties()
	require.NoError(t, err)
	nextVote := gpoBefore.NextAvailableVoteID[types.VoteCommittee]

	results := applyOps(t, chain, genesisTime, stampFee(t, chain, &types.CommitteeMemberCreate{
		CommitteeMemberAccount: alice,
		URL:                    "https://example.net/alice",
	}))
	member, err := chain.Store().GetCommitteeMember(results[0].NewObject)
	require.NoError(t, err)
	require.Equal(t, alice, member.Account)
	require.Equal(t, types.VoteID{Kind: types.VoteCommittee, Instance: nextVote}, member.VoteID)
	require.Equal(t, "https://example.net/alice", member.URL)

	// One committee seat per account.
	err = applyOpsErr(t, chain, genesisTime, &types.CommitteeMemberCreate{CommitteeMemberAccount: alice})
	require.True(t, errors.Is(err, chainerr.ErrMalformedOperation))
}

func TestWitnessCreate(t *testing.T) {
	chain := newTestChain(t, nil)
	alice := createTestAccount(t, chain, "alice")
	upgrade(t, chain, alice)

	results := applyOps(t, chain, genesisTime, stampFee(t, chain, &types.WitnessCreate{
		WitnessAccount: alice,
		URL:            "https://example.net/alice",
		SigningKey:     types.PublicKey("alice-signing"),
	}))
	witness, err := chain.Store().GetWitness(results[0].NewObject)
	require.NoError(t, err)
	require.Equal(t, alice, witness.Account)
	require.Equal(t, types.PublicKey("alice-signing"), witness.SigningKey)
	require.Equal(t, types.VoteWitness, witness.VoteID.Kind)
	require.Nil(t, witness.PayVB)

	err = applyOpsErr(t, chain, genesisTime, &types.WitnessCreate{WitnessAccount: alice})
	require.True(t, errors.Is(err, chainerr.ErrMalformedOperation), "one witness seat per account")
}

func TestSeatCreationRequiresLifetimeMembership(t *testing.T) {
	chain := newTestChain(t, nil)
	bob := createTestAccount(t, chain, "bob")

	err := applyOpsErr(t, chain, genesisTime, &types.CommitteeMemberCreate{CommitteeMemberAccount: bob})
	require.True(t, errors.Is(err, chainerr.ErrUnauthorized))

	err = applyOpsErr(t, chain, genesisTime, &types.WitnessCreate{WitnessAccount: bob})
	require.True(t, errors.Is(err, chainerr.ErrUnauthorized))

	err = applyOpsErr(t, chain, genesisTime, &types.WitnessCreate{WitnessAccount: types.AccountID(9999)})
	require.True(t, errors.Is(err, chainerr.ErrUnknownObject))
}

func TestSeatVoteIDsAllocateDensely(t *testing.T) {
	chain := newTestChain(t, nil)
	alice := createTestAccount(t, chain, "alice")
	bob := createTestAccount(t, chain, "bob")
	upgrade(t, chain, alice)
	upgrade(t, chain, bob)

	first := applyOps(t, chain, genesisTime, stampFee(t, chain, &types.WitnessCreate{WitnessAccount: alice}))
	second := applyOps(t, chain, genesisTime, stampFee(t, chain, &types.WitnessCreate{WitnessAccount: bob}))

	w1, err := chain.Store().GetWitness(first[0].NewObject)
	require.NoError(t, err)
	w2, err := chain.Store().GetWitness(second[0].NewObject)
	require.NoError(t, err)
	require.Equal(t, w1.VoteID.Instance+1, w2.VoteID.Instance)
}
