package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleRate(asset ObjectID) Price {
	return Price{
		Base:  Asset{Amount: 2, AssetID: asset},
		Quote: CoreAmount(1),
	}
}

func sampleOperations() []Operation {
	uia := AssetID(3)
	owner := NewKeyAuthority(PublicKey("owner-key"), 1)
	active := NewKeyAuthority(PublicKey("active-key"), 1)
	options := AccountOptions{
		MemoKey:       PublicKey("memo-key"),
		VotingAccount: ProxyToSelfAccount,
		NumWitness:    2,
		NumCommittee:  3,
		Votes: []VoteID{
			{Kind: VoteCommittee, Instance: 0},
			{Kind: VoteWitness, Instance: 4},
		},
	}
	newIssuer := AccountID(9)
	return []Operation{
		&Transfer{
			Fee:    CoreAmount(20),
			From:   AccountID(6),
			To:     AccountID(7),
			Amount: Asset{Amount: 500, AssetID: uia},
		},
		&AccountCreate{
			Fee:       CoreAmount(5),
			Registrar: AccountID(6),
			Name:      "nathan",
			Owner:     owner,
			Active:    active,
			Options:   options,
		},
		&AccountUpdate{
			Fee:        CoreAmount(20),
			Account:    AccountID(6),
			Owner:      &owner,
			NewOptions: &options,
		},
		&AccountUpgrade{
			Fee:              CoreAmount(1000000000),
			AccountToUpgrade: AccountID(6),
			LifetimeMember:   true,
		},
		&CommitteeMemberCreate{
			Fee:                    CoreAmount(20),
			CommitteeMemberAccount: AccountID(6),
			URL:                    "https://example.net/committee",
		},
		&WitnessCreate{
			Fee:            CoreAmount(20),
			WitnessAccount: AccountID(6),
			URL:            "https://example.net/witness",
			SigningKey:     PublicKey("signing-key"),
		},
		&AssetCreate{
			Fee:       CoreAmount(50000000),
			Issuer:    AccountID(6),
			Symbol:    "TEST",
			Precision: 2,
			Options: AssetOptions{
				MaxSupply:         100000000,
				MarketFeePercent:  25,
				IssuerPermissions: UIAIssuerPermissionMask,
				Flags:             0,
				CoreExchangeRate:  sampleRate(uia),
			},
		},
		&AssetUpdate{
			Fee:           CoreAmount(20),
			Issuer:        AccountID(6),
			AssetToUpdate: uia,
			NewIssuer:     &newIssuer,
			NewOptions: AssetOptions{
				MaxSupply:        100000000,
				CoreExchangeRate: sampleRate(uia),
			},
		},
		&AssetIssue{
			Fee:            CoreAmount(20),
			Issuer:         AccountID(6),
			AssetToIssue:   Asset{Amount: 1000, AssetID: uia},
			IssueToAccount: AccountID(7),
		},
		&AssetReserve{
			Fee:             CoreAmount(20),
			Payer:           AccountID(7),
			AmountToReserve: Asset{Amount: 400, AssetID: uia},
		},
		&AssetFundFeePool{
			Fee:         CoreAmount(1),
			FromAccount: AccountID(6),
			AssetToFund: uia,
			AmountCore:  100000,
		},
		&VestingBalanceCreate{
			Fee:            CoreAmount(1),
			Creator:        AccountID(6),
			Owner:          AccountID(7),
			Amount:         CoreAmount(10000),
			PolicyKind:     VestingPolicyCDD,
			VestingSeconds: 1000,
		},
		&VestingBalanceWithdraw{
			Fee:            CoreAmount(1),
			VestingBalance: VestingBalanceID(0),
			Owner:          AccountID(7),
			Amount:         CoreAmount(500),
		},
		&ProxyTransfer{
			Fee:       CoreAmount(20),
			ProxyMemo: "settlement batch 7",
			RequestParams: ProxyTransferRequest{
				From:         AccountID(6),
				To:           AccountID(7),
				ProxyAccount: AccountID(8),
				Percentage:   150,
				Amount:       CoreAmount(100000),
				Memo:         "invoice 42",
				Expiration:   1757000000,
				Signatures:   [][]byte{[]byte("sig-a"), []byte("sig-b")},
			},
		},
	}
}

func TestOperationRoundTrip(t *testing.T) {
	for _, op := range sampleOperations() {
		data := EncodeOperation(op)
		decoded, err := DecodeOperation(data)
		require.NoError(t, err, "op %s", op.Tag())
		require.Equal(t, op, decoded, "op %s", op.Tag())
	}
}

func TestOperationRoundTripOptionalFieldsAbsent(t *testing.T) {
	op := &AccountUpdate{
		Fee:     CoreAmount(20),
		Account: AccountID(6),
	}
	decoded, err := DecodeOperation(EncodeOperation(op))
	require.NoError(t, err)
	require.Equal(t, op, decoded)

	update := &AssetUpdate{
		Fee:           CoreAmount(20),
		Issuer:        AccountID(6),
		AssetToUpdate: AssetID(3),
		NewOptions: AssetOptions{
			MaxSupply:        1000,
			CoreExchangeRate: sampleRate(AssetID(3)),
		},
	}
	decodedUpdate, err := DecodeOperation(EncodeOperation(update))
	require.NoError(t, err)
	require.Equal(t, update, decodedUpdate)
}

func TestDecodeOperationRejectsGarbage(t *testing.T) {
	_, err := DecodeOperation(nil)
	require.Error(t, err)

	_, err = DecodeOperation([]byte{byte(opTagCount)})
	require.Error(t, err, "unknown tag")

	data := EncodeOperation(&AccountUpgrade{
		Fee:              CoreAmount(1),
		AccountToUpgrade: AccountID(6),
		LifetimeMember:   true,
	})
	_, err = DecodeOperation(data[:len(data)-1])
	require.Error(t, err, "truncated input")
	_, err = DecodeOperation(append(append([]byte(nil), data...), 0))
	require.Error(t, err, "trailing bytes")

	// The membership flag must decode as a strict bool.
	bad := append([]byte(nil), data...)
	bad[len(bad)-1] = 2
	_, err = DecodeOperation(bad)
	require.Error(t, err)
}

func TestTransactionRoundTripAndID(t *testing.T) {
	tx := &Transaction{
		Expiration: 1757000000,
		Operations: sampleOperations(),
		Signatures: [][]byte{[]byte("witness-sig")},
	}
	require.NoError(t, tx.Validate())

	decoded, err := DecodeTransaction(tx.Encode())
	require.NoError(t, err)
	require.Equal(t, tx.Expiration, decoded.Expiration)
	require.Equal(t, tx.Operations, decoded.Operations)

	// Identity covers the signed body only.
	resigned := &Transaction{Expiration: tx.Expiration, Operations: tx.Operations}
	require.Equal(t, tx.ID(), resigned.ID())

	later := &Transaction{Expiration: tx.Expiration + 1, Operations: tx.Operations}
	require.NotEqual(t, tx.ID(), later.ID())

	empty := &Transaction{Expiration: 1}
	require.Error(t, empty.Validate())

	_, err = DecodeTransaction(append(tx.Encode(), 0xff))
	require.Error(t, err)
}

func TestAuthorityValidate(t *testing.T) {
	auth := NewKeyAuthority(PublicKey("key-a"), 1)
	require.NoError(t, auth.Validate())
	require.Equal(t, uint16(1), auth.KeyWeight(PublicKey("key-a")))
	require.Equal(t, uint16(0), auth.KeyWeight(PublicKey("key-b")))

	auth.AddAccountAuth(AccountID(7), 2)
	auth.AddAccountAuth(AccountID(6), 2)
	require.NoError(t, auth.Validate())
	require.Equal(t, 3, auth.NumAuths())
	require.Equal(t, AccountID(6), auth.AccountAuths[0].Account)

	var zero Authority
	require.Error(t, zero.Validate())

	unreachable := Authority{WeightThreshold: 10, KeyAuths: []KeyAuth{{Key: PublicKey("k"), Weight: 1}}}
	require.Error(t, unreachable.Validate())

	zeroWeight := Authority{WeightThreshold: 1, KeyAuths: []KeyAuth{{Key: PublicKey("k"), Weight: 0}}}
	require.Error(t, zeroWeight.Validate())

	unsorted := Authority{WeightThreshold: 1, AccountAuths: []AccountAuth{
		{Account: AccountID(7), Weight: 1},
		{Account: AccountID(6), Weight: 1},
	}}
	require.Error(t, unsorted.Validate())

	clone := auth.Clone()
	clone.KeyAuths[0].Key[0] = 'x'
	require.Equal(t, uint16(1), auth.KeyWeight(PublicKey("key-a")))
}
