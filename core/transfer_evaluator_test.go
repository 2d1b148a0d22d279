package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	chainerr "halochain/core/errors"
	"halochain/core/types"
	"halochain/native/fees"
)

func TestTransferMovesFunds(t *testing.T) {
	chain := newTestChain(t, withFees)
	alice := createTestAccount(t, chain, "alice")
	bob := createTestAccount(t, chain, "bob")
	fund(t, chain, alice, 1000*fees.CorePrecision)

	feesBefore := coreDynamic(t, chain).AccumulatedFees

	op := &types.Transfer{From: alice, To: bob, Amount: types.CoreAmount(300 * fees.CorePrecision)}
	stampFee(t, chain, op)
	applyOps(t, chain, genesisTime, op)

	require.Equal(t, 680*fees.CorePrecision, coreBalance(chain, alice))
	require.Equal(t, 300*fees.CorePrecision, coreBalance(chain, bob))
	require.Equal(t, feesBefore+20*fees.CorePrecision, coreDynamic(t, chain).AccumulatedFees)
	requireSuppliesBalance(t, chain)
}

func TestTransferRejections(t *testing.T) {
	chain := newTestChain(t, nil)
	alice := createTestAccount(t, chain, "alice")
	bob := createTestAccount(t, chain, "bob")
	fund(t, chain, alice, 100)

	err := applyOpsErr(t, chain, genesisTime,
		stampFee(t, chain, &types.Transfer{From: alice, To: bob, Amount: types.CoreAmount(101)}))
	require.True(t, errors.Is(err, chainerr.ErrInsufficientBalance))

	err = applyOpsErr(t, chain, genesisTime,
		&types.Transfer{From: alice, To: types.AccountID(9999), Amount: types.CoreAmount(1)})
	require.True(t, errors.Is(err, chainerr.ErrUnknownObject))

	err = applyOpsErr(t, chain, genesisTime,
		&types.Transfer{From: alice, To: bob, Amount: types.Asset{Amount: 1, AssetID: types.AssetID(7)}})
	require.True(t, errors.Is(err, chainerr.ErrUnknownObject))

	err = applyOpsErr(t, chain, genesisTime,
		&types.Transfer{From: alice, To: alice, Amount: types.CoreAmount(1)})
	require.True(t, errors.Is(err, chainerr.ErrMalformedOperation))

	err = applyOpsErr(t, chain, genesisTime,
		&types.Transfer{From: alice, To: bob, Amount: types.CoreAmount(0)})
	require.True(t, errors.Is(err, chainerr.ErrMalformedOperation))
}

func TestTransferFeePlusAmountMustFit(t *testing.T) {
	chain := newTestChain(t, withFees)
	alice := createTestAccount(t, chain, "alice")
	bob := createTestAccount(t, chain, "bob")
	fund(t, chain, alice, 100*fees.CorePrecision)

	// The full balance cannot move when the fee rides the same asset.
	op := &types.Transfer{From: alice, To: bob, Amount: types.CoreAmount(100 * fees.CorePrecision)}
	stampFee(t, chain, op)
	err := applyOpsErr(t, chain, genesisTime, op)
	require.True(t, errors.Is(err, chainerr.ErrInsufficientBalance))

	op.Amount = types.CoreAmount(80 * fees.CorePrecision)
	applyOps(t, chain, genesisTime, op)
	require.Equal(t, types.ShareType(0), coreBalance(chain, alice))
}

func TestProxyTransferSplit(t *testing.T) {
	chain := newTestChain(t, nil)
	alice := createTestAccount(t, chain, "alice")
	bob := createTestAccount(t, chain, "bob")
	proxy := createTestAccount(t, chain, "proxy")
	fund(t, chain, alice, 10000)

	applyOps(t, chain, genesisTime, stampFee(t, chain, &types.ProxyTransfer{
		RequestParams: types.ProxyTransferRequest{
			From:         alice,
			To:           bob,
			ProxyAccount: proxy,
			Percentage:   150,
			Amount:       types.CoreAmount(10000),
			Expiration:   genesisTime + 60,
		},
	}))

	// The 1.5% cut stays with the proxy; the sender is debited in full.
	require.Equal(t, types.ShareType(0), coreBalance(chain, alice))
	require.Equal(t, types.ShareType(9850), coreBalance(chain, bob))
	require.Equal(t, types.ShareType(150), coreBalance(chain, proxy))
	requireSuppliesBalance(t, chain)
}

func TestProxyTransferZeroCutForwardsEverything(t *testing.T) {
	chain := newTestChain(t, nil)
	alice := createTestAccount(t, chain, "alice")
	bob := createTestAccount(t, chain, "bob")
	proxy := createTestAccount(t, chain, "proxy")
	fund(t, chain, alice, 500)

	applyOps(t, chain, genesisTime, stampFee(t, chain, &types.ProxyTransfer{
		RequestParams: types.ProxyTransferRequest{
			From:         alice,
			To:           bob,
			ProxyAccount: proxy,
			Percentage:   0,
			Amount:       types.CoreAmount(500),
		},
	}))
	require.Equal(t, types.ShareType(500), coreBalance(chain, bob))
	require.Equal(t, types.ShareType(0), coreBalance(chain, proxy))
}

func TestProxyTransferExpiredRequest(t *testing.T) {
	chain := newTestChain(t, nil)
	alice := createTestAccount(t, chain, "alice")
	bob := createTestAccount(t, chain, "bob")
	proxy := createTestAccount(t, chain, "proxy")
	fund(t, chain, alice, 500)

	err := applyOpsErr(t, chain, genesisTime, &types.ProxyTransfer{
		RequestParams: types.ProxyTransferRequest{
			From:         alice,
			To:           bob,
			ProxyAccount: proxy,
			Amount:       types.CoreAmount(500),
			Expiration:   genesisTime - 1,
		},
	})
	require.True(t, errors.Is(err, chainerr.ErrMalformedOperation))
	require.Equal(t, types.ShareType(500), coreBalance(chain, alice))
}

func TestProxyTransferFeeFallsOnProxy(t *testing.T) {
	chain := newTestChain(t, withFees)
	alice := createTestAccount(t, chain, "alice")
	bob := createTestAccount(t, chain, "bob")
	proxy := createTestAccount(t, chain, "proxy")
	fund(t, chain, alice, 10000)

	op := &types.ProxyTransfer{
		RequestParams: types.ProxyTransferRequest{
			From:         alice,
			To:           bob,
			ProxyAccount: proxy,
			Percentage:   100,
			Amount:       types.CoreAmount(10000),
		},
	}
	stampFee(t, chain, op)
	err := applyOpsErr(t, chain, genesisTime, op)
	require.True(t, errors.Is(err, chainerr.ErrInsufficientBalance), "proxy cannot cover the fee")

	fund(t, chain, proxy, 20*fees.CorePrecision)
	applyOps(t, chain, genesisTime, op)
	require.Equal(t, types.ShareType(100), coreBalance(chain, proxy))
	require.Equal(t, types.ShareType(9900), coreBalance(chain, bob))
	requireSuppliesBalance(t, chain)
}
