package fees

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"halochain/core/types"
)

func TestDefaultScheduleValues(t *testing.T) {
	s := DefaultSchedule()

	require.Equal(t, 20*CorePrecision, s.Get(types.TagTransfer).Fee)
	require.Equal(t, 5*CorePrecision, s.Get(types.TagAccountCreate).Fee)
	require.Equal(t, 500*CorePrecision, s.Get(types.TagAssetCreate).Fee)
	require.Equal(t, 1*CorePrecision, s.Get(types.TagAssetFundFeePool).Fee)
	require.Equal(t, 1*CorePrecision, s.Get(types.TagVestingBalanceCreate).Fee)
	require.Equal(t, 1*CorePrecision, s.Get(types.TagVestingBalanceWithdraw).Fee)

	upgrade := s.Get(types.TagAccountUpgrade)
	require.Equal(t, 20*CorePrecision, upgrade.Fee)
	require.Equal(t, 10000*CorePrecision, upgrade.MembershipLifetimeFee)

	zero := ZeroSchedule()
	require.Equal(t, types.ShareType(0), zero.Get(types.TagTransfer).Fee)
}

func TestCalculateFeeCore(t *testing.T) {
	s := DefaultSchedule()

	fee, err := s.CalculateFee(&types.Transfer{}, nil)
	require.NoError(t, err)
	require.Equal(t, types.CoreAmount(20*CorePrecision), fee)

	// The membership fee applies to upgrades, not the base parameter.
	fee, err = s.CalculateFee(&types.AccountUpgrade{LifetimeMember: true}, nil)
	require.NoError(t, err)
	require.Equal(t, types.CoreAmount(10000*CorePrecision), fee)
}

func TestCalculateFeeConverted(t *testing.T) {
	s := DefaultSchedule()
	uia := types.AssetID(3)

	// 1 UIA = 2 CORE, so a 20-coin core fee costs 10 coins of UIA.
	rate := &types.Price{
		Base:  types.Asset{Amount: 1, AssetID: uia},
		Quote: types.CoreAmount(2),
	}
	fee, err := s.CalculateFee(&types.Transfer{}, rate)
	require.NoError(t, err)
	require.Equal(t, types.Asset{Amount: 10 * CorePrecision, AssetID: uia}, fee)

	// An inexact conversion rounds up so the network never undercharges.
	odd := &types.Price{
		Base:  types.Asset{Amount: 1, AssetID: uia},
		Quote: types.CoreAmount(3),
	}
	fee, err = s.CalculateFee(&types.Transfer{}, odd)
	require.NoError(t, err)
	require.Equal(t, types.Asset{Amount: 666667, AssetID: uia}, fee)

	bad := &types.Price{Base: types.CoreAmount(0), Quote: types.CoreAmount(1)}
	_, err = s.CalculateFee(&types.Transfer{}, bad)
	require.Error(t, err)
}

func TestSetFeeStampsOperation(t *testing.T) {
	s := DefaultSchedule()
	op := &types.Transfer{From: types.AccountID(6), To: types.AccountID(7), Amount: types.CoreAmount(1)}

	fee, err := s.SetFee(op, nil)
	require.NoError(t, err)
	require.Equal(t, fee, op.Fee)
}

func TestScheduleSetAndClone(t *testing.T) {
	s := ZeroSchedule()
	s.Set(types.TagTransfer, Parameters{Fee: 42})
	require.Equal(t, types.ShareType(42), s.Get(types.TagTransfer).Fee)

	clone := s.Clone()
	clone.Set(types.TagTransfer, Parameters{Fee: 7})
	require.Equal(t, types.ShareType(42), s.Get(types.TagTransfer).Fee)
}

func TestScheduleJSONRoundTrip(t *testing.T) {
	s := DefaultSchedule()
	data, err := json.Marshal(s)
	require.NoError(t, err)

	restored := ZeroSchedule()
	require.NoError(t, json.Unmarshal(data, restored))
	require.Equal(t, s.Get(types.TagAccountUpgrade), restored.Get(types.TagAccountUpgrade))
	require.Equal(t, s.Get(types.TagAssetCreate), restored.Get(types.TagAssetCreate))
}
