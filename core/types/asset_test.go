package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShareTypeCheckedArithmetic(t *testing.T) {
	sum, err := ShareType(3).CheckedAdd(4)
	require.NoError(t, err)
	require.Equal(t, ShareType(7), sum)

	_, err = ShareType(math.MaxInt64).CheckedAdd(1)
	require.Error(t, err)
	_, err = ShareType(math.MinInt64).CheckedAdd(-1)
	require.Error(t, err)

	diff, err := ShareType(3).CheckedSub(4)
	require.NoError(t, err)
	require.Equal(t, ShareType(-1), diff)

	_, err = ShareType(math.MinInt64).CheckedSub(1)
	require.Error(t, err)
	_, err = ShareType(math.MaxInt64).CheckedSub(-1)
	require.Error(t, err)
}

func TestAssetAddSub(t *testing.T) {
	core := CoreAmount(100)
	more := CoreAmount(50)

	sum, err := core.Add(more)
	require.NoError(t, err)
	require.Equal(t, CoreAmount(150), sum)

	diff, err := core.Sub(more)
	require.NoError(t, err)
	require.Equal(t, CoreAmount(50), diff)

	other := Asset{Amount: 1, AssetID: AssetID(7)}
	_, err = core.Add(other)
	require.Error(t, err)
	_, err = core.Sub(other)
	require.Error(t, err)
}

func TestPriceValidate(t *testing.T) {
	uia := AssetID(1)
	good := Price{Base: Asset{Amount: 2, AssetID: uia}, Quote: CoreAmount(3)}
	require.NoError(t, good.Validate())

	sameLeg := Price{Base: CoreAmount(1), Quote: CoreAmount(1)}
	require.Error(t, sameLeg.Validate())

	zeroLeg := Price{Base: Asset{Amount: 0, AssetID: uia}, Quote: CoreAmount(3)}
	require.Error(t, zeroLeg.Validate())
	require.True(t, Price{}.IsZero())
}

func TestPriceConvert(t *testing.T) {
	uia := AssetID(1)
	// 2 UIA = 3 CORE.
	rate := Price{Base: Asset{Amount: 2, AssetID: uia}, Quote: CoreAmount(3)}

	out, err := rate.Convert(Asset{Amount: 4, AssetID: uia}, RoundDown)
	require.NoError(t, err)
	require.Equal(t, CoreAmount(6), out)

	// 5*3/2 = 7.5: direction of rounding decides the result.
	out, err = rate.Convert(Asset{Amount: 5, AssetID: uia}, RoundDown)
	require.NoError(t, err)
	require.Equal(t, CoreAmount(7), out)
	out, err = rate.Convert(Asset{Amount: 5, AssetID: uia}, RoundUp)
	require.NoError(t, err)
	require.Equal(t, CoreAmount(8), out)

	// Converting the quote leg inverts the ratio.
	out, err = rate.Convert(CoreAmount(9), RoundDown)
	require.NoError(t, err)
	require.Equal(t, Asset{Amount: 6, AssetID: uia}, out)

	_, err = rate.Convert(Asset{Amount: -1, AssetID: uia}, RoundDown)
	require.Error(t, err)

	stranger := AssetID(9)
	_, err = rate.Convert(Asset{Amount: 1, AssetID: stranger}, RoundDown)
	require.Error(t, err)

	// Result exceeding the maximum share supply is rejected, not truncated.
	wide := Price{Base: Asset{Amount: 1, AssetID: uia}, Quote: CoreAmount(MaxShareSupply)}
	_, err = wide.Convert(Asset{Amount: 2, AssetID: uia}, RoundDown)
	require.Error(t, err)
}

func TestCutFee(t *testing.T) {
	require.Equal(t, ShareType(0), CutFee(0, 8000))
	require.Equal(t, ShareType(0), CutFee(-5, 8000))
	require.Equal(t, ShareType(0), CutFee(100, 0))
	require.Equal(t, ShareType(80), CutFee(100, 8000))
	require.Equal(t, ShareType(100), CutFee(100, FullPercent))
	// Odd split rounds toward zero.
	require.Equal(t, ShareType(0), CutFee(1, 8000))
	require.Equal(t, MaxShareSupply, CutFee(MaxShareSupply, FullPercent))
}
