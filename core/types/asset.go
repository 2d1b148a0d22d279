package types

import (
	"fmt"

	"github.com/holiman/uint256"
)

// ShareType is the fixed-point integral amount of an asset. All balance and
// supply arithmetic goes through the checked helpers below; silent overflow
// is never acceptable in consensus code.
type ShareType int64

// MaxShareSupply bounds every asset's max_supply and therefore every balance.
const MaxShareSupply ShareType = 1_000_000_000_000_000

// CheckedAdd returns a+b or an error on int64 overflow.
func (a ShareType) CheckedAdd(b ShareType) (ShareType, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, fmt.Errorf("share amount overflow: %d + %d", a, b)
	}
	return sum, nil
}

// CheckedSub returns a-b or an error on int64 overflow.
func (a ShareType) CheckedSub(b ShareType) (ShareType, error) {
	diff := a - b
	if (b < 0 && diff < a) || (b > 0 && diff > a) {
		return 0, fmt.Errorf("share amount overflow: %d - %d", a, b)
	}
	return diff, nil
}

// Asset is an amount of a specific asset.
type Asset struct {
	Amount  ShareType
	AssetID ObjectID
}

// CoreAmount returns an amount denominated in the core asset.
func CoreAmount(amount ShareType) Asset {
	return Asset{Amount: amount, AssetID: CoreAsset}
}

func (a Asset) String() string {
	return fmt.Sprintf("%d[%s]", a.Amount, a.AssetID)
}

// Add returns a+b; both legs must share an asset id.
func (a Asset) Add(b Asset) (Asset, error) {
	if a.AssetID != b.AssetID {
		return Asset{}, fmt.Errorf("asset id mismatch: %s vs %s", a.AssetID, b.AssetID)
	}
	amt, err := a.Amount.CheckedAdd(b.Amount)
	if err != nil {
		return Asset{}, err
	}
	return Asset{Amount: amt, AssetID: a.AssetID}, nil
}

// Sub returns a-b; both legs must share an asset id.
func (a Asset) Sub(b Asset) (Asset, error) {
	if a.AssetID != b.AssetID {
		return Asset{}, fmt.Errorf("asset id mismatch: %s vs %s", a.AssetID, b.AssetID)
	}
	amt, err := a.Amount.CheckedSub(b.Amount)
	if err != nil {
		return Asset{}, err
	}
	return Asset{Amount: amt, AssetID: a.AssetID}, nil
}

// Price is an exchange rate expressed as the ratio Base/Quote of two
// different assets.
type Price struct {
	Base  Asset
	Quote Asset
}

// Validate enforces the structural price invariants: both legs strictly
// positive and denominated in different assets.
func (p Price) Validate() error {
	if p.Base.Amount <= 0 || p.Quote.Amount <= 0 {
		return fmt.Errorf("price legs must be positive: %s / %s", p.Base, p.Quote)
	}
	if p.Base.AssetID == p.Quote.AssetID {
		return fmt.Errorf("price legs must differ in asset: %s", p.Base.AssetID)
	}
	return nil
}

// IsZero reports whether the price is the zero value.
func (p Price) IsZero() bool {
	return p.Base.Amount == 0 && p.Quote.Amount == 0
}

// Rounding pins the rounding direction of a rate conversion. Consensus code
// always states the direction explicitly; nothing here inherits a default.
type Rounding uint8

const (
	RoundDown Rounding = iota
	RoundUp
)

// Convert multiplies an amount by the price, converting between the two
// assets of the ratio. The 128-bit intermediate cannot overflow for amounts
// and price legs bounded by MaxShareSupply.
func (p Price) Convert(a Asset, rounding Rounding) (Asset, error) {
	if err := p.Validate(); err != nil {
		return Asset{}, err
	}
	if a.Amount < 0 {
		return Asset{}, fmt.Errorf("cannot convert negative amount %s", a)
	}
	var num, den ShareType
	var outAsset ObjectID
	switch a.AssetID {
	case p.Base.AssetID:
		num, den, outAsset = p.Quote.Amount, p.Base.Amount, p.Quote.AssetID
	case p.Quote.AssetID:
		num, den, outAsset = p.Base.Amount, p.Quote.Amount, p.Base.AssetID
	default:
		return Asset{}, fmt.Errorf("asset %s not priced by %s/%s", a.AssetID, p.Base.AssetID, p.Quote.AssetID)
	}
	product := new(uint256.Int).Mul(
		uint256.NewInt(uint64(a.Amount)),
		uint256.NewInt(uint64(num)),
	)
	divisor := uint256.NewInt(uint64(den))
	quotient, remainder := new(uint256.Int).DivMod(product, divisor, new(uint256.Int))
	if rounding == RoundUp && !remainder.IsZero() {
		quotient.AddUint64(quotient, 1)
	}
	if !quotient.IsUint64() || quotient.Uint64() > uint64(MaxShareSupply) {
		return Asset{}, fmt.Errorf("conversion of %s by %d/%d overflows share type", a, num, den)
	}
	return Asset{Amount: ShareType(quotient.Uint64()), AssetID: outAsset}, nil
}
