package core

import (
	chainerr "halochain/core/errors"
	"halochain/core/state"
	"halochain/core/types"
)

func (p *Processor) evaluateAssetCreate(ctx *applyContext, op *types.AssetCreate) error {
	if _, err := p.store.GetAccount(op.Issuer); err != nil {
		return err
	}
	if _, err := p.store.AssetBySymbol(op.Symbol); err == nil {
		return chainerr.Malformedf("asset symbol %q is taken", op.Symbol)
	}
	if op.IsPredictionMarket && !op.IsMarketIssued {
		return chainerr.Malformedf("prediction market assets are market issued")
	}
	if op.IsMarketIssued {
		if op.Options.IssuerPermissions&^types.IssuerPermissionMask != 0 {
			return chainerr.InvalidAssetOpf("issuer permissions %#x out of range", op.Options.IssuerPermissions)
		}
	} else if op.Options.IssuerPermissions&^types.UIAIssuerPermissionMask != 0 {
		return chainerr.InvalidAssetOpf("permissions %#x unavailable to a user-issued asset", op.Options.IssuerPermissions)
	}
	if _, err := p.evaluateFee(op); err != nil {
		return err
	}
	if bal := p.store.Balance(op.Issuer, op.Fee.AssetID); bal.Amount < op.Fee.Amount {
		return chainerr.InsufficientBalancef("issuer %s cannot cover fee %s", op.Issuer, op.Fee)
	}
	return nil
}

// applyAssetCreate allocates the asset id and rewrites the placeholder
// non-core leg of the declared core exchange rate to it.
func (p *Processor) applyAssetCreate(ctx *applyContext, op *types.AssetCreate) (OperationResult, error) {
	if err := p.chargeFee(op); err != nil {
		return OperationResult{}, err
	}
	assetID := p.store.NextID(types.SpaceProtocol, types.ObjectTypeAsset)
	dynamic, err := p.store.Create(types.SpaceImplementation, types.ObjectTypeAssetDynamicData, func(id types.ObjectID) state.Object {
		return &state.AssetDynamicDataObject{ID: id}
	})
	if err != nil {
		return OperationResult{}, err
	}
	var bitassetID *types.ObjectID
	if op.IsMarketIssued {
		bitasset, err := p.store.Create(types.SpaceImplementation, types.ObjectTypeAssetBitassetData, func(id types.ObjectID) state.Object {
			return &state.AssetBitassetDataObject{ID: id, IsPredictionMarket: op.IsPredictionMarket}
		})
		if err != nil {
			return OperationResult{}, err
		}
		id := bitasset.ObjectID()
		bitassetID = &id
	}
	opts := op.Options.Clone()
	if opts.CoreExchangeRate.Base.AssetID == types.CoreAsset {
		opts.CoreExchangeRate.Quote.AssetID = assetID
	} else {
		opts.CoreExchangeRate.Base.AssetID = assetID
	}
	created, err := p.store.Create(types.SpaceProtocol, types.ObjectTypeAsset, func(id types.ObjectID) state.Object {
		return &state.AssetObject{
			ID:           id,
			Symbol:       op.Symbol,
			Precision:    op.Precision,
			Issuer:       op.Issuer,
			Options:      opts,
			DynamicData:  dynamic.ObjectID(),
			BitassetData: bitassetID,
		}
	})
	if err != nil {
		return OperationResult{}, err
	}
	return OperationResult{NewObject: created.ObjectID()}, nil
}

func (p *Processor) evaluateAssetUpdate(ctx *applyContext, op *types.AssetUpdate) error {
	asset, err := p.store.GetAsset(op.AssetToUpdate)
	if err != nil {
		return err
	}
	if op.Issuer != asset.Issuer {
		return chainerr.Unauthorizedf("account %s is not the issuer of %s", op.Issuer, asset.Symbol)
	}
	if op.NewIssuer != nil {
		if *op.NewIssuer == asset.Issuer {
			return chainerr.Malformedf("new issuer matches the current issuer")
		}
		if _, err := p.store.GetAccount(*op.NewIssuer); err != nil {
			return err
		}
	}
	// Permission bits only ever narrow; a cleared bit cannot come back.
	if op.NewOptions.IssuerPermissions&^asset.Options.IssuerPermissions != 0 {
		return chainerr.InvalidAssetOpf("cannot re-enable permission bits %#x on %s",
			op.NewOptions.IssuerPermissions&^asset.Options.IssuerPermissions, asset.Symbol)
	}
	// A flag toggles only while its permission bit is still set. A flag that
	// was live when its permission dropped stays frozen in place.
	if locked := (op.NewOptions.Flags ^ asset.Options.Flags) &^ asset.Options.IssuerPermissions; locked != 0 {
		return chainerr.InvalidAssetOpf("flag bits %#x are locked on %s", locked, asset.Symbol)
	}
	if !asset.IsMarketIssued() && op.NewOptions.IssuerPermissions&^types.UIAIssuerPermissionMask != 0 {
		return chainerr.InvalidAssetOpf("permissions %#x unavailable to a user-issued asset", op.NewOptions.IssuerPermissions)
	}
	cer := op.NewOptions.CoreExchangeRate
	other := cer.Base
	if other.AssetID == types.CoreAsset {
		other = cer.Quote
	}
	if other.AssetID != asset.ID {
		return chainerr.Malformedf("core exchange rate leg %s does not price %s", other.AssetID, asset.Symbol)
	}
	if _, err := p.evaluateFee(op); err != nil {
		return err
	}
	if bal := p.store.Balance(op.Issuer, op.Fee.AssetID); bal.Amount < op.Fee.Amount {
		return chainerr.InsufficientBalancef("issuer %s cannot cover fee %s", op.Issuer, op.Fee)
	}
	return nil
}

func (p *Processor) applyAssetUpdate(ctx *applyContext, op *types.AssetUpdate) error {
	if err := p.chargeFee(op); err != nil {
		return err
	}
	return p.store.Modify(op.AssetToUpdate, func(obj state.Object) error {
		asset := obj.(*state.AssetObject)
		asset.Options = op.NewOptions.Clone()
		if op.NewIssuer != nil {
			asset.Issuer = *op.NewIssuer
		}
		return nil
	})
}

func (p *Processor) evaluateAssetIssue(ctx *applyContext, op *types.AssetIssue) error {
	asset, err := p.store.GetAsset(op.AssetToIssue.AssetID)
	if err != nil {
		return err
	}
	if op.Issuer != asset.Issuer {
		return chainerr.Unauthorizedf("account %s is not the issuer of %s", op.Issuer, asset.Symbol)
	}
	if asset.IsMarketIssued() {
		return chainerr.InvalidAssetOpf("market-issued asset %s cannot be issued directly", asset.Symbol)
	}
	if _, err := p.store.GetAccount(op.IssueToAccount); err != nil {
		return err
	}
	dynamic, err := p.store.GetAssetDynamicData(asset.DynamicData)
	if err != nil {
		return err
	}
	next, err := dynamic.CurrentSupply.CheckedAdd(op.AssetToIssue.Amount)
	if err != nil || next > asset.Options.MaxSupply {
		return chainerr.SupplyExceededf("issuing %s would lift supply past %d",
			op.AssetToIssue, asset.Options.MaxSupply)
	}
	if _, err := p.evaluateFee(op); err != nil {
		return err
	}
	if bal := p.store.Balance(op.Issuer, op.Fee.AssetID); bal.Amount < op.Fee.Amount {
		return chainerr.InsufficientBalancef("issuer %s cannot cover fee %s", op.Issuer, op.Fee)
	}
	return nil
}

func (p *Processor) applyAssetIssue(ctx *applyContext, op *types.AssetIssue) error {
	if err := p.chargeFee(op); err != nil {
		return err
	}
	asset, err := p.store.GetAsset(op.AssetToIssue.AssetID)
	if err != nil {
		return err
	}
	if err := p.store.Modify(asset.DynamicData, func(obj state.Object) error {
		dynamic := obj.(*state.AssetDynamicDataObject)
		dynamic.CurrentSupply += op.AssetToIssue.Amount
		return nil
	}); err != nil {
		return err
	}
	return p.store.Adjust(op.IssueToAccount, op.AssetToIssue)
}

func (p *Processor) evaluateAssetReserve(ctx *applyContext, op *types.AssetReserve) error {
	asset, err := p.store.GetAsset(op.AmountToReserve.AssetID)
	if err != nil {
		return err
	}
	if asset.IsMarketIssued() {
		return chainerr.InvalidAssetOpf("market-issued asset %s cannot be reserved", asset.Symbol)
	}
	if _, err := p.store.GetAccount(op.Payer); err != nil {
		return err
	}
	if _, err := p.evaluateFee(op); err != nil {
		return err
	}
	needed := op.AmountToReserve.Amount
	if op.Fee.AssetID == op.AmountToReserve.AssetID {
		needed += op.Fee.Amount
	} else if p.store.Balance(op.Payer, op.Fee.AssetID).Amount < op.Fee.Amount {
		return chainerr.InsufficientBalancef("payer %s cannot cover fee %s", op.Payer, op.Fee)
	}
	if bal := p.store.Balance(op.Payer, op.AmountToReserve.AssetID); bal.Amount < needed {
		return chainerr.InsufficientBalancef("payer %s holds %s, reserve needs %d",
			op.Payer, bal, needed)
	}
	return nil
}

// applyAssetReserve burns circulating supply back into the reserve pool.
func (p *Processor) applyAssetReserve(ctx *applyContext, op *types.AssetReserve) error {
	if err := p.chargeFee(op); err != nil {
		return err
	}
	asset, err := p.store.GetAsset(op.AmountToReserve.AssetID)
	if err != nil {
		return err
	}
	if err := p.store.Adjust(op.Payer, types.Asset{Amount: -op.AmountToReserve.Amount, AssetID: op.AmountToReserve.AssetID}); err != nil {
		return err
	}
	return p.store.Modify(asset.DynamicData, func(obj state.Object) error {
		dynamic := obj.(*state.AssetDynamicDataObject)
		if dynamic.CurrentSupply < op.AmountToReserve.Amount {
			return chainerr.InvariantViolationf("reserve of %s exceeds current supply %d",
				op.AmountToReserve, dynamic.CurrentSupply)
		}
		dynamic.CurrentSupply -= op.AmountToReserve.Amount
		return nil
	})
}

func (p *Processor) evaluateAssetFundFeePool(ctx *applyContext, op *types.AssetFundFeePool) error {
	if _, err := p.store.GetAccount(op.FromAccount); err != nil {
		return err
	}
	if _, err := p.store.GetAsset(op.AssetToFund); err != nil {
		return err
	}
	if _, err := p.evaluateFee(op); err != nil {
		return err
	}
	needed := op.AmountCore + op.Fee.Amount
	if bal := p.store.Balance(op.FromAccount, types.CoreAsset); bal.Amount < needed {
		return chainerr.InsufficientBalancef("account %s holds %s, funding needs %d",
			op.FromAccount, bal, needed)
	}
	return nil
}

func (p *Processor) applyAssetFundFeePool(ctx *applyContext, op *types.AssetFundFeePool) error {
	if err := p.chargeFee(op); err != nil {
		return err
	}
	asset, err := p.store.GetAsset(op.AssetToFund)
	if err != nil {
		return err
	}
	if err := p.store.Adjust(op.FromAccount, types.Asset{Amount: -op.AmountCore, AssetID: types.CoreAsset}); err != nil {
		return err
	}
	return p.store.Modify(asset.DynamicData, func(obj state.Object) error {
		obj.(*state.AssetDynamicDataObject).FeePool += op.AmountCore
		return nil
	})
}
