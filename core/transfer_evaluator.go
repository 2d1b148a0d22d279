package core

import (
	chainerr "halochain/core/errors"
	"halochain/core/types"
)

func (p *Processor) evaluateTransfer(ctx *applyContext, op *types.Transfer) error {
	if _, err := p.store.GetAccount(op.From); err != nil {
		return err
	}
	if _, err := p.store.GetAccount(op.To); err != nil {
		return err
	}
	if _, err := p.store.GetAsset(op.Amount.AssetID); err != nil {
		return err
	}
	if _, err := p.evaluateFee(op); err != nil {
		return err
	}
	needed := op.Amount.Amount
	if op.Fee.AssetID == op.Amount.AssetID {
		needed += op.Fee.Amount
	} else if p.store.Balance(op.From, op.Fee.AssetID).Amount < op.Fee.Amount {
		return chainerr.InsufficientBalancef("account %s cannot cover fee %s", op.From, op.Fee)
	}
	if bal := p.store.Balance(op.From, op.Amount.AssetID); bal.Amount < needed {
		return chainerr.InsufficientBalancef("account %s holds %s, transfer needs %d",
			op.From, bal, needed)
	}
	return nil
}

func (p *Processor) applyTransfer(ctx *applyContext, op *types.Transfer) error {
	if err := p.chargeFee(op); err != nil {
		return err
	}
	if err := p.store.Adjust(op.From, types.Asset{Amount: -op.Amount.Amount, AssetID: op.Amount.AssetID}); err != nil {
		return err
	}
	return p.store.Adjust(op.To, op.Amount)
}

func (p *Processor) evaluateProxyTransfer(ctx *applyContext, op *types.ProxyTransfer) error {
	req := op.RequestParams
	if _, err := p.store.GetAccount(req.From); err != nil {
		return err
	}
	if _, err := p.store.GetAccount(req.To); err != nil {
		return err
	}
	if _, err := p.store.GetAccount(req.ProxyAccount); err != nil {
		return err
	}
	if _, err := p.store.GetAsset(req.Amount.AssetID); err != nil {
		return err
	}
	if req.Expiration != 0 && req.Expiration < ctx.headTime {
		return chainerr.Malformedf("proxy transfer request expired at %d, head time %d",
			req.Expiration, ctx.headTime)
	}
	if _, err := p.evaluateFee(op); err != nil {
		return err
	}
	if bal := p.store.Balance(req.From, req.Amount.AssetID); bal.Amount < req.Amount.Amount {
		return chainerr.InsufficientBalancef("account %s holds %s, proxy transfer needs %s",
			req.From, bal, req.Amount)
	}
	if bal := p.store.Balance(req.ProxyAccount, op.Fee.AssetID); bal.Amount < op.Fee.Amount {
		return chainerr.InsufficientBalancef("proxy %s cannot cover fee %s", req.ProxyAccount, op.Fee)
	}
	return nil
}

// applyProxyTransfer debits the sender in full and splits the amount between
// the recipient and the proxy's basis-point cut. The proxy pays the
// operation fee.
func (p *Processor) applyProxyTransfer(ctx *applyContext, op *types.ProxyTransfer) error {
	if err := p.chargeFee(op); err != nil {
		return err
	}
	req := op.RequestParams
	cut := types.CutFee(req.Amount.Amount, req.Percentage)
	if err := p.store.Adjust(req.From, types.Asset{Amount: -req.Amount.Amount, AssetID: req.Amount.AssetID}); err != nil {
		return err
	}
	if forwarded := req.Amount.Amount - cut; forwarded > 0 {
		if err := p.store.Adjust(req.To, types.Asset{Amount: forwarded, AssetID: req.Amount.AssetID}); err != nil {
			return err
		}
	}
	if cut > 0 {
		if err := p.store.Adjust(req.ProxyAccount, types.Asset{Amount: cut, AssetID: req.Amount.AssetID}); err != nil {
			return err
		}
	}
	return nil
}
