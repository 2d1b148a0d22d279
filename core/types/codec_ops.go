package types

func (op *Transfer) marshalFields(e *encoder) {
	e.asset(op.Fee)
	e.id(op.From)
	e.id(op.To)
	e.asset(op.Amount)
}

func (op *Transfer) unmarshalFields(d *decoder) (err error) {
	if op.Fee, err = d.asset(); err != nil {
		return err
	}
	if op.From, err = d.id(); err != nil {
		return err
	}
	if op.To, err = d.id(); err != nil {
		return err
	}
	op.Amount, err = d.asset()
	return err
}

func (op *AccountCreate) marshalFields(e *encoder) {
	e.asset(op.Fee)
	e.id(op.Registrar)
	e.str(op.Name)
	e.authority(op.Owner)
	e.authority(op.Active)
	e.accountOptions(op.Options)
}

func (op *AccountCreate) unmarshalFields(d *decoder) (err error) {
	if op.Fee, err = d.asset(); err != nil {
		return err
	}
	if op.Registrar, err = d.id(); err != nil {
		return err
	}
	if op.Name, err = d.str(); err != nil {
		return err
	}
	if op.Owner, err = d.authority(); err != nil {
		return err
	}
	if op.Active, err = d.authority(); err != nil {
		return err
	}
	op.Options, err = d.accountOptions()
	return err
}

func (op *AccountUpdate) marshalFields(e *encoder) {
	e.asset(op.Fee)
	e.id(op.Account)
	e.bool(op.Owner != nil)
	if op.Owner != nil {
		e.authority(*op.Owner)
	}
	e.bool(op.Active != nil)
	if op.Active != nil {
		e.authority(*op.Active)
	}
	e.bool(op.NewOptions != nil)
	if op.NewOptions != nil {
		e.accountOptions(*op.NewOptions)
	}
}

func (op *AccountUpdate) unmarshalFields(d *decoder) (err error) {
	if op.Fee, err = d.asset(); err != nil {
		return err
	}
	if op.Account, err = d.id(); err != nil {
		return err
	}
	hasOwner, err := d.bool()
	if err != nil {
		return err
	}
	if hasOwner {
		owner, err := d.authority()
		if err != nil {
			return err
		}
		op.Owner = &owner
	}
	hasActive, err := d.bool()
	if err != nil {
		return err
	}
	if hasActive {
		active, err := d.authority()
		if err != nil {
			return err
		}
		op.Active = &active
	}
	hasOptions, err := d.bool()
	if err != nil {
		return err
	}
	if hasOptions {
		options, err := d.accountOptions()
		if err != nil {
			return err
		}
		op.NewOptions = &options
	}
	return nil
}

func (op *AccountUpgrade) marshalFields(e *encoder) {
	e.asset(op.Fee)
	e.id(op.AccountToUpgrade)
	e.bool(op.LifetimeMember)
}

func (op *AccountUpgrade) unmarshalFields(d *decoder) (err error) {
	if op.Fee, err = d.asset(); err != nil {
		return err
	}
	if op.AccountToUpgrade, err = d.id(); err != nil {
		return err
	}
	op.LifetimeMember, err = d.bool()
	return err
}

func (op *CommitteeMemberCreate) marshalFields(e *encoder) {
	e.asset(op.Fee)
	e.id(op.CommitteeMemberAccount)
	e.str(op.URL)
}

func (op *CommitteeMemberCreate) unmarshalFields(d *decoder) (err error) {
	if op.Fee, err = d.asset(); err != nil {
		return err
	}
	if op.CommitteeMemberAccount, err = d.id(); err != nil {
		return err
	}
	op.URL, err = d.str()
	return err
}

func (op *WitnessCreate) marshalFields(e *encoder) {
	e.asset(op.Fee)
	e.id(op.WitnessAccount)
	e.str(op.URL)
	e.bytes(op.SigningKey)
}

func (op *WitnessCreate) unmarshalFields(d *decoder) (err error) {
	if op.Fee, err = d.asset(); err != nil {
		return err
	}
	if op.WitnessAccount, err = d.id(); err != nil {
		return err
	}
	if op.URL, err = d.str(); err != nil {
		return err
	}
	op.SigningKey, err = d.bytes()
	return err
}

func (op *AssetCreate) marshalFields(e *encoder) {
	e.asset(op.Fee)
	e.id(op.Issuer)
	e.str(op.Symbol)
	e.u8(op.Precision)
	e.assetOptions(op.Options)
	e.bool(op.IsPredictionMarket)
	e.bool(op.IsMarketIssued)
}

func (op *AssetCreate) unmarshalFields(d *decoder) (err error) {
	if op.Fee, err = d.asset(); err != nil {
		return err
	}
	if op.Issuer, err = d.id(); err != nil {
		return err
	}
	if op.Symbol, err = d.str(); err != nil {
		return err
	}
	if op.Precision, err = d.u8(); err != nil {
		return err
	}
	if op.Options, err = d.assetOptions(); err != nil {
		return err
	}
	if op.IsPredictionMarket, err = d.bool(); err != nil {
		return err
	}
	op.IsMarketIssued, err = d.bool()
	return err
}

func (op *AssetUpdate) marshalFields(e *encoder) {
	e.asset(op.Fee)
	e.id(op.Issuer)
	e.id(op.AssetToUpdate)
	e.bool(op.NewIssuer != nil)
	if op.NewIssuer != nil {
		e.id(*op.NewIssuer)
	}
	e.assetOptions(op.NewOptions)
}

func (op *AssetUpdate) unmarshalFields(d *decoder) (err error) {
	if op.Fee, err = d.asset(); err != nil {
		return err
	}
	if op.Issuer, err = d.id(); err != nil {
		return err
	}
	if op.AssetToUpdate, err = d.id(); err != nil {
		return err
	}
	hasIssuer, err := d.bool()
	if err != nil {
		return err
	}
	if hasIssuer {
		issuer, err := d.id()
		if err != nil {
			return err
		}
		op.NewIssuer = &issuer
	}
	op.NewOptions, err = d.assetOptions()
	return err
}

func (op *AssetIssue) marshalFields(e *encoder) {
	e.asset(op.Fee)
	e.id(op.Issuer)
	e.asset(op.AssetToIssue)
	e.id(op.IssueToAccount)
}

func (op *AssetIssue) unmarshalFields(d *decoder) (err error) {
	if op.Fee, err = d.asset(); err != nil {
		return err
	}
	if op.Issuer, err = d.id(); err != nil {
		return err
	}
	if op.AssetToIssue, err = d.asset(); err != nil {
		return err
	}
	op.IssueToAccount, err = d.id()
	return err
}

func (op *AssetReserve) marshalFields(e *encoder) {
	e.asset(op.Fee)
	e.id(op.Payer)
	e.asset(op.AmountToReserve)
}

func (op *AssetReserve) unmarshalFields(d *decoder) (err error) {
	if op.Fee, err = d.asset(); err != nil {
		return err
	}
	if op.Payer, err = d.id(); err != nil {
		return err
	}
	op.AmountToReserve, err = d.asset()
	return err
}

func (op *AssetFundFeePool) marshalFields(e *encoder) {
	e.asset(op.Fee)
	e.id(op.FromAccount)
	e.id(op.AssetToFund)
	e.i64(int64(op.AmountCore))
}

func (op *AssetFundFeePool) unmarshalFields(d *decoder) (err error) {
	if op.Fee, err = d.asset(); err != nil {
		return err
	}
	if op.FromAccount, err = d.id(); err != nil {
		return err
	}
	if op.AssetToFund, err = d.id(); err != nil {
		return err
	}
	amount, err := d.i64()
	op.AmountCore = ShareType(amount)
	return err
}

func (op *VestingBalanceCreate) marshalFields(e *encoder) {
	e.asset(op.Fee)
	e.id(op.Creator)
	e.id(op.Owner)
	e.asset(op.Amount)
	e.u8(uint8(op.PolicyKind))
	e.u64(op.VestingSeconds)
	e.i64(op.StartClaim)
	e.u64(op.CliffSeconds)
	e.u64(op.DurationSeconds)
}

func (op *VestingBalanceCreate) unmarshalFields(d *decoder) (err error) {
	if op.Fee, err = d.asset(); err != nil {
		return err
	}
	if op.Creator, err = d.id(); err != nil {
		return err
	}
	if op.Owner, err = d.id(); err != nil {
		return err
	}
	if op.Amount, err = d.asset(); err != nil {
		return err
	}
	kind, err := d.u8()
	if err != nil {
		return err
	}
	op.PolicyKind = VestingPolicyKind(kind)
	if op.VestingSeconds, err = d.u64(); err != nil {
		return err
	}
	if op.StartClaim, err = d.i64(); err != nil {
		return err
	}
	if op.CliffSeconds, err = d.u64(); err != nil {
		return err
	}
	op.DurationSeconds, err = d.u64()
	return err
}

func (op *VestingBalanceWithdraw) marshalFields(e *encoder) {
	e.asset(op.Fee)
	e.id(op.VestingBalance)
	e.id(op.Owner)
	e.asset(op.Amount)
}

func (op *VestingBalanceWithdraw) unmarshalFields(d *decoder) (err error) {
	if op.Fee, err = d.asset(); err != nil {
		return err
	}
	if op.VestingBalance, err = d.id(); err != nil {
		return err
	}
	if op.Owner, err = d.id(); err != nil {
		return err
	}
	op.Amount, err = d.asset()
	return err
}

func (op *ProxyTransfer) marshalFields(e *encoder) {
	e.asset(op.Fee)
	e.str(op.ProxyMemo)
	p := op.RequestParams
	e.id(p.From)
	e.id(p.To)
	e.id(p.ProxyAccount)
	e.u16(p.Percentage)
	e.asset(p.Amount)
	e.str(p.Memo)
	e.i64(p.Expiration)
	e.uvarint(uint64(len(p.Signatures)))
	for _, sig := range p.Signatures {
		e.bytes(sig)
	}
}

func (op *ProxyTransfer) unmarshalFields(d *decoder) (err error) {
	if op.Fee, err = d.asset(); err != nil {
		return err
	}
	if op.ProxyMemo, err = d.str(); err != nil {
		return err
	}
	p := &op.RequestParams
	if p.From, err = d.id(); err != nil {
		return err
	}
	if p.To, err = d.id(); err != nil {
		return err
	}
	if p.ProxyAccount, err = d.id(); err != nil {
		return err
	}
	if p.Percentage, err = d.u16(); err != nil {
		return err
	}
	if p.Amount, err = d.asset(); err != nil {
		return err
	}
	if p.Memo, err = d.str(); err != nil {
		return err
	}
	if p.Expiration, err = d.i64(); err != nil {
		return err
	}
	n, err := d.uvarint()
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		sig, err := d.bytes()
		if err != nil {
			return err
		}
		p.Signatures = append(p.Signatures, sig)
	}
	return nil
}
