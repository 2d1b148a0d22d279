package core

import (
	"errors"
	"fmt"
	"log/slog"

	chainerr "halochain/core/errors"
	"halochain/core/state"
	"halochain/core/types"
	"halochain/native/fees"
	"halochain/observability"
)

// Processor drives the atomic state transition of one transaction: ordered
// operations, fee collection, two-phase evaluate/apply per variant, and full
// rollback on any failure. It is single-writer with respect to the store;
// evaluators are deterministic functions of (state, operation, head time)
// with no hidden inputs.
type Processor struct {
	store *state.Store
	log   *slog.Logger
}

// NewProcessor builds a processor over the store.
func NewProcessor(store *state.Store, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{store: store, log: logger}
}

// Store exposes the underlying object store.
func (p *Processor) Store() *state.Store { return p.store }

// applyContext carries the per-application inputs every evaluator sees.
// BilledCPUTimeUS is advisory metering input, not a deadline.
type applyContext struct {
	headTime        int64
	billedCPUTimeUS int32
}

// OperationResult reports the outcome of one applied operation; NewObject is
// set by creating operations.
type OperationResult struct {
	NewObject types.ObjectID
}

// ApplyTransaction validates and applies every operation of tx in declared
// order inside one undo session. Any failure reverts the whole transaction.
func (p *Processor) ApplyTransaction(tx *types.Transaction, headTime int64) ([]OperationResult, error) {
	return p.applyTransaction(tx, &applyContext{headTime: headTime})
}

// ApplyTransactionBilled is ApplyTransaction with advisory CPU metering
// threaded through to the evaluators.
func (p *Processor) ApplyTransactionBilled(tx *types.Transaction, headTime int64, billedCPUTimeUS int32) ([]OperationResult, error) {
	return p.applyTransaction(tx, &applyContext{headTime: headTime, billedCPUTimeUS: billedCPUTimeUS})
}

func (p *Processor) applyTransaction(tx *types.Transaction, ctx *applyContext) ([]OperationResult, error) {
	if err := tx.Validate(); err != nil {
		observability.EvaluatorMetrics().TransactionRejected()
		if errors.Is(err, chainerr.ErrMalformedOperation) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", chainerr.ErrMalformedOperation, err)
	}
	if tx.Expiration != 0 && tx.Expiration < ctx.headTime {
		observability.EvaluatorMetrics().TransactionRejected()
		return nil, chainerr.Malformedf("transaction expired at %d, head time %d", tx.Expiration, ctx.headTime)
	}
	session := p.store.StartUndoSession()
	results := make([]OperationResult, 0, len(tx.Operations))
	for i, op := range tx.Operations {
		result, err := p.applyOperation(ctx, op)
		if err != nil {
			session.Undo()
			observability.EvaluatorMetrics().TransactionRejected()
			p.log.Debug("transaction rejected",
				"op_index", i, "op", op.Tag().String(), "err", err)
			return nil, fmt.Errorf("operation %d (%s): %w", i, op.Tag(), err)
		}
		results = append(results, result)
		observability.EvaluatorMetrics().OperationApplied(op.Tag().String())
	}
	session.Commit()
	observability.EvaluatorMetrics().TransactionApplied()
	return results, nil
}

// applyOperation dispatches by tag: structural validation, then the
// variant's evaluate phase, then its apply phase.
func (p *Processor) applyOperation(ctx *applyContext, op types.Operation) (OperationResult, error) {
	if err := op.Validate(); err != nil {
		return OperationResult{}, err
	}
	switch o := op.(type) {
	case *types.Transfer:
		if err := p.evaluateTransfer(ctx, o); err != nil {
			return OperationResult{}, err
		}
		return OperationResult{}, p.applyTransfer(ctx, o)
	case *types.AccountCreate:
		if err := p.evaluateAccountCreate(ctx, o); err != nil {
			return OperationResult{}, err
		}
		return p.applyAccountCreate(ctx, o)
	case *types.AccountUpdate:
		if err := p.evaluateAccountUpdate(ctx, o); err != nil {
			return OperationResult{}, err
		}
		return OperationResult{}, p.applyAccountUpdate(ctx, o)
	case *types.AccountUpgrade:
		if err := p.evaluateAccountUpgrade(ctx, o); err != nil {
			return OperationResult{}, err
		}
		return OperationResult{}, p.applyAccountUpgrade(ctx, o)
	case *types.CommitteeMemberCreate:
		if err := p.evaluateCommitteeMemberCreate(ctx, o); err != nil {
			return OperationResult{}, err
		}
		return p.applyCommitteeMemberCreate(ctx, o)
	case *types.WitnessCreate:
		if err := p.evaluateWitnessCreate(ctx, o); err != nil {
			return OperationResult{}, err
		}
		return p.applyWitnessCreate(ctx, o)
	case *types.AssetCreate:
		if err := p.evaluateAssetCreate(ctx, o); err != nil {
			return OperationResult{}, err
		}
		return p.applyAssetCreate(ctx, o)
	case *types.AssetUpdate:
		if err := p.evaluateAssetUpdate(ctx, o); err != nil {
			return OperationResult{}, err
		}
		return OperationResult{}, p.applyAssetUpdate(ctx, o)
	case *types.AssetIssue:
		if err := p.evaluateAssetIssue(ctx, o); err != nil {
			return OperationResult{}, err
		}
		return OperationResult{}, p.applyAssetIssue(ctx, o)
	case *types.AssetReserve:
		if err := p.evaluateAssetReserve(ctx, o); err != nil {
			return OperationResult{}, err
		}
		return OperationResult{}, p.applyAssetReserve(ctx, o)
	case *types.AssetFundFeePool:
		if err := p.evaluateAssetFundFeePool(ctx, o); err != nil {
			return OperationResult{}, err
		}
		return OperationResult{}, p.applyAssetFundFeePool(ctx, o)
	case *types.VestingBalanceCreate:
		if err := p.evaluateVestingBalanceCreate(ctx, o); err != nil {
			return OperationResult{}, err
		}
		return p.applyVestingBalanceCreate(ctx, o)
	case *types.VestingBalanceWithdraw:
		if err := p.evaluateVestingBalanceWithdraw(ctx, o); err != nil {
			return OperationResult{}, err
		}
		return OperationResult{}, p.applyVestingBalanceWithdraw(ctx, o)
	case *types.ProxyTransfer:
		if err := p.evaluateProxyTransfer(ctx, o); err != nil {
			return OperationResult{}, err
		}
		return OperationResult{}, p.applyProxyTransfer(ctx, o)
	}
	return OperationResult{}, chainerr.Malformedf("unhandled operation tag %d", op.Tag())
}

// feeSchedule returns the current fee schedule from the global parameters.
func (p *Processor) feeSchedule() (*fees.Schedule, error) {
	gpo, err := p.store.GlobalProperties()
	if err != nil {
		return nil, err
	}
	if gpo.Parameters.CurrentFees == nil {
		return fees.ZeroSchedule(), nil
	}
	return gpo.Parameters.CurrentFees, nil
}

// evaluateFee checks that the declared fee covers the schedule and, for a
// non-core billing asset, that the asset's fee pool can absorb the core
// conversion. It returns the core-denominated fee value.
func (p *Processor) evaluateFee(op types.Operation) (types.Asset, error) {
	schedule, err := p.feeSchedule()
	if err != nil {
		return types.Asset{}, err
	}
	fee := op.OpFee()
	if fee.AssetID == types.CoreAsset {
		required, err := schedule.CalculateFee(op, nil)
		if err != nil {
			return types.Asset{}, err
		}
		if fee.Amount < required.Amount {
			return types.Asset{}, chainerr.Malformedf("fee %s below required %s", fee, required)
		}
		return fee, nil
	}
	billing, err := p.store.GetAsset(fee.AssetID)
	if err != nil {
		return types.Asset{}, err
	}
	required, err := schedule.CalculateFee(op, &billing.Options.CoreExchangeRate)
	if err != nil {
		return types.Asset{}, err
	}
	if fee.Amount < required.Amount {
		return types.Asset{}, chainerr.Malformedf("fee %s below required %s", fee, required)
	}
	coreFee, err := billing.Options.CoreExchangeRate.Convert(fee, types.RoundUp)
	if err != nil {
		return types.Asset{}, chainerr.Malformedf("fee conversion: %v", err)
	}
	dynamic, err := p.store.GetAssetDynamicData(billing.DynamicData)
	if err != nil {
		return types.Asset{}, err
	}
	if dynamic.FeePool < coreFee.Amount {
		return types.Asset{}, chainerr.InsufficientFeePoolf("asset %s pool holds %d core, fee needs %d",
			billing.Symbol, dynamic.FeePool, coreFee.Amount)
	}
	return coreFee, nil
}

// chargeFee collects the declared fee from the payer. Core fees flow into
// the core accumulated-fees sink; non-core fees accrue to the billing
// asset's accumulated fees while its pool is debited by the core
// equivalent. Both directions preserve the supply identity of the assets
// involved.
func (p *Processor) chargeFee(op types.Operation) error {
	fee := op.OpFee()
	payer := op.FeePayer()
	if fee.Amount == 0 {
		return nil
	}
	coreFee := fee
	if fee.AssetID == types.CoreAsset {
		coreAsset, err := p.store.GetAsset(types.CoreAsset)
		if err != nil {
			return err
		}
		if err := p.store.Adjust(payer, types.Asset{Amount: -fee.Amount, AssetID: fee.AssetID}); err != nil {
			return err
		}
		if err := p.store.Modify(coreAsset.DynamicData, func(obj state.Object) error {
			dynamic := obj.(*state.AssetDynamicDataObject)
			next, err := dynamic.AccumulatedFees.CheckedAdd(fee.Amount)
			if err != nil {
				return chainerr.InvariantViolationf("core accumulated fees overflow: %v", err)
			}
			dynamic.AccumulatedFees = next
			return nil
		}); err != nil {
			return err
		}
	} else {
		billing, err := p.store.GetAsset(fee.AssetID)
		if err != nil {
			return err
		}
		converted, err := billing.Options.CoreExchangeRate.Convert(fee, types.RoundUp)
		if err != nil {
			return chainerr.Malformedf("fee conversion: %v", err)
		}
		coreFee = converted
		if err := p.store.Adjust(payer, types.Asset{Amount: -fee.Amount, AssetID: fee.AssetID}); err != nil {
			return err
		}
		if err := p.store.Modify(billing.DynamicData, func(obj state.Object) error {
			dynamic := obj.(*state.AssetDynamicDataObject)
			if dynamic.FeePool < coreFee.Amount {
				return chainerr.InsufficientFeePoolf("asset %s pool holds %d core, fee needs %d",
					billing.Symbol, dynamic.FeePool, coreFee.Amount)
			}
			dynamic.FeePool -= coreFee.Amount
			next, err := dynamic.AccumulatedFees.CheckedAdd(fee.Amount)
			if err != nil {
				return chainerr.InvariantViolationf("accumulated fees overflow on %s: %v", billing.Symbol, err)
			}
			dynamic.AccumulatedFees = next
			return nil
		}); err != nil {
			return err
		}
		// The core released from the pool becomes network income on the
		// core asset, keeping both supply identities intact.
		coreAsset, err := p.store.GetAsset(types.CoreAsset)
		if err != nil {
			return err
		}
		if err := p.store.Modify(coreAsset.DynamicData, func(obj state.Object) error {
			obj.(*state.AssetDynamicDataObject).AccumulatedFees += coreFee.Amount
			return nil
		}); err != nil {
			return err
		}
	}
	return p.recordFeePaid(payer, coreFee.Amount)
}

// recordFeePaid accrues the payer's lifetime fee statistics.
func (p *Processor) recordFeePaid(payer types.ObjectID, coreAmount types.ShareType) error {
	account, err := p.store.GetAccount(payer)
	if err != nil {
		return err
	}
	return p.store.Modify(account.Statistics, func(obj state.Object) error {
		stats := obj.(*state.AccountStatisticsObject)
		stats.LifetimeFeesPaid += coreAmount
		return nil
	})
}
