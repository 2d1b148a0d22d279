package core

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	chainerr "halochain/core/errors"
	"halochain/core/state"
	"halochain/core/types"
	"halochain/observability"
	"halochain/storage"
)

// ErrChainHalted is returned once an invariant violation has been observed;
// the node refuses to advance on corrupt state.
var ErrChainHalted = errors.New("chain halted on invariant violation")

// Blockchain sequences blocks through the processor: per-block witness pay,
// transaction application, the maintenance tick, and the supply audit. All
// mutation happens under one block-level undo session, so a rejected block
// leaves no trace.
type Blockchain struct {
	mu        sync.Mutex
	store     *state.Store
	processor *Processor
	db        storage.Database
	log       *slog.Logger
	head      *types.Block
	halted    bool
}

// NewBlockchain wires a chain over an initialized store. db may be nil for
// a purely in-memory chain; when set, a snapshot is persisted after every
// applied block.
func NewBlockchain(store *state.Store, db storage.Database, logger *slog.Logger) *Blockchain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Blockchain{
		store:     store,
		processor: NewProcessor(store, logger),
		db:        db,
		log:       logger,
	}
}

// Store exposes the underlying object store.
func (bc *Blockchain) Store() *state.Store { return bc.store }

// Processor exposes the transaction processor.
func (bc *Blockchain) Processor() *Processor { return bc.processor }

// Head returns the last applied block, nil before the first one.
func (bc *Blockchain) Head() *types.Block {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.head
}

// Halted reports whether the chain refused to advance on a broken supply
// identity.
func (bc *Blockchain) Halted() bool {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.halted
}

// ApplyBlock applies one block: head bookkeeping, every transaction in
// order, the signing witness's pay, and the maintenance pass when its tick
// has arrived. The supply identity is audited before the block commits.
func (bc *Blockchain) ApplyBlock(block *types.Block) error {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	if bc.halted {
		return ErrChainHalted
	}
	dgp, err := bc.store.DynamicGlobalProperties()
	if err != nil {
		return err
	}
	if block.Header.Height != dgp.HeadBlockNum+1 {
		return fmt.Errorf("block height %d does not extend head %d", block.Header.Height, dgp.HeadBlockNum)
	}
	if block.Header.Timestamp < dgp.HeadBlockTime {
		return fmt.Errorf("block time %d behind head time %d", block.Header.Timestamp, dgp.HeadBlockTime)
	}
	session := bc.store.StartUndoSession()
	if err := bc.applyBlockBody(block); err != nil {
		session.Undo()
		if errors.Is(err, chainerr.ErrInvariantViolation) {
			bc.halted = true
			bc.log.Error("chain halted", "height", block.Header.Height, "err", err)
			return err
		}
		return err
	}
	session.Commit()
	bc.head = block
	observability.EvaluatorMetrics().BlockApplied(block.Header.Height, len(block.Transactions))
	if bc.db != nil {
		if err := bc.store.WriteSnapshot(bc.db, block.Header.Height); err != nil {
			bc.log.Error("snapshot write failed", "height", block.Header.Height, "err", err)
		}
	}
	return nil
}

func (bc *Blockchain) applyBlockBody(block *types.Block) error {
	t := block.Header.Timestamp
	if err := bc.store.Modify(state.DynamicGlobalPropertyID, func(obj state.Object) error {
		dgp := obj.(*state.DynamicGlobalPropertyObject)
		dgp.HeadBlockNum = block.Header.Height
		dgp.HeadBlockTime = t
		dgp.CurrentWitness = block.Header.Witness
		return nil
	}); err != nil {
		return err
	}
	for i, tx := range block.Transactions {
		if _, err := bc.processor.ApplyTransaction(tx, t); err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
	}
	if !block.Header.Witness.IsNil() {
		if err := bc.processor.payWitness(block.Header.Witness, t); err != nil {
			return err
		}
	}
	dgp, err := bc.store.DynamicGlobalProperties()
	if err != nil {
		return err
	}
	if dgp.NextMaintenanceTime != 0 && t >= dgp.NextMaintenanceTime {
		if err := bc.processor.performMaintenance(t); err != nil {
			return err
		}
	}
	return VerifyAssetSupplies(bc.store)
}

// GenerateBlock assembles and applies the next block on top of the head.
func (bc *Blockchain) GenerateBlock(witness types.ObjectID, timestamp int64, txs []*types.Transaction) (*types.Block, error) {
	dgp, err := bc.store.DynamicGlobalProperties()
	if err != nil {
		return nil, err
	}
	var prev []byte
	if head := bc.Head(); head != nil {
		prev = head.Hash()
	}
	block := types.NewBlock(&types.BlockHeader{
		Height:    dgp.HeadBlockNum + 1,
		Timestamp: timestamp,
		PrevHash:  prev,
		Witness:   witness,
	}, txs)
	if err := bc.ApplyBlock(block); err != nil {
		return nil, err
	}
	return block, nil
}
