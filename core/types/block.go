package types

import "crypto/sha256"

// BlockHeader carries the metadata of one produced block and a commitment to
// its transactions.
type BlockHeader struct {
	Height    uint64
	Timestamp int64
	PrevHash  []byte
	TxRoot    []byte
	Witness   ObjectID
}

// Block is one unit of the consensus order: a header plus the transactions
// applied under it.
type Block struct {
	Header       *BlockHeader
	Transactions []*Transaction
}

// NewBlock assembles a block and fills in the transaction root commitment.
func NewBlock(header *BlockHeader, txs []*Transaction) *Block {
	b := &Block{Header: header, Transactions: txs}
	b.Header.TxRoot = txRoot(txs)
	return b
}

// Hash returns the digest of the canonical header encoding.
func (b *Block) Hash() []byte {
	e := &encoder{}
	e.u64(b.Header.Height)
	e.i64(b.Header.Timestamp)
	e.bytes(b.Header.PrevHash)
	e.bytes(b.Header.TxRoot)
	e.id(b.Header.Witness)
	sum := sha256.Sum256(e.buf.Bytes())
	return sum[:]
}

func txRoot(txs []*Transaction) []byte {
	e := &encoder{}
	e.uvarint(uint64(len(txs)))
	for _, tx := range txs {
		id := tx.ID()
		e.bytes(id[:])
	}
	sum := sha256.Sum256(e.buf.Bytes())
	return sum[:]
}
