package types

import (
	"bytes"
	"crypto/sha256"
	"fmt"
)

// Transaction is an ordered batch of operations applied as one atomic state
// transition. Signatures are carried opaquely; verification happens before
// the transaction reaches the evaluator.
type Transaction struct {
	Expiration int64
	Operations []Operation
	Signatures [][]byte
}

// Encode returns the canonical wire encoding of the transaction body.
// Signatures are not part of the encoding; the digest identifies the signed
// content.
func (tx *Transaction) Encode() []byte {
	e := &encoder{}
	e.i64(tx.Expiration)
	e.uvarint(uint64(len(tx.Operations)))
	for _, op := range tx.Operations {
		e.uvarint(uint64(op.Tag()))
		op.marshalFields(e)
	}
	return e.buf.Bytes()
}

// DecodeTransaction parses a transaction body from its canonical encoding.
func DecodeTransaction(data []byte) (*Transaction, error) {
	d := &decoder{r: bytes.NewReader(data)}
	tx := &Transaction{}
	expiration, err := d.i64()
	if err != nil {
		return nil, err
	}
	tx.Expiration = expiration
	n, err := d.uvarint()
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < n; i++ {
		op, err := decodeOperationFrom(d)
		if err != nil {
			return nil, err
		}
		tx.Operations = append(tx.Operations, op)
	}
	if d.r.Len() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after transaction", d.r.Len())
	}
	return tx, nil
}

// ID is the transaction identity: the SHA-256 digest of the canonical
// encoding.
func (tx *Transaction) ID() [32]byte {
	return sha256.Sum256(tx.Encode())
}

// Validate runs structural validation over every operation in order.
func (tx *Transaction) Validate() error {
	if len(tx.Operations) == 0 {
		return fmt.Errorf("transaction has no operations")
	}
	for i, op := range tx.Operations {
		if err := op.Validate(); err != nil {
			return fmt.Errorf("operation %d (%s): %w", i, op.Tag(), err)
		}
	}
	return nil
}
