package types

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// The wire codec is the canonical binary encoding hashed for transaction
// identity: fixed-width little-endian integers, unsigned varint lengths,
// map-like fields in sorted key order, and the stable operation tags. It is
// deliberately independent of the RLP used for state snapshots.

type encoder struct {
	buf bytes.Buffer
}

func (e *encoder) u8(v uint8) { e.buf.WriteByte(v) }

func (e *encoder) bool(v bool) {
	if v {
		e.u8(1)
		return
	}
	e.u8(0)
}

func (e *encoder) u16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	e.buf.Write(b[:])
}

func (e *encoder) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
}

func (e *encoder) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf.Write(b[:])
}

func (e *encoder) i64(v int64) { e.u64(uint64(v)) }

func (e *encoder) uvarint(v uint64) {
	var b [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(b[:], v)
	e.buf.Write(b[:n])
}

func (e *encoder) bytes(v []byte) {
	e.uvarint(uint64(len(v)))
	e.buf.Write(v)
}

func (e *encoder) str(v string) { e.bytes([]byte(v)) }

func (e *encoder) id(v ObjectID) {
	e.u8(uint8(v.Space))
	e.u8(v.Type)
	e.uvarint(v.Instance)
}

func (e *encoder) asset(v Asset) {
	e.i64(int64(v.Amount))
	e.id(v.AssetID)
}

func (e *encoder) price(v Price) {
	e.asset(v.Base)
	e.asset(v.Quote)
}

func (e *encoder) authority(v Authority) {
	e.u32(v.WeightThreshold)
	e.uvarint(uint64(len(v.AccountAuths)))
	for _, aa := range v.AccountAuths {
		e.id(aa.Account)
		e.u16(aa.Weight)
	}
	e.uvarint(uint64(len(v.KeyAuths)))
	for _, ka := range v.KeyAuths {
		e.bytes(ka.Key)
		e.u16(ka.Weight)
	}
}

func (e *encoder) accountOptions(v AccountOptions) {
	e.bytes(v.MemoKey)
	e.id(v.VotingAccount)
	e.u16(v.NumWitness)
	e.u16(v.NumCommittee)
	e.uvarint(uint64(len(v.Votes)))
	for _, vote := range v.Votes {
		e.u8(uint8(vote.Kind))
		e.u32(vote.Instance)
	}
}

func (e *encoder) assetOptions(v AssetOptions) {
	e.i64(int64(v.MaxSupply))
	e.u16(v.MarketFeePercent)
	e.u16(v.IssuerPermissions)
	e.u16(v.Flags)
	e.price(v.CoreExchangeRate)
}

type decoder struct {
	r *bytes.Reader
}

func (d *decoder) u8() (uint8, error) { return d.r.ReadByte() }

func (d *decoder) bool() (bool, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("invalid bool byte %#x", b)
}

func (d *decoder) u16() (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

func (d *decoder) u32() (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func (d *decoder) u64() (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func (d *decoder) i64() (int64, error) {
	v, err := d.u64()
	return int64(v), err
}

func (d *decoder) uvarint() (uint64, error) {
	return binary.ReadUvarint(d.r)
}

func (d *decoder) bytes() ([]byte, error) {
	n, err := d.uvarint()
	if err != nil {
		return nil, err
	}
	if n > uint64(d.r.Len()) {
		return nil, fmt.Errorf("declared length %d exceeds remaining input", n)
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(d.r, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *decoder) str() (string, error) {
	b, err := d.bytes()
	return string(b), err
}

func (d *decoder) id() (ObjectID, error) {
	space, err := d.u8()
	if err != nil {
		return ObjectID{}, err
	}
	typ, err := d.u8()
	if err != nil {
		return ObjectID{}, err
	}
	instance, err := d.uvarint()
	if err != nil {
		return ObjectID{}, err
	}
	return ObjectID{Space: Space(space), Type: typ, Instance: instance}, nil
}

func (d *decoder) asset() (Asset, error) {
	amount, err := d.i64()
	if err != nil {
		return Asset{}, err
	}
	id, err := d.id()
	if err != nil {
		return Asset{}, err
	}
	return Asset{Amount: ShareType(amount), AssetID: id}, nil
}

func (d *decoder) price() (Price, error) {
	base, err := d.asset()
	if err != nil {
		return Price{}, err
	}
	quote, err := d.asset()
	if err != nil {
		return Price{}, err
	}
	return Price{Base: base, Quote: quote}, nil
}

func (d *decoder) authority() (Authority, error) {
	var out Authority
	threshold, err := d.u32()
	if err != nil {
		return out, err
	}
	out.WeightThreshold = threshold
	n, err := d.uvarint()
	if err != nil {
		return out, err
	}
	for i := uint64(0); i < n; i++ {
		account, err := d.id()
		if err != nil {
			return out, err
		}
		weight, err := d.u16()
		if err != nil {
			return out, err
		}
		out.AccountAuths = append(out.AccountAuths, AccountAuth{Account: account, Weight: weight})
	}
	n, err = d.uvarint()
	if err != nil {
		return out, err
	}
	for i := uint64(0); i < n; i++ {
		key, err := d.bytes()
		if err != nil {
			return out, err
		}
		weight, err := d.u16()
		if err != nil {
			return out, err
		}
		out.KeyAuths = append(out.KeyAuths, KeyAuth{Key: key, Weight: weight})
	}
	return out, nil
}

func (d *decoder) accountOptions() (AccountOptions, error) {
	var out AccountOptions
	memoKey, err := d.bytes()
	if err != nil {
		return out, err
	}
	out.MemoKey = memoKey
	if out.VotingAccount, err = d.id(); err != nil {
		return out, err
	}
	if out.NumWitness, err = d.u16(); err != nil {
		return out, err
	}
	if out.NumCommittee, err = d.u16(); err != nil {
		return out, err
	}
	n, err := d.uvarint()
	if err != nil {
		return out, err
	}
	for i := uint64(0); i < n; i++ {
		kind, err := d.u8()
		if err != nil {
			return out, err
		}
		instance, err := d.u32()
		if err != nil {
			return out, err
		}
		out.Votes = append(out.Votes, VoteID{Kind: VoteKind(kind), Instance: instance})
	}
	return out, nil
}

func (d *decoder) assetOptions() (AssetOptions, error) {
	var out AssetOptions
	maxSupply, err := d.i64()
	if err != nil {
		return out, err
	}
	out.MaxSupply = ShareType(maxSupply)
	if out.MarketFeePercent, err = d.u16(); err != nil {
		return out, err
	}
	if out.IssuerPermissions, err = d.u16(); err != nil {
		return out, err
	}
	if out.Flags, err = d.u16(); err != nil {
		return out, err
	}
	if out.CoreExchangeRate, err = d.price(); err != nil {
		return out, err
	}
	return out, nil
}

// EncodeOperation serializes one operation as tag followed by its fields.
func EncodeOperation(op Operation) []byte {
	e := &encoder{}
	e.uvarint(uint64(op.Tag()))
	op.marshalFields(e)
	return e.buf.Bytes()
}

// DecodeOperation parses one operation from its canonical encoding.
func DecodeOperation(data []byte) (Operation, error) {
	d := &decoder{r: bytes.NewReader(data)}
	op, err := decodeOperationFrom(d)
	if err != nil {
		return nil, err
	}
	if d.r.Len() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after operation", d.r.Len())
	}
	return op, nil
}

func decodeOperationFrom(d *decoder) (Operation, error) {
	tag, err := d.uvarint()
	if err != nil {
		return nil, err
	}
	if tag >= uint64(opTagCount) {
		return nil, fmt.Errorf("unknown operation tag %d", tag)
	}
	op := newOperation(OpTag(tag))
	if err := op.unmarshalFields(d); err != nil {
		return nil, fmt.Errorf("decode %s: %w", OpTag(tag), err)
	}
	return op, nil
}

func newOperation(tag OpTag) Operation {
	switch tag {
	case TagTransfer:
		return &Transfer{}
	case TagAccountCreate:
		return &AccountCreate{}
	case TagAccountUpdate:
		return &AccountUpdate{}
	case TagAccountUpgrade:
		return &AccountUpgrade{}
	case TagCommitteeMemberCreate:
		return &CommitteeMemberCreate{}
	case TagWitnessCreate:
		return &WitnessCreate{}
	case TagAssetCreate:
		return &AssetCreate{}
	case TagAssetUpdate:
		return &AssetUpdate{}
	case TagAssetIssue:
		return &AssetIssue{}
	case TagAssetReserve:
		return &AssetReserve{}
	case TagAssetFundFeePool:
		return &AssetFundFeePool{}
	case TagVestingBalanceCreate:
		return &VestingBalanceCreate{}
	case TagVestingBalanceWithdraw:
		return &VestingBalanceWithdraw{}
	case TagProxyTransfer:
		return &ProxyTransfer{}
	}
	return nil
}
