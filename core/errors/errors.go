// Package errors defines the failure kinds surfaced by the chain-state
// evaluator. Every rejection wraps exactly one of the sentinels below so
// callers can classify failures with errors.Is without parsing messages.
package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	// ErrMalformedOperation marks structural validation failures: negative
	// fees, bad names or symbols, zero amounts.
	ErrMalformedOperation = stderrors.New("chain: malformed operation")

	// ErrUnknownObject marks references to ids that are not present.
	ErrUnknownObject = stderrors.New("chain: unknown object")

	// ErrInsufficientBalance marks debits that would drive a balance negative.
	ErrInsufficientBalance = stderrors.New("chain: insufficient balance")

	// ErrInsufficientFeePool marks fee conversions needing more core than the
	// asset's pool holds.
	ErrInsufficientFeePool = stderrors.New("chain: insufficient fee pool")

	// ErrSupplyExceeded marks issuance past max_supply.
	ErrSupplyExceeded = stderrors.New("chain: supply exceeded")

	// ErrInvalidAssetOp marks asset policy violations: reserving a
	// market-issued asset, converting a UIA to an MIA, re-enabling a cleared
	// permission bit.
	ErrInvalidAssetOp = stderrors.New("chain: invalid asset operation")

	// ErrUnauthorized marks authority failures, including vesting withdrawals
	// by a non-owner.
	ErrUnauthorized = stderrors.New("chain: unauthorized")

	// ErrVestingNotMature marks withdrawals past the vested amount.
	ErrVestingNotMature = stderrors.New("chain: vesting balance not mature")

	// ErrInvariantViolation marks a broken supply identity. It indicates a
	// bug, not a user error; the node halts rather than continue on corrupt
	// state.
	ErrInvariantViolation = stderrors.New("chain: invariant violation")
)

// Malformedf wraps ErrMalformedOperation with a formatted detail message.
func Malformedf(format string, args ...any) error {
	return wrapf(ErrMalformedOperation, format, args...)
}

// UnknownObjectf wraps ErrUnknownObject with a formatted detail message.
func UnknownObjectf(format string, args ...any) error {
	return wrapf(ErrUnknownObject, format, args...)
}

// InsufficientBalancef wraps ErrInsufficientBalance with a detail message.
func InsufficientBalancef(format string, args ...any) error {
	return wrapf(ErrInsufficientBalance, format, args...)
}

// InsufficientFeePoolf wraps ErrInsufficientFeePool with a detail message.
func InsufficientFeePoolf(format string, args ...any) error {
	return wrapf(ErrInsufficientFeePool, format, args...)
}

// SupplyExceededf wraps ErrSupplyExceeded with a detail message.
func SupplyExceededf(format string, args ...any) error {
	return wrapf(ErrSupplyExceeded, format, args...)
}

// InvalidAssetOpf wraps ErrInvalidAssetOp with a detail message.
func InvalidAssetOpf(format string, args ...any) error {
	return wrapf(ErrInvalidAssetOp, format, args...)
}

// Unauthorizedf wraps ErrUnauthorized with a detail message.
func Unauthorizedf(format string, args ...any) error {
	return wrapf(ErrUnauthorized, format, args...)
}

// VestingNotMaturef wraps ErrVestingNotMature with a detail message.
func VestingNotMaturef(format string, args ...any) error {
	return wrapf(ErrVestingNotMature, format, args...)
}

// InvariantViolationf wraps ErrInvariantViolation with a detail message.
func InvariantViolationf(format string, args ...any) error {
	return wrapf(ErrInvariantViolation, format, args...)
}

func wrapf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
