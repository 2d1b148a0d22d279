// Package vesting implements the release policies attached to vesting
// balance objects. Policies are pure time/amount arithmetic; the evaluator
// owns all state mutation around them.
package vesting

import (
	"fmt"
	"math/bits"

	"halochain/core/types"
)

// Policy is the common surface of the release policies. Balance amounts are
// passed in by the holder; the policy only tracks its own schedule state.
type Policy interface {
	// WithdrawableAt returns how much of balance may be withdrawn at time t
	// (unix seconds).
	WithdrawableAt(balance types.ShareType, t int64) types.ShareType
	// OnDeposit records a credit of amount at time t.
	OnDeposit(balance types.ShareType, amount types.ShareType, t int64)
	// OnWithdraw records a debit of amount at time t. The caller has already
	// checked amount against WithdrawableAt.
	OnWithdraw(balance types.ShareType, amount types.ShareType, t int64)
	// Clone returns an independent copy.
	Clone() Policy
}

// CDDPolicy releases funds as coin-seconds accumulate: withdrawable grows
// with balance x elapsed, capped at balance x vesting_seconds.
type CDDPolicy struct {
	VestingSeconds        uint64
	StartClaim            int64
	CoinSecondsEarned     uint64
	CoinSecondsLastUpdate int64
}

// NewCDDPolicy starts a coin-seconds policy with nothing earned.
func NewCDDPolicy(vestingSeconds uint64, now int64) *CDDPolicy {
	return &CDDPolicy{
		VestingSeconds:        vestingSeconds,
		StartClaim:            now,
		CoinSecondsEarned:     0,
		CoinSecondsLastUpdate: now,
	}
}

// satMul64 multiplies with saturation; the accumulator is clamped to the
// coin-seconds ceiling right after, so saturating is safe.
func satMul64(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return ^uint64(0)
	}
	return lo
}

func satAdd64(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return ^uint64(0)
	}
	return sum
}

// maxCoinSeconds caps the accumulator at balance x vesting_seconds.
func (p *CDDPolicy) maxCoinSeconds(balance types.ShareType) uint64 {
	return satMul64(uint64(balance), p.VestingSeconds)
}

// earnedAt computes the lazily-advanced accumulator without mutating it.
func (p *CDDPolicy) earnedAt(balance types.ShareType, t int64) uint64 {
	earned := p.CoinSecondsEarned
	if t > p.CoinSecondsLastUpdate {
		delta := uint64(t - p.CoinSecondsLastUpdate)
		earned = satAdd64(earned, satMul64(uint64(balance), delta))
	}
	if ceiling := p.maxCoinSeconds(balance); earned > ceiling {
		earned = ceiling
	}
	return earned
}

func (p *CDDPolicy) WithdrawableAt(balance types.ShareType, t int64) types.ShareType {
	if balance <= 0 {
		return 0
	}
	if p.VestingSeconds == 0 {
		return balance
	}
	withdrawable := types.ShareType(p.earnedAt(balance, t) / p.VestingSeconds)
	if withdrawable > balance {
		withdrawable = balance
	}
	return withdrawable
}

// updateTo folds elapsed time into the accumulator and advances the clock.
func (p *CDDPolicy) updateTo(balance types.ShareType, t int64) {
	p.CoinSecondsEarned = p.earnedAt(balance, t)
	if t > p.CoinSecondsLastUpdate {
		p.CoinSecondsLastUpdate = t
	}
}

func (p *CDDPolicy) OnDeposit(balance, amount types.ShareType, t int64) {
	// Advance on the pre-deposit balance; new coins start earning at t.
	p.updateTo(balance, t)
}

func (p *CDDPolicy) OnWithdraw(balance, amount types.ShareType, t int64) {
	p.updateTo(balance, t)
	consumed := satMul64(uint64(amount), p.VestingSeconds)
	if consumed > p.CoinSecondsEarned {
		p.CoinSecondsEarned = 0
		return
	}
	p.CoinSecondsEarned -= consumed
}

func (p *CDDPolicy) Clone() Policy {
	clone := *p
	return &clone
}

func (p *CDDPolicy) String() string {
	return fmt.Sprintf("cdd{vesting=%ds earned=%d last=%d}", p.VestingSeconds, p.CoinSecondsEarned, p.CoinSecondsLastUpdate)
}

// LinearPolicy releases funds along a start + cliff + duration schedule: the
// vested fraction of the begin amount grows linearly over the duration after
// the cliff elapses.
type LinearPolicy struct {
	Begin           types.ShareType
	StartClaim      int64
	CliffSeconds    uint64
	DurationSeconds uint64
	Withdrawn       types.ShareType
}

// NewLinearPolicy starts a linear schedule over begin coins.
func NewLinearPolicy(begin types.ShareType, start int64, cliffSeconds, durationSeconds uint64) *LinearPolicy {
	return &LinearPolicy{
		Begin:           begin,
		StartClaim:      start,
		CliffSeconds:    cliffSeconds,
		DurationSeconds: durationSeconds,
	}
}

// vestedAt is the total amount released by time t, before subtracting
// prior withdrawals.
func (p *LinearPolicy) vestedAt(t int64) types.ShareType {
	elapsed := t - p.StartClaim
	if elapsed < 0 {
		return 0
	}
	if uint64(elapsed) < p.CliffSeconds {
		return 0
	}
	if p.DurationSeconds == 0 {
		return p.Begin
	}
	progressed := uint64(elapsed) - p.CliffSeconds
	if progressed >= p.DurationSeconds {
		return p.Begin
	}
	return types.ShareType(uint64(p.Begin) * progressed / p.DurationSeconds)
}

func (p *LinearPolicy) WithdrawableAt(balance types.ShareType, t int64) types.ShareType {
	vested := p.vestedAt(t)
	if vested <= p.Withdrawn {
		return 0
	}
	withdrawable := vested - p.Withdrawn
	if withdrawable > balance {
		withdrawable = balance
	}
	return withdrawable
}

func (p *LinearPolicy) OnDeposit(balance, amount types.ShareType, t int64) {
	p.Begin += amount
}

func (p *LinearPolicy) OnWithdraw(balance, amount types.ShareType, t int64) {
	p.Withdrawn += amount
}

func (p *LinearPolicy) Clone() Policy {
	clone := *p
	return &clone
}
