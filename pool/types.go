// Package pool holds the data model shared by the concentrated-liquidity
// variants (v3 and v4): pool identity, in-memory state, and the resumable
// TradeState that carries a swap across a hydration fault.
package pool

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/pdrdsnt/evm-pools/bitmapindex"
	"github.com/pdrdsnt/evm-pools/tickindex"
)

// Key identifies a concentrated pool. For v4 the canonical identifier is
// keccak256(abi.encode(Key)) (see package poolid); for v3 the identifier is
// the pair contract address, carried separately by the caller.
type Key struct {
	Currency0   common.Address
	Currency1   common.Address
	FeePPM      uint32
	TickSpacing int32
	Hooks       common.Address
}

// ConcentratedState is the mutable state of a concentrated-liquidity pool:
// current tick, price, in-range liquidity, and the lazily-hydrated tick
// index / bitmap.
type ConcentratedState struct {
	CurrentTick  int64
	SqrtPriceX96 *big.Int
	Liquidity    *big.Int
	Ticks        *tickindex.TickIndex
	Bitmap       *bitmapindex.BitmapIndex
	TickSpacing  int64
}

// StepScratch is the per-iteration working state of the swap loop,
// preserved across a fault so a resumed swap re-enters at the same point.
type StepScratch struct {
	NextTick      int64
	NextTickIndex int
	NextSqrtPrice *big.Int
	AmountPossible *big.Int
}

// TradeState is the working record of a single swap. It is the payload of
// every recoverable error so the engine can resume from where it faulted.
type TradeState struct {
	From0        bool
	AmountIn     *big.Int
	Remaining    *big.Int
	AmountOut    *big.Int
	FeeAmount    *big.Int
	SqrtPriceX96 *big.Int
	Liquidity    *big.Int
	Tick         int64
	Step         StepScratch
}

// Clone returns a deep copy of the trade state so retries never alias the
// scratch *big.Int values of a state that's already been handed to a
// caller as an error payload.
func (s TradeState) Clone() TradeState {
	out := s
	out.AmountIn = new(big.Int).Set(s.AmountIn)
	out.Remaining = new(big.Int).Set(s.Remaining)
	out.AmountOut = new(big.Int).Set(s.AmountOut)
	out.FeeAmount = new(big.Int).Set(s.FeeAmount)
	out.SqrtPriceX96 = new(big.Int).Set(s.SqrtPriceX96)
	out.Liquidity = new(big.Int).Set(s.Liquidity)
	if s.Step.NextSqrtPrice != nil {
		out.Step.NextSqrtPrice = new(big.Int).Set(s.Step.NextSqrtPrice)
	}
	if s.Step.AmountPossible != nil {
		out.Step.AmountPossible = new(big.Int).Set(s.Step.AmountPossible)
	}
	return out
}
