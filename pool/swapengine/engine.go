// Package swapengine implements the resumable swap loop from spec.md §4.3:
// a loop over TradeState that runs to completion or to the first fault
// without mutating the pool, grounded on
// original_source/src/v3_base/trade_math.rs and written in the teacher's
// calculator.go/swap_math.go style (destination-style big.Int math, no
// hidden goroutine state, every fault carries a self-contained state so a
// caller can retry after the hydration controller fills in missing ticks).
package swapengine

import (
	"math/big"

	"github.com/pdrdsnt/evm-pools/fixedpoint/sqrtmath"
	"github.com/pdrdsnt/evm-pools/fixedpoint/tickmath"
	"github.com/pdrdsnt/evm-pools/pool"
	"github.com/pdrdsnt/evm-pools/tickindex"
)

var million = big.NewInt(1_000_000)

// Trade starts a new swap against state and runs it to completion or to its
// first fault. feePPM is the pool's fee in parts-per-million of amountIn.
func Trade(state *pool.ConcentratedState, feePPM uint32, amountIn *big.Int, from0 bool) (pool.TradeState, error) {
	feeAmount := new(big.Int).Mul(amountIn, big.NewInt(int64(feePPM)))
	feeAmount.Div(feeAmount, million)

	remaining := new(big.Int).Sub(amountIn, feeAmount)

	ts := pool.TradeState{
		From0:        from0,
		AmountIn:     new(big.Int).Set(amountIn),
		Remaining:    remaining,
		AmountOut:    big.NewInt(0),
		FeeAmount:    feeAmount,
		SqrtPriceX96: new(big.Int).Set(state.SqrtPriceX96),
		Liquidity:    new(big.Int).Set(state.Liquidity),
		Tick:         state.CurrentTick,
	}

	return run(state.Ticks, ts)
}

// Resume continues a swap from a TradeState previously handed back by a
// *pool.TickFault, after the caller has hydrated whatever ticks was
// missing. The tick pointer is re-resolved from its value (not a stale
// slice position), so it stays correct even though hydration may have
// shifted indices by inserting new ticks ahead of it.
func Resume(ticks *tickindex.TickIndex, state pool.TradeState) (pool.TradeState, error) {
	return run(ticks, state.Clone())
}

// run is the per-step loop shared by Trade and Resume. Each iteration binary
// searches for the next tick to cross from the current pointer tick — this
// is the hot path described in spec.md §4.2, and re-deriving position from
// tick value (rather than caching a raw slice index across the whole swap)
// is what makes a resume after hydration-driven insertion safe.
func run(ticks *tickindex.TickIndex, ts pool.TradeState) (pool.TradeState, error) {
	for ts.Remaining.Sign() > 0 {
		nextIndex, fault := selectNextIndex(ticks, ts.Tick, ts.From0, ts)
		if fault != nil {
			return ts, fault
		}
		next := ticks.Get(nextIndex)

		ts.Step.NextTick = next.Tick
		ts.Step.NextTickIndex = nextIndex

		if !next.Known {
			return ts, &pool.TickFault{Kind: pool.TickUnavailable, State: ts.Clone()}
		}

		var nextPrice big.Int
		if err := tickmath.PriceFromTick(&nextPrice, next.Tick); err != nil {
			return ts, &pool.MathFault{State: ts.Clone(), Err: err}
		}
		ts.Step.NextSqrtPrice = new(big.Int).Set(&nextPrice)

		possible, err := sqrtmath.ComputeAmountPossible(ts.From0, ts.Liquidity, ts.SqrtPriceX96, &nextPrice)
		if err != nil {
			return ts, &pool.MathFault{State: ts.Clone(), Err: err}
		}
		ts.Step.AmountPossible = possible

		if ts.Remaining.Cmp(possible) < 0 {
			newPrice, delta, err := partialCross(ts.From0, ts.Remaining, ts.Liquidity, ts.SqrtPriceX96)
			if err != nil {
				return ts, &pool.MathFault{State: ts.Clone(), Err: err}
			}
			ts.AmountOut.Add(ts.AmountOut, delta)
			ts.SqrtPriceX96 = newPrice
			ts.Remaining = big.NewInt(0)
			break
		}

		outCross, err := crossAmount(ts.From0, ts.Liquidity, ts.SqrtPriceX96, &nextPrice)
		if err != nil {
			return ts, &pool.MathFault{State: ts.Clone(), Err: err}
		}
		ts.AmountOut.Add(ts.AmountOut, outCross)

		netForUpdate := new(big.Int).Set(next.LiquidityNet)
		if !ts.From0 {
			netForUpdate.Neg(netForUpdate)
		}
		newLiquidity, err := sqrtmath.UpdateLiquidity(ts.Liquidity, netForUpdate)
		if err != nil {
			return ts, &pool.MathFault{State: ts.Clone(), Err: err}
		}
		ts.Liquidity = newLiquidity
		ts.SqrtPriceX96 = new(big.Int).Set(&nextPrice)
		ts.Tick = next.Tick
		ts.Remaining.Sub(ts.Remaining, possible)
	}

	return ts, nil
}

// selectNextIndex locates the tick to cross next from the pointer tick,
// following the from0-advances-upward / !from0-advances-downward convention
// from trade_math.rs verbatim (see SPEC_FULL.md's Open Question record).
func selectNextIndex(ticks *tickindex.TickIndex, tick int64, from0 bool, ts pool.TradeState) (int, error) {
	i, found := ticks.BinarySearch(tick)
	n := ticks.Len()

	if from0 {
		if found {
			if i+1 >= n {
				return 0, &pool.TickFault{Kind: pool.TickOverflow, State: ts.Clone()}
			}
			return i + 1, nil
		}
		if i >= n {
			return 0, &pool.TickFault{Kind: pool.TickOverflow, State: ts.Clone()}
		}
		return i, nil
	}

	if i == 0 {
		return 0, &pool.TickFault{Kind: pool.TickUnderflow, State: ts.Clone()}
	}
	return i - 1, nil
}

// partialCross computes the new sqrt price and output amount for a trade
// step that doesn't fully cross into the next tick.
func partialCross(from0 bool, remaining, liquidity, curSqrtPrice *big.Int) (*big.Int, *big.Int, error) {
	if from0 {
		newPrice, err := sqrtmath.ComputePriceFrom0(remaining, liquidity, curSqrtPrice, true)
		if err != nil {
			return nil, nil, err
		}
		delta, err := sqrtmath.ComputeAmountPossible(false, liquidity, curSqrtPrice, newPrice)
		if err != nil {
			return nil, nil, err
		}
		return newPrice, delta, nil
	}

	newPrice, err := sqrtmath.ComputePriceFrom1(remaining, liquidity, curSqrtPrice, true)
	if err != nil {
		return nil, nil, err
	}
	delta, err := sqrtmath.ComputeAmountPossible(true, liquidity, curSqrtPrice, newPrice)
	if err != nil {
		return nil, nil, err
	}
	return newPrice, delta, nil
}

// crossAmount computes the output amount for a step that fully crosses from
// cur to next: the opposite-token leg of the amount-possible formula, which
// takes its (cur, next) pair in the other direction's ordering.
func crossAmount(from0 bool, liquidity, cur, next *big.Int) (*big.Int, error) {
	return sqrtmath.ComputeAmountPossible(!from0, liquidity, next, cur)
}
