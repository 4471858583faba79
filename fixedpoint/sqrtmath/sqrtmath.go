// Package sqrtmath implements the cross-tick delta formulas from
// spec.md §4.1 (compute_amount_possible, compute_price_from0/1,
// update_liquidity). It is a direct Go port of
// original_source/src/v3_base/x96price_math.rs, written in the teacher's
// allocation-conscious style (sync.Pool of scratch big.Ints, mirroring
// swapmath.SwapMath in the teacher repo) but using math/big rather than a
// fixed-width type, since the intermediate products here can exceed 256
// bits and math/big is what the teacher itself reaches for whenever a
// calculation needs headroom beyond uint256 (see calculator.go, swap_math.go).
package sqrtmath

import (
	"errors"
	"math/big"
	"sync"
)

var (
	ErrOverflow        = errors.New("sqrtmath: overflow")
	ErrZeroDifferential = errors.New("sqrtmath: zero price differential")
	ErrDirection        = errors.New("sqrtmath: wrong price direction for requested leg")

	q96 = new(big.Int).Lsh(big.NewInt(1), 96)

	maxUint256Bits = 256
	maxUint512Bits = 512
)

type scratch struct {
	diff, impact, numerator, denominator *big.Int
	scaled                               *big.Int
}

var pool = sync.Pool{
	New: func() any {
		return &scratch{
			diff:        new(big.Int),
			impact:      new(big.Int),
			numerator:   new(big.Int),
			denominator: new(big.Int),
			scaled:      new(big.Int),
		}
	},
}

// ComputeAmountPossible returns the maximum input (token0 if from0, else
// token1) needed to move sqrtPriceX96 from cur to next at liquidity L.
//
//	from0:  Δx = L·(√P_next − √P_cur)·Q96 / (√P_cur·√P_next), requires next > cur
//	!from0: Δy = L·(√P_cur − √P_next) / Q96,                   requires cur > next
func ComputeAmountPossible(from0 bool, liquidity, cur, next *big.Int) (*big.Int, error) {
	s := pool.Get().(*scratch)
	defer pool.Put(s)

	if from0 {
		if next.Cmp(cur) < 0 {
			return nil, ErrDirection
		}
		s.diff.Sub(next, cur)
		if s.diff.Sign() == 0 {
			return nil, ErrZeroDifferential
		}
		s.impact.Mul(liquidity, s.diff)
		if s.impact.BitLen() > maxUint512Bits {
			return nil, ErrOverflow
		}
		s.numerator.Mul(s.impact, q96)
		if s.numerator.BitLen() > maxUint512Bits {
			return nil, ErrOverflow
		}
		s.denominator.Mul(cur, next)
		if s.denominator.Sign() == 0 {
			return nil, ErrOverflow
		}
		res := new(big.Int).Div(s.numerator, s.denominator)
		if res.BitLen() > maxUint256Bits {
			return nil, ErrOverflow
		}
		return res, nil
	}

	if cur.Cmp(next) < 0 {
		return nil, ErrDirection
	}
	s.diff.Sub(cur, next)
	if s.diff.Sign() == 0 {
		return nil, ErrZeroDifferential
	}
	s.numerator.Mul(liquidity, s.diff)
	if s.numerator.BitLen() > maxUint512Bits {
		return nil, ErrOverflow
	}
	res := new(big.Int).Div(s.numerator, q96)
	if res.BitLen() > maxUint256Bits {
		return nil, ErrOverflow
	}
	return res, nil
}

// ComputePriceFrom0 is the partial-cross step selling token0 (price moves
// down): new√P = (L<<96) / ((L<<96)/√P ± Δx).
func ComputePriceFrom0(amount, liquidity, curSqrtPrice *big.Int, add bool) (*big.Int, error) {
	s := pool.Get().(*scratch)
	defer pool.Put(s)

	q96L := new(big.Int).Lsh(liquidity, 96)
	if curSqrtPrice.Sign() == 0 {
		return nil, ErrOverflow
	}
	s.scaled.Div(q96L, curSqrtPrice)

	denom := new(big.Int)
	if add {
		denom.Add(s.scaled, amount)
	} else {
		denom.Sub(s.scaled, amount)
	}
	if denom.Sign() <= 0 {
		return nil, ErrOverflow
	}

	return new(big.Int).Div(q96L, denom), nil
}

// ComputePriceFrom1 is the partial-cross step selling token1 (price moves
// up): new√P = √P ± (Δy·Q96)/L.
func ComputePriceFrom1(amount, liquidity, curSqrtPrice *big.Int, add bool) (*big.Int, error) {
	if liquidity.Sign() == 0 {
		return nil, ErrOverflow
	}
	dyQ96 := new(big.Int).Mul(amount, q96)
	deltaSqrt := new(big.Int).Div(dyQ96, liquidity)

	next := new(big.Int)
	if add {
		next.Add(curSqrtPrice, deltaSqrt)
	} else {
		next.Sub(curSqrtPrice, deltaSqrt)
		if next.Sign() < 0 {
			return nil, ErrOverflow
		}
	}
	return next, nil
}

// UpdateLiquidity applies a signed liquidity delta to an unsigned liquidity
// value, per the crossing direction convention in spec.md §4.3: the caller
// is responsible for having already negated liquidityNet when the crossing
// direction calls for it (pool/swapengine does this).
func UpdateLiquidity(liquidity *big.Int, liquidityNet *big.Int) (*big.Int, error) {
	result := new(big.Int)
	if liquidityNet.Sign() < 0 {
		abs := new(big.Int).Abs(liquidityNet)
		if liquidity.Cmp(abs) < 0 {
			return nil, ErrOverflow
		}
		result.Sub(liquidity, abs)
	} else {
		result.Add(liquidity, liquidityNet)
	}
	return result, nil
}
