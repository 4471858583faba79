// Package tickmath converts between ticks and Q64.96 square-root prices.
//
// PriceFromTick is a direct adaptation of the teacher's allocation-free
// getSqrtRatioAtTick (bit-folding over a precomputed ratio table, with a
// sync.Pool of scratch uint256.Int values). TickFromPrice is written against
// the canonical getTickAtSqrtRatio algorithm (MSB-based integer log2 with
// fractional refinement) instead, since the teacher substitutes a binary
// search there — correct, but not the bit-identical reference path spec.md
// calls for. See DESIGN.md.
package tickmath

import (
	"errors"
	"math/big"
	"sync"

	"github.com/holiman/uint256"
)

var (
	// MinTick is the minimum tick that may be passed to PriceFromTick.
	MinTick = int64(-887272)
	// MaxTick is the maximum tick that may be passed to PriceFromTick.
	MaxTick = int64(887272)

	// MinSqrtRatio is the minimum value that can be returned from PriceFromTick.
	MinSqrtRatio, _ = new(big.Int).SetString("4295128739", 10)
	// MaxSqrtRatio is the maximum value that can be returned from PriceFromTick.
	MaxSqrtRatio, _ = new(big.Int).SetString("1461446703485210103287273052203988822378723970342", 10)

	ErrTickOutOfBounds      = errors.New("tick out of bounds")
	ErrSqrtPriceOutOfBounds = errors.New("sqrt price out of bounds")

	one        = uint256.NewInt(1)
	maxUint256 = uint256.MustFromBig(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)))

	// ratioConstants holds 1/sqrt(1.0001^(2^i)) in Q128.128 for bits
	// i = 0..19 (index 0 for bit 0, indices 2..20 for bits 1..19), the 2^128
	// start value used when bit 0 is clear (index 1), and a rounding mask
	// (index 21). Reproduced bit-identically from the Uniswap v3 TickMath
	// reference contract; do not "clean up" these values.
	ratioConstants = [22]*uint256.Int{
		uint256.MustFromBig(fromHex("0xfffcb933bd6fad37aa2d162d1a594001")),
		uint256.MustFromBig(fromHex("0x100000000000000000000000000000000")),
		uint256.MustFromBig(fromHex("0xfff97272373d413259a46990580e213a")),
		uint256.MustFromBig(fromHex("0xfff2e50f5f656932ef12357cf3c7fdcc")),
		uint256.MustFromBig(fromHex("0xffe5caca7e10e4e61c3624eaa0941cd0")),
		uint256.MustFromBig(fromHex("0xffcb9843d60f6159c9db58835c926644")),
		uint256.MustFromBig(fromHex("0xff973b41fa98c081472e6896dfb254c0")),
		uint256.MustFromBig(fromHex("0xff2ea16466c96a3843ec78b326b52861")),
		uint256.MustFromBig(fromHex("0xfe5dee046a99a2a811c461f1969c3053")),
		uint256.MustFromBig(fromHex("0xfcbe86c7900a88aedcffc83b479aa3a4")),
		uint256.MustFromBig(fromHex("0xf987a7253ac413176f2b074cf7815e54")),
		uint256.MustFromBig(fromHex("0xf3392b0822b70005940c7a398e4b70f3")),
		uint256.MustFromBig(fromHex("0xe7159475a2c29b7443b29c7fa6e889d9")),
		uint256.MustFromBig(fromHex("0xd097f3bdfd2022b8845ad8f792aa5825")),
		uint256.MustFromBig(fromHex("0xa9f746462d870fdf8a65dc1f90e061e5")),
		uint256.MustFromBig(fromHex("0x70d869a156d2a1b890bb3df62baf32f7")),
		uint256.MustFromBig(fromHex("0x31be135f97d08fd981231505542fcfa6")),
		uint256.MustFromBig(fromHex("0x9aa508b5b7a84e1c677de54f3e99bc9")),
		uint256.MustFromBig(fromHex("0x5d6af8dedb81196699c329225ee604")),
		uint256.MustFromBig(fromHex("0x2216e584f5fa1ea926041bedfe98")),
		uint256.MustFromBig(fromHex("0x48a170391f7dc42444e8fa2")),
		uint256.MustFromBig(fromHex("0xffffffff")), // rounding mask
	}

	// Constants for TickFromPrice's log2-based refinement.
	logConstant       = bigFromString("255738958999603826347141")
	tickLowAdjustment = bigFromString("-3402992956809132418596140100660247210")
	tickHiAdjustment  = bigFromString("291339464771989622907027621153398088495")
)

type scratch struct {
	ratio *uint256.Int
	rem   *uint256.Int
}

var pool = sync.Pool{
	New: func() any {
		return &scratch{ratio: new(uint256.Int), rem: new(uint256.Int)}
	},
}

// PriceFromTick calculates sqrt(1.0001^tick) * 2^96 and writes it into dest.
func PriceFromTick(dest *big.Int, tick int64) error {
	if tick < MinTick || tick > MaxTick {
		return ErrTickOutOfBounds
	}

	s := pool.Get().(*scratch)
	defer pool.Put(s)

	absTick := tick
	if tick < 0 {
		absTick = -tick
	}

	if (absTick & 0x1) != 0 {
		s.ratio.Set(ratioConstants[0])
	} else {
		s.ratio.Set(ratioConstants[1])
	}

	for i := 2; i < 21; i++ {
		if (absTick & (1 << (i - 1))) != 0 {
			s.ratio.Mul(s.ratio, ratioConstants[i]).Rsh(s.ratio, 128)
		}
	}

	if tick > 0 {
		s.ratio.Div(maxUint256, s.ratio)
	}

	s.rem.And(s.ratio, ratioConstants[21])
	s.ratio.Rsh(s.ratio, 32)
	if s.rem.Sign() > 0 {
		s.ratio.Add(s.ratio, one)
	}

	s.ratio.IntoBig(&dest)
	return nil
}

// TickFromPrice returns the greatest tick such that PriceFromTick(tick) <=
// sqrtPriceX96, following the canonical getTickAtSqrtRatio algorithm: an
// MSB-based integer log2 of the price refined by 14 fractional bits, scaled
// by logConstant, then disambiguated between the floor and ceil tick
// candidates by checking against the reference price conversion.
func TickFromPrice(sqrtPriceX96 *big.Int) (int64, error) {
	if sqrtPriceX96.Cmp(MinSqrtRatio) < 0 || sqrtPriceX96.Cmp(MaxSqrtRatio) >= 0 {
		return 0, ErrSqrtPriceOutOfBounds
	}

	ratio := new(big.Int).Lsh(sqrtPriceX96, 32)

	msb := ratio.BitLen() - 1

	r := new(big.Int)
	if msb >= 128 {
		r.Rsh(ratio, uint(msb-127))
	} else {
		r.Lsh(ratio, uint(127-msb))
	}

	log2 := new(big.Int).Lsh(big.NewInt(int64(msb)-128), 64)

	shift := int64(63)
	for i := 0; i < 14; i++ {
		r.Mul(r, r)
		r.Rsh(r, 127)
		f := new(big.Int).Rsh(r, 128) // 0 or 1
		if f.Sign() != 0 {
			log2.Or(log2, new(big.Int).Lsh(big.NewInt(1), uint(shift)))
		}
		r.Rsh(r, uint(f.Uint64()))
		shift--
	}

	logSqrt10001 := new(big.Int).Mul(log2, logConstant)

	tickLow := new(big.Int).Add(logSqrt10001, tickLowAdjustment)
	tickLow.Rsh(tickLow, 128)

	tickHi := new(big.Int).Add(logSqrt10001, tickHiAdjustment)
	tickHi.Rsh(tickHi, 128)

	low := tickLow.Int64()
	hi := tickHi.Int64()

	if low == hi {
		return low, nil
	}

	var hiPrice big.Int
	if err := PriceFromTick(&hiPrice, hi); err != nil {
		return 0, err
	}
	if hiPrice.Cmp(sqrtPriceX96) <= 0 {
		return hi, nil
	}
	return low, nil
}

func fromHex(s string) *big.Int {
	n, _ := new(big.Int).SetString(s[2:], 16)
	return n
}

func bigFromString(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("tickmath: invalid constant " + s)
	}
	return n
}
