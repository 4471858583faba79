package pool

import "math/big"

var q96 = new(big.Int).Lsh(big.NewInt(1), 96)

// VirtualReserves returns the concentrated pool's virtual reserves at its
// current price: x = L/√P, y = L·√P (computed from the Q96 price and
// returned as plain token amounts, not Q96-scaled), the read-only
// complement to the swap engine used for pool inspection without mutating
// state. Grounded on the same Q96 identities pool/swapengine and
// fixedpoint/sqrtmath already use, in the spirit of the virtual-reserve
// helper in johnayoung's concentrated-liquidity implementation.
func VirtualReserves(state *ConcentratedState) (reserve0, reserve1 *big.Int) {
	if state.SqrtPriceX96.Sign() == 0 {
		return big.NewInt(0), big.NewInt(0)
	}
	lShiftedQ96 := new(big.Int).Lsh(state.Liquidity, 96)
	reserve0 = new(big.Int).Div(lShiftedQ96, state.SqrtPriceX96)
	reserve1 = new(big.Int).Mul(state.Liquidity, state.SqrtPriceX96)
	reserve1.Rsh(reserve1, 96)
	return reserve0, reserve1
}

// SpotPrice returns the pool's current price of token0 in terms of token1,
// scaled by 2^96 twice over (i.e. (sqrtPriceX96/2^96)^2 expressed as a
// Q192 fixed-point numerator/denominator pair) so callers can pick whatever
// precision/rounding they need without forcing a lossy float conversion.
func SpotPrice(state *ConcentratedState) (numerator, denominator *big.Int) {
	numerator = new(big.Int).Mul(state.SqrtPriceX96, state.SqrtPriceX96)
	denominator = new(big.Int).Mul(q96, q96)
	return numerator, denominator
}
