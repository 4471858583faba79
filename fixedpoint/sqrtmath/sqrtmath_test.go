package sqrtmath

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func q96Scaled(n int64) *big.Int {
	return new(big.Int).Lsh(big.NewInt(n), 96)
}

func TestComputeAmountPossible_From0RequiresNextGreater(t *testing.T) {
	cur := q96Scaled(1)
	next := new(big.Int).Sub(cur, big.NewInt(1))

	_, err := ComputeAmountPossible(true, big.NewInt(1_000_000), cur, next)
	require.ErrorIs(t, err, ErrDirection)
}

func TestComputeAmountPossible_NotFrom0RequiresCurGreater(t *testing.T) {
	cur := q96Scaled(1)
	next := new(big.Int).Add(cur, big.NewInt(1))

	_, err := ComputeAmountPossible(false, big.NewInt(1_000_000), cur, next)
	require.ErrorIs(t, err, ErrDirection)
}

func TestComputeAmountPossible_ZeroDifferential(t *testing.T) {
	cur := q96Scaled(1)
	_, err := ComputeAmountPossible(true, big.NewInt(1), cur, new(big.Int).Set(cur))
	require.ErrorIs(t, err, ErrZeroDifferential)

	_, err = ComputeAmountPossible(false, big.NewInt(1), cur, new(big.Int).Set(cur))
	require.ErrorIs(t, err, ErrZeroDifferential)
}

func TestComputeAmountPossible_Overflow(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 480)
	cur := huge
	next := new(big.Int).Add(huge, big.NewInt(1))

	_, err := ComputeAmountPossible(true, huge, cur, next)
	require.ErrorIs(t, err, ErrOverflow)
}

// TestComputeAmountPossible_From0SellingMovesPriceDown exercises the S1
// scenario from spec.md §8: selling token0 drives √P down, so the caller
// must invoke the !from0 leg of ComputeAmountPossible with (cur, next) in
// that order (cur > next) to recover Δy for the already-computed price
// step — this is the exact ordering pool/swapengine.partialCross uses.
func TestComputeAmountPossible_From0SellingMovesPriceDown(t *testing.T) {
	curPrice, ok := new(big.Int).SetString("79228162514264337593543950336", 10)
	require.True(t, ok)
	liquidity := big.NewInt(1_000_000_000_000)

	newPrice, err := ComputePriceFrom0(big.NewInt(1_000_000_000_000), liquidity, curPrice, true)
	require.NoError(t, err)
	require.Equal(t, -1, newPrice.Cmp(curPrice))

	delta, err := ComputeAmountPossible(false, liquidity, curPrice, newPrice)
	require.NoError(t, err)
	require.Equal(t, 1, delta.Sign())
}

// TestComputeAmountPossible_From1SellingMovesPriceUp mirrors the above for
// the !from0 partial-cross leg: selling token1 drives √P up, so the caller
// must add in ComputePriceFrom1 and then invoke the from0 leg of
// ComputeAmountPossible with (cur, next) in that order (next > cur).
func TestComputeAmountPossible_From1SellingMovesPriceUp(t *testing.T) {
	curPrice, ok := new(big.Int).SetString("79228162514264337593543950336", 10)
	require.True(t, ok)
	liquidity := big.NewInt(1_000_000_000_000)

	newPrice, err := ComputePriceFrom1(big.NewInt(1_000_000_000_000), liquidity, curPrice, true)
	require.NoError(t, err)
	require.Equal(t, 1, newPrice.Cmp(curPrice))

	delta, err := ComputeAmountPossible(true, liquidity, curPrice, newPrice)
	require.NoError(t, err)
	require.Equal(t, 1, delta.Sign())
}

func TestComputePriceFrom0_SubtractUnderflowErrors(t *testing.T) {
	curPrice := q96Scaled(1)
	_, err := ComputePriceFrom0(new(big.Int).Lsh(big.NewInt(1), 200), big.NewInt(1), curPrice, false)
	require.ErrorIs(t, err, ErrOverflow)
}

func TestComputePriceFrom1_SubtractUnderflowErrors(t *testing.T) {
	curPrice := big.NewInt(1)
	_, err := ComputePriceFrom1(new(big.Int).Lsh(big.NewInt(1), 200), big.NewInt(1), curPrice, false)
	require.ErrorIs(t, err, ErrOverflow)
}

func TestUpdateLiquidity_AddAndSubtract(t *testing.T) {
	liq := big.NewInt(1_000)

	added, err := UpdateLiquidity(liq, big.NewInt(500))
	require.NoError(t, err)
	require.Equal(t, 0, added.Cmp(big.NewInt(1_500)))

	subtracted, err := UpdateLiquidity(liq, big.NewInt(-500))
	require.NoError(t, err)
	require.Equal(t, 0, subtracted.Cmp(big.NewInt(500)))
}

func TestUpdateLiquidity_UnderflowErrors(t *testing.T) {
	_, err := UpdateLiquidity(big.NewInt(100), big.NewInt(-200))
	require.ErrorIs(t, err, ErrOverflow)
}
