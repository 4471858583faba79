package swapengine

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdrdsnt/evm-pools/bitmapindex"
	"github.com/pdrdsnt/evm-pools/fixedpoint/tickmath"
	"github.com/pdrdsnt/evm-pools/pool"
	"github.com/pdrdsnt/evm-pools/tickindex"
)

// singleRangeState builds a pool with one fully-known range [-120, 120] at
// tick spacing 60, liquidity L, current tick 0. Crossing either boundary
// drains liquidity back to zero, matching a single concentrated position.
func singleRangeState(t *testing.T, liquidity *big.Int) *pool.ConcentratedState {
	t.Helper()

	idx := tickindex.New()
	idx.InsertMany([]tickindex.Tick{
		{Tick: -120, LiquidityNet: new(big.Int).Set(liquidity), Known: true},
		{Tick: 120, LiquidityNet: new(big.Int).Neg(liquidity), Known: true},
	})

	var price big.Int
	require.NoError(t, tickmath.PriceFromTick(&price, 0))

	return &pool.ConcentratedState{
		CurrentTick:  0,
		SqrtPriceX96: &price,
		Liquidity:    liquidity,
		Ticks:        idx,
		Bitmap:       bitmapindex.New(),
		TickSpacing:  60,
	}
}

func TestTrade_PartialCrossStaysWithinRange(t *testing.T) {
	state := singleRangeState(t, big.NewInt(1_000_000_000_000))

	ts, err := Trade(state, 3000, big.NewInt(1_000_000), true)
	require.NoError(t, err)
	require.Equal(t, 0, ts.Remaining.Sign())
	require.True(t, ts.AmountOut.Sign() > 0)
	require.Equal(t, 0, ts.FeeAmount.Cmp(big.NewInt(3000)))
}

func TestTrade_FullCrossFaultsOnMissingNeighbor(t *testing.T) {
	state := singleRangeState(t, big.NewInt(1_000_000_000_000))

	_, err := Trade(state, 3000, big.NewInt(1_000_000_000_000_000), true)
	require.Error(t, err)
	tf, ok := pool.AsTickFault(err)
	require.True(t, ok)
	require.Equal(t, pool.TickOverflow, tf.Kind)
}

func TestTrade_FaultsOnUnknownLiquidityNet(t *testing.T) {
	idx := tickindex.New()
	idx.InsertMany([]tickindex.Tick{
		{Tick: -120, Known: false},
		{Tick: 120, Known: false},
	})

	var price big.Int
	require.NoError(t, tickmath.PriceFromTick(&price, 0))

	state := &pool.ConcentratedState{
		CurrentTick:  0,
		SqrtPriceX96: &price,
		Liquidity:    big.NewInt(1_000_000_000_000),
		Ticks:        idx,
		Bitmap:       bitmapindex.New(),
		TickSpacing:  60,
	}

	_, err := Trade(state, 3000, big.NewInt(1_000_000), true)
	// Even a trade small enough to stay within range faults: the next tick's
	// liquidity_net is checked before the step amount is computed.
	var small *pool.TickFault
	require.ErrorAs(t, err, &small)
	require.Equal(t, pool.TickUnavailable, small.Kind)

	_, err = Trade(state, 3000, big.NewInt(1_000_000_000_000_000), true)
	require.Error(t, err)
	tf, ok := pool.AsTickFault(err)
	require.True(t, ok)
	require.Equal(t, pool.TickUnavailable, tf.Kind)
}

func TestResume_ContinuesAfterHydration(t *testing.T) {
	idx := tickindex.New()
	idx.InsertMany([]tickindex.Tick{
		{Tick: -120, Known: false},
		{Tick: 120, Known: false},
	})

	var price big.Int
	require.NoError(t, tickmath.PriceFromTick(&price, 0))

	state := &pool.ConcentratedState{
		CurrentTick:  0,
		SqrtPriceX96: &price,
		Liquidity:    big.NewInt(1_000_000_000_000),
		Ticks:        idx,
		Bitmap:       bitmapindex.New(),
		TickSpacing:  60,
	}

	_, err := Trade(state, 3000, big.NewInt(1_000_000), true)
	require.Error(t, err)
	tf, ok := pool.AsTickFault(err)
	require.True(t, ok)
	require.Equal(t, pool.TickUnavailable, tf.Kind)

	idx.InsertMany([]tickindex.Tick{
		{Tick: 120, LiquidityNet: big.NewInt(-1_000_000_000_000), Known: true},
	})

	resumed, err := Resume(idx, tf.State)
	require.NoError(t, err)
	require.Equal(t, 0, resumed.Remaining.Sign())
}

func TestTrade_ReverseDirectionPartialCross(t *testing.T) {
	state := singleRangeState(t, big.NewInt(1_000_000_000_000))

	ts, err := Trade(state, 3000, big.NewInt(1_000_000), false)
	require.NoError(t, err)
	require.Equal(t, 0, ts.Remaining.Sign())
	require.True(t, ts.AmountOut.Sign() > 0)
}
