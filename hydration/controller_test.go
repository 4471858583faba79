package hydration

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/pdrdsnt/evm-pools/bitmapindex"
	"github.com/pdrdsnt/evm-pools/datasource"
	"github.com/pdrdsnt/evm-pools/fixedpoint/tickmath"
	"github.com/pdrdsnt/evm-pools/pool"
	"github.com/pdrdsnt/evm-pools/tickindex"
)

// fakeSource answers TickInfo for exactly the ticks it was seeded with and
// reports every other tick as uninitialized (without an error), so tests can
// exercise the hydrate-then-resume path deterministically.
type fakeSource struct {
	nets map[int64]*big.Int
}

func (f *fakeSource) Slot0(context.Context, datasource.Ref) (*big.Int, int64, error) {
	return nil, 0, nil
}
func (f *fakeSource) Liquidity(context.Context, datasource.Ref) (*big.Int, error) { return nil, nil }
func (f *fakeSource) TickBitmap(context.Context, datasource.Ref, int16) (*uint256.Int, error) {
	return new(uint256.Int), nil
}
func (f *fakeSource) TickInfo(_ context.Context, _ datasource.Ref, tick int64) (*big.Int, bool, error) {
	net, ok := f.nets[tick]
	return net, ok, nil
}
func (f *fakeSource) Reserves(context.Context, datasource.Ref) (*big.Int, *big.Int, error) {
	return nil, nil, nil
}
func (f *fakeSource) PairTokens(context.Context, datasource.Ref) (common.Address, common.Address, error) {
	return common.Address{}, common.Address{}, nil
}

func TestController_Trade_HydratesUnavailableTick(t *testing.T) {
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

	source := &fakeSource{nets: map[int64]*big.Int{120: big.NewInt(-1_000_000_000_000)}}
	ctrl := New(source, common.Hash{}, nil, nil)

	ts, err := ctrl.Trade(context.Background(), state, 3000, big.NewInt(1_000_000), true)
	require.NoError(t, err)
	require.Equal(t, 0, ts.Remaining.Sign())
}

func TestController_Trade_GivesUpAfterBudget(t *testing.T) {
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

	source := &fakeSource{nets: map[int64]*big.Int{}} // never resolves
	ctrl := New(source, common.Hash{}, nil, nil)

	_, err := ctrl.Trade(context.Background(), state, 3000, big.NewInt(1_000_000_000_000_000), true)
	require.Error(t, err)
}
