package tickindex

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertMany_MaintainsOrder(t *testing.T) {
	idx := New()
	idx.InsertMany([]Tick{
		{Tick: 60, LiquidityNet: big.NewInt(1), Known: true},
		{Tick: -60, LiquidityNet: big.NewInt(-1), Known: true},
		{Tick: 0, LiquidityNet: big.NewInt(2), Known: true},
	})

	require.Equal(t, 3, idx.Len())
	require.Equal(t, int64(-60), idx.Get(0).Tick)
	require.Equal(t, int64(0), idx.Get(1).Tick)
	require.Equal(t, int64(60), idx.Get(2).Tick)
}

func TestInsertMany_KnownDominatesUnknown(t *testing.T) {
	idx := New()
	idx.InsertMany([]Tick{{Tick: 60, Known: false}})
	idx.InsertMany([]Tick{{Tick: 60, LiquidityNet: big.NewInt(5), Known: true}})

	got := idx.Get(0)
	require.True(t, got.Known)
	require.Equal(t, 0, got.LiquidityNet.Cmp(big.NewInt(5)))
}

func TestInsertMany_UnknownNeverOverwritesKnown(t *testing.T) {
	idx := New()
	idx.InsertMany([]Tick{{Tick: 60, LiquidityNet: big.NewInt(5), Known: true}})
	idx.InsertMany([]Tick{{Tick: 60, Known: false}})

	got := idx.Get(0)
	require.True(t, got.Known)
	require.Equal(t, 0, got.LiquidityNet.Cmp(big.NewInt(5)))
}

func TestBinarySearch(t *testing.T) {
	idx := New()
	idx.InsertMany([]Tick{
		{Tick: -60, Known: true},
		{Tick: 0, Known: true},
		{Tick: 60, Known: true},
	})

	i, found := idx.BinarySearch(0)
	require.True(t, found)
	require.Equal(t, 1, i)

	i, found = idx.BinarySearch(30)
	require.False(t, found)
	require.Equal(t, 2, i)

	i, found = idx.BinarySearch(-100)
	require.False(t, found)
	require.Equal(t, 0, i)

	i, found = idx.BinarySearch(100)
	require.False(t, found)
	require.Equal(t, 3, i)
}
