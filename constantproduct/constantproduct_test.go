package constantproduct

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdrdsnt/evm-pools/pool"
)

func TestTrade_PPMOverThousandConvention(t *testing.T) {
	s := &State{Reserve0: big.NewInt(1_000_000), Reserve1: big.NewInt(1_000_000)}

	trade, err := s.Trade(big.NewInt(1000), 3000, true, FeeConventionPPMOverThousand)
	require.NoError(t, err)
	require.Equal(t, 0, trade.FeeAmount.Cmp(big.NewInt(3))) // 1000 * 3/1000
	require.True(t, trade.AmountOut.Sign() > 0)
	require.Equal(t, 0, s.Reserve0.Cmp(trade.NewReserve0))
	require.Equal(t, 0, s.Reserve1.Cmp(trade.NewReserve1))
}

func TestTrade_PPMConvention(t *testing.T) {
	s := &State{Reserve0: big.NewInt(1_000_000), Reserve1: big.NewInt(1_000_000)}

	trade, err := s.Trade(big.NewInt(1_000_000), 3000, true, FeeConventionPPM)
	require.NoError(t, err)
	require.Equal(t, 0, trade.FeeAmount.Cmp(big.NewInt(3000)))
}

func TestTrade_DegeneratePool(t *testing.T) {
	s := &State{Reserve0: big.NewInt(0), Reserve1: big.NewInt(1_000_000)}

	_, err := s.Trade(big.NewInt(1000), 3000, true, FeeConventionPPMOverThousand)
	require.ErrorIs(t, err, pool.ErrDegeneratePool)
}

func TestTrade_ZeroAmount(t *testing.T) {
	s := &State{Reserve0: big.NewInt(1_000_000), Reserve1: big.NewInt(1_000_000)}

	_, err := s.Trade(big.NewInt(0), 3000, true, FeeConventionPPMOverThousand)
	require.ErrorIs(t, err, ErrZeroAmount)
}
