// Package constantproduct implements the Uniswap v2 style xy=k variant from
// spec.md §4.5, ported from original_source/src/v2_base/mod.rs (trade) and
// original_source/src/v2_pool.rs (create_v2_from_address).
package constantproduct

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/pdrdsnt/evm-pools/datasource"
	"github.com/pdrdsnt/evm-pools/pool"
)

// FeeConvention picks how fee (parts-per-million) is turned into a
// fraction of amount_in retained by the pool. The Rust source's literal
// `fee/1000` behavior is preserved as a first-class, explicitly-selected
// option rather than silently "fixed" — see DESIGN.md's Open Question #1.
type FeeConvention int

const (
	// FeeConventionPPMOverThousand reproduces the source exactly:
	// sfee = fee/1000 (integer division), amount_in_net = amount_in *
	// (1000-sfee)/1000. With fee expressed in ppm (e.g. 3000 for 0.3%)
	// this makes sfee the fee in tenths of a percent.
	FeeConventionPPMOverThousand FeeConvention = iota
	// FeeConventionPPM is the standard convention: amount_in_net =
	// amount_in * (1_000_000-fee)/1_000_000, fee already in ppm.
	FeeConventionPPM
)

var (
	ErrZeroAmount = errors.New("constantproduct: zero amount_in")
)

// State is the mutable reserve state of a constant-product pool.
type State struct {
	Reserve0 *big.Int
	Reserve1 *big.Int
}

// Key identifies a v2 pool.
type Key struct {
	Address common.Address
	Token0  common.Address
	Token1  common.Address
	FeePPM  uint32
}

// Trade is the result of a successful xy=k swap.
type Trade struct {
	From0        bool
	AmountIn     *big.Int
	AmountOut    *big.Int
	FeeAmount    *big.Int
	NewReserve0  *big.Int
	NewReserve1  *big.Int
}

// Trade runs the xy=k formula described in spec.md §4.5:
//
//	amount_in_net = amount_in * (1000 - fee/1000) / 1000      [FeeConventionPPMOverThousand]
//	amount_out    = (amount_in_net * reserve_out) / (reserve_in + amount_in_net)
//
// Returns pool.ErrDegeneratePool if either reserve is zero.
func (s *State) Trade(amountIn *big.Int, feePPM uint32, from0 bool, convention FeeConvention) (*Trade, error) {
	if amountIn.Sign() == 0 {
		return nil, ErrZeroAmount
	}

	reserveIn, reserveOut := s.Reserve0, s.Reserve1
	if !from0 {
		reserveIn, reserveOut = s.Reserve1, s.Reserve0
	}
	if reserveIn.Sign() == 0 || reserveOut.Sign() == 0 {
		return nil, pool.ErrDegeneratePool
	}

	var amountInNet *big.Int
	switch convention {
	case FeeConventionPPMOverThousand:
		sfee := feePPM / 1000
		amountInNet = new(big.Int).Mul(amountIn, big.NewInt(int64(1000-sfee)))
		amountInNet.Div(amountInNet, big.NewInt(1000))
	default:
		amountInNet = new(big.Int).Mul(amountIn, big.NewInt(int64(1_000_000-feePPM)))
		amountInNet.Div(amountInNet, big.NewInt(1_000_000))
	}

	feeAmount := new(big.Int).Sub(amountIn, amountInNet)

	numerator := new(big.Int).Mul(amountInNet, reserveOut)
	denominator := new(big.Int).Add(reserveIn, amountInNet)
	amountOut := new(big.Int).Div(numerator, denominator)

	newReserveIn := new(big.Int).Add(reserveIn, amountInNet)
	newReserveOut := new(big.Int).Sub(reserveOut, amountOut)

	newReserve0, newReserve1 := newReserveIn, newReserveOut
	if !from0 {
		newReserve0, newReserve1 = newReserveOut, newReserveIn
	}
	s.Reserve0, s.Reserve1 = newReserve0, newReserve1

	return &Trade{
		From0:       from0,
		AmountIn:    new(big.Int).Set(amountIn),
		AmountOut:   amountOut,
		FeeAmount:   feeAmount,
		NewReserve0: newReserve0,
		NewReserve1: newReserve1,
	}, nil
}

// defaultFeePPM is the fee applied when NewPoolFromAddress isn't told one,
// matching create_v2_from_address's hardcoded 3000 default.
const defaultFeePPM = 3000

// NewPoolFromAddress discovers a v2 pool's token0/token1 and current
// reserves from source, defaulting its fee to 3000 ppm when feeOverride is
// nil (the source's factory-fee-guessing workaround).
func NewPoolFromAddress(ctx context.Context, source datasource.Source, addr common.Address, feeOverride *uint32) (Key, *State, error) {
	key := Key{Address: addr, FeePPM: defaultFeePPM}
	if feeOverride != nil {
		key.FeePPM = *feeOverride
	}

	ref := datasource.RefFromAddress(addr)

	if token0, token1, err := source.PairTokens(ctx, ref); err == nil {
		key.Token0, key.Token1 = token0, token1
	}

	reserve0, reserve1, err := source.Reserves(ctx, ref)
	if err != nil {
		return Key{}, nil, err
	}

	return key, &State{Reserve0: reserve0, Reserve1: reserve1}, nil
}
