// Package variant implements the unified pool dispatch from spec.md §9's
// redesign note (the source's AnyPool/UniPool): a tagged union over the
// three tradable shapes this simulator supports, so a caller driving a
// swap doesn't need a type switch at every call site. ConcentratedV3 and
// ConcentratedV4 share the same swap/hydration code path (pool/swapengine,
// hydration.Controller) and differ only in which datasource.Source calls
// their variant issues to hydrate or sync.
package variant

import (
	"context"
	"math/big"

	"github.com/pdrdsnt/evm-pools/constantproduct"
	"github.com/pdrdsnt/evm-pools/datasource"
	"github.com/pdrdsnt/evm-pools/hydration"
	"github.com/pdrdsnt/evm-pools/logging"
	"github.com/pdrdsnt/evm-pools/metrics"
	"github.com/pdrdsnt/evm-pools/pool"
)

// Kind discriminates the three pool shapes a Pool can wrap.
type Kind int

const (
	KindConstantProduct Kind = iota
	KindConcentratedV3
	KindConcentratedV4
)

// TradeResult is the common result shape across all three variants, so
// callers driving a generic swap don't need to type-switch on the outcome.
type TradeResult struct {
	AmountIn  *big.Int
	AmountOut *big.Int
	FeeAmount *big.Int
}

// Pool is a tagged union over {ConstantProduct, ConcentratedV3,
// ConcentratedV4}. Exactly one of its state fields is populated, selected
// by Kind.
type Pool struct {
	Kind Kind

	CP *constantproduct.State

	Concentrated       *pool.ConcentratedState
	ConcentratedFeePPM uint32

	ref        datasource.Ref
	source     datasource.Source
	hydrator   *hydration.Controller
	cpFeePPM   uint32
	cpConv     constantproduct.FeeConvention
}

// NewConstantProduct wraps a v2-style pool.
func NewConstantProduct(state *constantproduct.State, feePPM uint32, conv constantproduct.FeeConvention) *Pool {
	return &Pool{Kind: KindConstantProduct, CP: state, cpFeePPM: feePPM, cpConv: conv}
}

// NewConcentrated wraps a v3 or v4 concentrated pool, with kind selecting
// which (they only differ in datasource wiring, not in swap semantics).
func NewConcentrated(kind Kind, state *pool.ConcentratedState, feePPM uint32, ref datasource.Ref, source datasource.Source, logger logging.Logger, m *metrics.Metrics) *Pool {
	return &Pool{
		Kind:               kind,
		Concentrated:        state,
		ConcentratedFeePPM:  feePPM,
		ref:                 ref,
		source:              source,
		hydrator:             hydration.New(source, ref, logger, m),
	}
}

// Trade runs a swap against whichever variant this Pool wraps. For
// concentrated pools it transparently hydrates missing tick data through
// the wrapped hydration.Controller.
func (p *Pool) Trade(ctx context.Context, amountIn *big.Int, from0 bool) (TradeResult, error) {
	switch p.Kind {
	case KindConstantProduct:
		t, err := p.CP.Trade(amountIn, p.cpFeePPM, from0, p.cpConv)
		if err != nil {
			return TradeResult{}, err
		}
		return TradeResult{AmountIn: t.AmountIn, AmountOut: t.AmountOut, FeeAmount: t.FeeAmount}, nil

	case KindConcentratedV3, KindConcentratedV4:
		ts, err := p.hydrator.Trade(ctx, p.Concentrated, p.ConcentratedFeePPM, amountIn, from0)
		if err != nil {
			return TradeResult{}, err
		}
		p.Concentrated.CurrentTick = ts.Tick
		p.Concentrated.SqrtPriceX96 = ts.SqrtPriceX96
		p.Concentrated.Liquidity = ts.Liquidity
		return TradeResult{AmountIn: ts.AmountIn, AmountOut: ts.AmountOut, FeeAmount: ts.FeeAmount}, nil

	default:
		panic("variant: unknown pool kind")
	}
}

// Sync refreshes a concentrated pool's slot0/liquidity from its data
// source; it is a no-op for constant-product pools (sync them by calling
// NewPoolFromAddress again, per the source's V2Pool::sync returning the
// same getReserves call either way).
func (p *Pool) Sync(ctx context.Context) error {
	if p.Kind == KindConstantProduct {
		return nil
	}
	sqrtPriceX96, tick, err := p.source.Slot0(ctx, p.ref)
	if err != nil {
		return err
	}
	liquidity, err := p.source.Liquidity(ctx, p.ref)
	if err != nil {
		return err
	}
	p.Concentrated.SqrtPriceX96 = sqrtPriceX96
	p.Concentrated.CurrentTick = tick
	p.Concentrated.Liquidity = liquidity
	return nil
}
