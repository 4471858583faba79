// Package hydration implements the HydrationController from spec.md §4.4:
// it wraps the swap engine with a bounded retry loop that fetches missing
// bitmap words and tick liquidity_net values from a datasource.Source on
// demand, grounded on the teacher's retry/backoff idiom (see
// archive/explorer/indexer/internal/rpc.Client.doRequest in the retrieval
// pack) and its concurrent-fan-out-then-wait shape (chains/ethereum.Client.
// processState's sync.WaitGroup fan-out).
package hydration

import (
	"context"
	"math/big"
	"time"

	"github.com/pdrdsnt/evm-pools/datasource"
	"github.com/pdrdsnt/evm-pools/fixedpoint/bitmath"
	"github.com/pdrdsnt/evm-pools/logging"
	"github.com/pdrdsnt/evm-pools/metrics"
	"github.com/pdrdsnt/evm-pools/pool"
	"github.com/pdrdsnt/evm-pools/pool/swapengine"
	"github.com/pdrdsnt/evm-pools/tickindex"
)

// maxResumeAttempts bounds how many times a single swap may fault and
// resume before the controller gives up and returns the last error.
const maxResumeAttempts = 3

// Controller drives a swap to completion, fetching whatever tick data it's
// missing as faults occur.
type Controller struct {
	source  datasource.Source
	ref     datasource.Ref
	logger  logging.Logger
	metrics *metrics.Metrics
}

// New returns a Controller that hydrates pool ref from source.
func New(source datasource.Source, ref datasource.Ref, logger logging.Logger, m *metrics.Metrics) *Controller {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Controller{source: source, ref: ref, logger: logger, metrics: m}
}

// Trade runs a swap against state, transparently hydrating missing ticks
// and bitmap words as the engine faults, up to maxResumeAttempts resumes.
func (c *Controller) Trade(ctx context.Context, state *pool.ConcentratedState, feePPM uint32, amountIn *big.Int, from0 bool) (pool.TradeState, error) {
	ts, err := swapengine.Trade(state, feePPM, amountIn, from0)
	return c.driveToCompletion(ctx, state, ts, err)
}

func (c *Controller) driveToCompletion(ctx context.Context, state *pool.ConcentratedState, ts pool.TradeState, err error) (pool.TradeState, error) {
	for attempt := 0; attempt < maxResumeAttempts; attempt++ {
		if err == nil {
			return ts, nil
		}

		tf, ok := pool.AsTickFault(err)
		if !ok {
			return ts, err
		}

		if c.metrics != nil {
			c.metrics.HydrationRetries.Inc()
			c.metrics.HydrationFaults.WithLabelValues(tf.Kind.String()).Inc()
		}

		if hydrateErr := c.hydrate(ctx, state, tf); hydrateErr != nil {
			return ts, &pool.FetchFault{Err: hydrateErr}
		}

		ts, err = swapengine.Resume(state.Ticks, tf.State)
	}

	return ts, err
}

// hydrate fetches whatever data tf says is missing.
func (c *Controller) hydrate(ctx context.Context, state *pool.ConcentratedState, tf *pool.TickFault) error {
	switch tf.Kind {
	case pool.TickOverflow:
		pos := bitmath.WordIndex(bitmath.NormalizeTick(tf.State.Tick, state.TickSpacing)) + 1
		return c.fetchWordAndInsertTicks(ctx, state, pos)
	case pool.TickUnderflow:
		pos := bitmath.WordIndex(bitmath.NormalizeTick(tf.State.Tick, state.TickSpacing)) - 1
		return c.fetchWordAndInsertTicks(ctx, state, pos)
	case pool.TickUnavailable:
		return c.fetchAndInsertTicks(ctx, state, []int64{tf.State.Step.NextTick}, 2, 10*time.Second)
	default:
		return nil
	}
}

// fetchWordAndInsertTicks fetches the bitmap word at pos, records it, and
// hydrates every tick the word marks as initialized.
func (c *Controller) fetchWordAndInsertTicks(ctx context.Context, state *pool.ConcentratedState, pos int16) error {
	word, err := c.source.TickBitmap(ctx, c.ref, pos)
	if err != nil {
		return err
	}
	if c.metrics != nil {
		c.metrics.HydrationFetches.Inc()
	}

	state.Bitmap.Insert(pos, word)
	ticks := bitmath.ExtractTicksFromBitmap(word, pos, state.TickSpacing)
	if len(ticks) == 0 {
		return nil
	}
	return c.fetchAndInsertTicks(ctx, state, ticks, 3, 10*time.Second)
}

type tickResult struct {
	tick int64
	net  *big.Int
	ok   bool
	err  error
}

// fetchAndInsertTicks fetches liquidityNet for every tick in ticks,
// concurrently but consumed in submission order, fetching the whole
// still-missing set in at most maxTries rounds with a fixed backoff between
// rounds. Whatever is still missing after the budget is exhausted is
// inserted as an unknown tick so a later swap touching it faults again and
// triggers a fresh hydration, rather than being silently dropped.
func (c *Controller) fetchAndInsertTicks(ctx context.Context, state *pool.ConcentratedState, ticks []int64, maxTries int, backoff time.Duration) error {
	pending := ticks

	for round := 0; round < maxTries; round++ {
		results := c.fetchRound(ctx, pending)

		var toInsert []tickindex.Tick
		var retry []int64
		for _, r := range results {
			if r.err != nil || !r.ok {
				retry = append(retry, r.tick)
				continue
			}
			toInsert = append(toInsert, tickindex.Tick{Tick: r.tick, LiquidityNet: r.net, Known: true})
		}
		if len(toInsert) > 0 {
			state.Ticks.InsertMany(toInsert)
		}

		if len(retry) == 0 {
			return nil
		}
		pending = retry

		if round < maxTries-1 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	unknown := make([]tickindex.Tick, 0, len(pending))
	for _, t := range pending {
		unknown = append(unknown, tickindex.Tick{Tick: t, Known: false})
	}
	state.Ticks.InsertMany(unknown)
	return nil
}

// fetchRound issues one concurrent fetch per tick, returning results in the
// same order as the input so callers never need to correlate by tick value.
func (c *Controller) fetchRound(ctx context.Context, ticks []int64) []tickResult {
	results := make([]tickResult, len(ticks))

	done := make(chan struct{}, len(ticks))
	for i, t := range ticks {
		go func(i int, tick int64) {
			defer func() { done <- struct{}{} }()
			net, initialized, err := c.source.TickInfo(ctx, c.ref, tick)
			results[i] = tickResult{tick: tick, net: net, ok: initialized, err: err}
			if err != nil {
				c.logger.Warn("tick fetch failed", "tick", tick, "err", err)
			}
		}(i, t)
	}
	for range ticks {
		<-done
	}
	if c.metrics != nil {
		c.metrics.HydrationFetches.Add(float64(len(ticks)))
	}

	return results
}
