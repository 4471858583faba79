// Command poolsim is a test harness for the off-chain swap simulator: it
// dials an RPC endpoint, constructs whichever pool variant the config
// names, runs a single simulated trade, and prints the result. Out of
// scope for correctness per spec.md §6 ("CLI / environment: out of
// scope"), but every ambient package still needs a caller, matching the
// teacher's cmd/client and cmd/console entrypoints (flag + slog.JSONHandler
// + signal.NotifyContext).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pdrdsnt/evm-pools/bitmapindex"
	"github.com/pdrdsnt/evm-pools/config"
	"github.com/pdrdsnt/evm-pools/constantproduct"
	"github.com/pdrdsnt/evm-pools/datasource"
	"github.com/pdrdsnt/evm-pools/datasource/ethereum"
	"github.com/pdrdsnt/evm-pools/metrics"
	"github.com/pdrdsnt/evm-pools/pool"
	"github.com/pdrdsnt/evm-pools/tickindex"
	"github.com/pdrdsnt/evm-pools/variant"
)

func main() {
	configPath := flag.String("config", "poolsim.yaml", "path to the harness config file")
	amountInStr := flag.String("amount-in", "1000000000000000000", "amount of the input token to trade")
	from0 := flag.Bool("from0", true, "trade token0 for token1 (false trades token1 for token0)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(logger, *configPath, *amountInStr, *from0); err != nil {
		logger.Error("poolsim failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, configPath, amountInStr string, from0 bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	amountIn, ok := new(big.Int).SetString(amountInStr, 10)
	if !ok {
		return fmt.Errorf("invalid -amount-in %q", amountInStr)
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	source, err := ethereum.Dial(ctx, cfg.RPCURL, ethereum.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("dial rpc: %w", err)
	}
	defer source.Close()

	p, err := buildPool(ctx, cfg, source, logger, m)
	if err != nil {
		return fmt.Errorf("build pool: %w", err)
	}

	result, err := p.Trade(ctx, amountIn, from0)
	if err != nil {
		return fmt.Errorf("trade: %w", err)
	}

	logger.Info("trade complete",
		"amount_in", result.AmountIn.String(),
		"amount_out", result.AmountOut.String(),
		"fee_amount", result.FeeAmount.String(),
	)
	return nil
}

func buildPool(ctx context.Context, cfg *config.Config, source datasource.Source, logger *slog.Logger, m *metrics.Metrics) (*variant.Pool, error) {
	addr := common.HexToAddress(cfg.PoolAddress)

	switch cfg.Variant {
	case "v2":
		_, state, err := constantproduct.NewPoolFromAddress(ctx, source, addr, &cfg.FeePPM)
		if err != nil {
			return nil, err
		}
		return variant.NewConstantProduct(state, cfg.FeePPM, constantproduct.FeeConventionPPMOverThousand), nil

	case "v3", "v4":
		ref := datasource.RefFromAddress(addr)
		sqrtPriceX96, tick, err := source.Slot0(ctx, ref)
		if err != nil {
			return nil, err
		}
		liquidity, err := source.Liquidity(ctx, ref)
		if err != nil {
			return nil, err
		}

		state := &pool.ConcentratedState{
			CurrentTick:  tick,
			SqrtPriceX96: sqrtPriceX96,
			Liquidity:    liquidity,
			Ticks:        tickindex.New(),
			Bitmap:       bitmapindex.New(),
			TickSpacing:  int64(cfg.TickSpacing),
		}

		kind := variant.KindConcentratedV3
		if cfg.Variant == "v4" {
			kind = variant.KindConcentratedV4
		}
		return variant.NewConcentrated(kind, state, cfg.FeePPM, ref, source, logger, m), nil

	default:
		return nil, fmt.Errorf("unknown variant %q", cfg.Variant)
	}
}
