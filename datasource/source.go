// Package datasource defines the read-only chain contract the simulator
// consumes, per spec.md §6's external-interfaces table: slot0/getSlot0,
// liquidity/getLiquidity, tickBitmap/getTickBitmap, ticks/getTickInfo, and
// getReserves. One concrete implementation lives in datasource/ethereum.
package datasource

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Ref identifies a pool to the data source: a v3 pair address zero-extended
// into a Hash, or a v4 poolId (keccak256 of its PoolKey encoding) directly.
// See poolid.Compute for the v4 case.
type Ref = common.Hash

// RefFromAddress zero-extends a v3 pool/pair address into a Ref.
func RefFromAddress(addr common.Address) Ref {
	return common.BytesToHash(addr.Bytes())
}

// Source is the read-only chain contract the simulator hydrates a pool
// from. Every method issues exactly one external call, except PairTokens,
// which issues two (token0 and token1) in datasource/ethereum (and, for
// TickBitmap/TickInfo under a batching implementation, one call per batch); retry and
// backoff are the caller's responsibility (see package hydration).
type Source interface {
	// Slot0 returns the pool's current sqrt price (Q64.96) and tick.
	Slot0(ctx context.Context, pool Ref) (sqrtPriceX96 *big.Int, tick int64, err error)
	// Liquidity returns the pool's current in-range liquidity.
	Liquidity(ctx context.Context, pool Ref) (*big.Int, error)
	// TickBitmap returns the 256-bit initialized-tick word at wordPos.
	TickBitmap(ctx context.Context, pool Ref, wordPos int16) (*uint256.Int, error)
	// TickInfo returns the liquidity_net of tick and whether it is
	// initialized at all (an uninitialized tick has no meaningful net).
	TickInfo(ctx context.Context, pool Ref, tick int64) (liquidityNet *big.Int, initialized bool, err error)
	// Reserves returns the constant-product pair's token0/token1 reserves.
	Reserves(ctx context.Context, pool Ref) (reserve0, reserve1 *big.Int, err error)
	// PairTokens returns a pair or pool's token0/token1 addresses.
	PairTokens(ctx context.Context, pool Ref) (token0, token1 common.Address, err error)
}
