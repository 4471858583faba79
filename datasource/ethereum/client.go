// Package ethereum implements datasource.Source against a JSON-RPC node,
// grounded on the teacher's chains/ethereum.Client (Dial/Option wiring,
// Logger injection) and streams/jsonrpc/client's use of
// github.com/ethereum/go-ethereum/rpc. Calls are plain eth_call reads; no
// subscriptions are needed since the simulator pulls state on demand.
package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/holiman/uint256"

	"github.com/pdrdsnt/evm-pools/datasource"
	"github.com/pdrdsnt/evm-pools/logging"
)

// Client is a datasource.Source backed by a single JSON-RPC endpoint. It is
// safe for concurrent use; every method is a single stateless eth_call,
// except PairTokens, which issues two.
type Client struct {
	rpc    *rpc.Client
	logger logging.Logger
}

// Option configures a Client, mirroring the teacher's funcOption pattern
// (chains/ethereum.Option).
type Option interface{ apply(*Client) }

type funcOption func(*Client)

func (f funcOption) apply(c *Client) { f(c) }

// WithLogger overrides the Client's logger (default logging.Nop).
func WithLogger(l logging.Logger) Option {
	return funcOption(func(c *Client) { c.logger = l })
}

// Dial connects to an Ethereum-compatible JSON-RPC endpoint at url.
func Dial(ctx context.Context, url string, opts ...Option) (*Client, error) {
	rc, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("ethereum: dial %s: %w", url, err)
	}
	c := &Client{rpc: rc, logger: logging.Nop{}}
	for _, opt := range opts {
		opt.apply(c)
	}
	return c, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() { c.rpc.Close() }

var (
	abiUint256, _  = abi.NewType("uint256", "", nil)
	abiUint160, _  = abi.NewType("uint160", "", nil)
	abiUint128, _  = abi.NewType("uint128", "", nil)
	abiUint112, _  = abi.NewType("uint112", "", nil)
	abiInt128, _   = abi.NewType("int128", "", nil)
	abiInt24, _    = abi.NewType("int24", "", nil)
	abiInt16, _    = abi.NewType("int16", "", nil)
	abiUint32, _   = abi.NewType("uint32", "", nil)
	abiBool, _     = abi.NewType("bool", "", nil)
)

// call packs selector(args...), issues eth_call against pool, and unpacks
// the result into outTypes.
func (c *Client) call(ctx context.Context, pool common.Address, selectorSig string, inArgs abi.Arguments, inVals []any, outArgs abi.Arguments) ([]any, error) {
	selector := methodSelector(selectorSig)

	packed, err := inArgs.Pack(inVals...)
	if err != nil {
		return nil, fmt.Errorf("ethereum: pack %s: %w", selectorSig, err)
	}
	calldata := append(append([]byte{}, selector[:]...), packed...)

	var resultHex hexutil.Bytes
	msg := map[string]any{
		"to":   pool,
		"data": hexutil.Bytes(calldata),
	}
	if err := c.rpc.CallContext(ctx, &resultHex, "eth_call", msg, "latest"); err != nil {
		return nil, fmt.Errorf("ethereum: eth_call %s: %w", selectorSig, err)
	}

	out, err := outArgs.Unpack(resultHex)
	if err != nil {
		return nil, fmt.Errorf("ethereum: unpack %s: %w", selectorSig, err)
	}
	return out, nil
}

func methodSelector(sig string) [4]byte {
	hash := crypto.Keccak256([]byte(strings.TrimSpace(sig)))
	var sel [4]byte
	copy(sel[:], hash[:4])
	return sel
}

// Slot0 calls slot0() on a v3 pool (sqrtPriceX96 and tick are its first two
// return values; later fields are ignored).
func (c *Client) Slot0(ctx context.Context, pool datasource.Ref) (*big.Int, int64, error) {
	out, err := c.call(ctx, toAddress(pool), "slot0()", nil, nil, abi.Arguments{
		{Type: abiUint160}, {Type: abiInt24}, {Type: abiUint16()}, {Type: abiUint16()}, {Type: abiUint16()}, {Type: abiUint32}, {Type: abiBool},
	})
	if err != nil {
		return nil, 0, err
	}
	sqrtPriceX96 := out[0].(*big.Int)
	tick := int64(out[1].(*big.Int).Int64())
	return sqrtPriceX96, tick, nil
}

// Liquidity calls liquidity() on a v3 pool.
func (c *Client) Liquidity(ctx context.Context, pool datasource.Ref) (*big.Int, error) {
	out, err := c.call(ctx, toAddress(pool), "liquidity()", nil, nil, abi.Arguments{{Type: abiUint128}})
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

// TickBitmap calls tickBitmap(int16).
func (c *Client) TickBitmap(ctx context.Context, pool datasource.Ref, wordPos int16) (*uint256.Int, error) {
	out, err := c.call(ctx, toAddress(pool), "tickBitmap(int16)",
		abi.Arguments{{Type: abiInt16}}, []any{wordPos},
		abi.Arguments{{Type: abiUint256}})
	if err != nil {
		return nil, err
	}
	word, overflow := uint256.FromBig(out[0].(*big.Int))
	if overflow {
		return nil, fmt.Errorf("ethereum: tickBitmap word overflows uint256")
	}
	return word, nil
}

// TickInfo calls ticks(int24) and reports the pool's liquidityNet and
// initialized flag for tick.
func (c *Client) TickInfo(ctx context.Context, pool datasource.Ref, tick int64) (*big.Int, bool, error) {
	out, err := c.call(ctx, toAddress(pool), "ticks(int24)",
		abi.Arguments{{Type: abiInt24}}, []any{big.NewInt(tick)},
		abi.Arguments{
			{Type: abiUint128}, // liquidityGross
			{Type: abiInt128},  // liquidityNet
			{Type: abiUint256}, // feeGrowthOutside0X128
			{Type: abiUint256}, // feeGrowthOutside1X128
			{Type: abiInt64()},
			{Type: abiUint32},
			{Type: abiUint32},
			{Type: abiBool}, // initialized
		})
	if err != nil {
		return nil, false, err
	}
	liquidityNet := out[1].(*big.Int)
	initialized := out[7].(bool)
	return liquidityNet, initialized, nil
}

// Reserves calls getReserves() on a v2 pair.
func (c *Client) Reserves(ctx context.Context, pool datasource.Ref) (*big.Int, *big.Int, error) {
	out, err := c.call(ctx, toAddress(pool), "getReserves()", nil, nil, abi.Arguments{
		{Type: abiUint112}, {Type: abiUint112}, {Type: abiUint32},
	})
	if err != nil {
		return nil, nil, err
	}
	return out[0].(*big.Int), out[1].(*big.Int), nil
}

// PairTokens calls token0() and token1() on a v2 pair (or v3 pool).
func (c *Client) PairTokens(ctx context.Context, pool datasource.Ref) (common.Address, common.Address, error) {
	addrT, _ := abi.NewType("address", "", nil)

	out0, err := c.call(ctx, toAddress(pool), "token0()", nil, nil, abi.Arguments{{Type: addrT}})
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	out1, err := c.call(ctx, toAddress(pool), "token1()", nil, nil, abi.Arguments{{Type: addrT}})
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	return out0[0].(common.Address), out1[0].(common.Address), nil
}

func toAddress(ref datasource.Ref) common.Address {
	return common.BytesToAddress(ref.Bytes()[12:])
}

func abiUint16() abi.Type {
	t, _ := abi.NewType("uint16", "", nil)
	return t
}

func abiInt64() abi.Type {
	t, _ := abi.NewType("int64", "", nil)
	return t
}

