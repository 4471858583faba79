// Package poolid computes the v4 pool identifier from spec.md §6:
// poolId = keccak256(abi.encode(PoolKey{currency0, currency1, fee,
// tickSpacing, hooks})), fields serialized in that order using the
// canonical ABI struct encoding (go-ethereum's accounts/abi + crypto, the
// same library pair the teacher uses for on-chain identifiers).
package poolid

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/pdrdsnt/evm-pools/pool"
)

var poolKeyArgs = mustPoolKeyArgs()

func mustPoolKeyArgs() abi.Arguments {
	addrT, _ := abi.NewType("address", "", nil)
	uint24T, _ := abi.NewType("uint24", "", nil)
	int24T, _ := abi.NewType("int24", "", nil)

	return abi.Arguments{
		{Type: addrT},
		{Type: addrT},
		{Type: uint24T},
		{Type: int24T},
		{Type: addrT},
	}
}

// Compute returns the v4 poolId for key.
func Compute(key pool.Key) (common.Hash, error) {
	packed, err := poolKeyArgs.Pack(
		key.Currency0,
		key.Currency1,
		big.NewInt(int64(key.FeePPM)),
		big.NewInt(int64(key.TickSpacing)),
		key.Hooks,
	)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(packed), nil
}
