package dex

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const poolABIJSON = `[
  {
    "anonymous": true,
    "inputs": [
      {"indexed": true, "internalType": "bytes4", "name": "sig", "type": "bytes4"},
      {"indexed": true, "internalType": "address", "name": "caller", "type": "address"},
      {"indexed": false, "internalType": "bytes", "name": "data", "type": "bytes"}
    ],
    "name": "LOG_CALL",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "caller", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "tokenIn", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "tokenAmountIn", "type": "uint256"}
    ],
    "name": "LOG_JOIN",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "caller", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "tokenOut", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "tokenAmountOut", "type": "uint256"}
    ],
    "name": "LOG_EXIT",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "caller", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "tokenIn", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "tokenOut", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "tokenAmountIn", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "tokenAmountOut", "type": "uint256"}
    ],
    "name": "LOG_SWAP",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "src", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "dst", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "amt", "type": "uint256"}
    ],
    "name": "Transfer",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "caller", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "pool", "type": "address"}
    ],
    "name": "LOG_NEW_POOL",
    "type": "event"
  }
]`

var (
	poolABI     abi.ABI
	poolABIOnce sync.Once
	poolABIErr  error
)

// PoolABI returns the parsed weighted-pool ABI (pool events, share-token
// Transfer, and the factory's LOG_NEW_POOL).
func PoolABI() (abi.ABI, error) {
	poolABIOnce.Do(func() {
		poolABI, poolABIErr = abi.JSON(strings.NewReader(poolABIJSON))
	})
	return poolABI, poolABIErr
}
