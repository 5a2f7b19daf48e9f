package model

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Swap is an immutable record of one swap event.
type Swap struct {
	SwapID              string          `json:"id"`
	PoolAddress         string          `json:"pool_address"`
	Caller              string          `json:"caller"`
	TokenIn             string          `json:"token_in"`
	TokenInSym          string          `json:"token_in_sym"`
	TokenOut            string          `json:"token_out"`
	TokenOutSym         string          `json:"token_out_sym"`
	TokenAmountIn       decimal.Decimal `json:"token_amount_in"`
	TokenAmountOut      decimal.Decimal `json:"token_amount_out"`
	PoolTotalSwapVolume decimal.Decimal `json:"pool_total_swap_volume"`
	Timestamp           uint64          `json:"timestamp"`
}

func (s *Swap) Kind() string { return KindSwap }
func (s *Swap) ID() string   { return s.SwapID }

// Transaction is one audit record per processed event, keyed by
// tx-hash ++ log-index and written exactly once.
type Transaction struct {
	TxID        string          `json:"id"`
	Event       string          `json:"event"`
	PoolAddress string          `json:"pool_address"`
	UserAddress string          `json:"user_address"`
	Tx          string          `json:"tx"`
	GasUsed     decimal.Decimal `json:"gas_used"`
	GasPrice    decimal.Decimal `json:"gas_price"`
	Block       uint64          `json:"block"`
	Timestamp   uint64          `json:"timestamp"`
}

func (t *Transaction) Kind() string { return KindTransaction }
func (t *Transaction) ID() string   { return t.TxID }

// EventID builds the canonical tx-hash ++ log-index id.
func EventID(txHash string, logIndex uint64) string {
	return txHash + "-" + strconv.FormatUint(logIndex, 10)
}

// User is an address seen as a liquidity provider or share holder.
type User struct {
	Address string `json:"address"`
}

func (u *User) Kind() string { return KindUser }
func (u *User) ID() string   { return u.Address }

// BalancerID is the fixed id of the singleton aggregate record.
const BalancerID = "1"

// Balancer aggregates pool counts across the whole deployment.
type Balancer struct {
	AggregateID        string `json:"id"`
	PoolCount          int64  `json:"pool_count"`
	FinalizedPoolCount int64  `json:"finalized_pool_count"`
}

func (b *Balancer) Kind() string { return KindBalancer }
func (b *Balancer) ID() string   { return b.AggregateID }
