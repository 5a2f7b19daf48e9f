package model

import "github.com/shopspring/decimal"

// TokenPrice is the best known reference-asset price for a token, global
// across pools. The pool-token pair backing the quote is kept so the same
// pool may refresh its own quote.
type TokenPrice struct {
	Token         string          `json:"token"`
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	PoolLiquidity decimal.Decimal `json:"pool_liquidity"`
	PoolTokenID   string          `json:"pool_token_id"`
}

func (t *TokenPrice) Kind() string { return KindTokenPrice }
func (t *TokenPrice) ID() string   { return t.Token }
