package model

import "github.com/shopspring/decimal"

// Pool is the projected state of one weighted pool contract.
type Pool struct {
	Address         string          `json:"address"`
	Controller      string          `json:"controller"`
	PublicSwap      bool            `json:"public_swap"`
	Finalized       bool            `json:"finalized"`
	SwapFee         decimal.Decimal `json:"swap_fee"`
	TotalWeight     decimal.Decimal `json:"total_weight"`
	TotalShares     decimal.Decimal `json:"total_shares"`
	TotalSwapVolume decimal.Decimal `json:"total_swap_volume"`
	Liquidity       decimal.Decimal `json:"liquidity"`
	TokensList      []string        `json:"tokens_list"`
	SwapsCount      uint64          `json:"swaps_count"`
	JoinsCount      uint64          `json:"joins_count"`
	ExitsCount      uint64          `json:"exits_count"`
	FirstSeenBlock  uint64          `json:"first_seen_block"`
}

func (p *Pool) Kind() string { return KindPool }
func (p *Pool) ID() string   { return p.Address }

// HasToken reports whether the token address is in the membership list.
func (p *Pool) HasToken(token string) bool {
	for _, member := range p.TokensList {
		if member == token {
			return true
		}
	}
	return false
}

// AddToken appends the token to the membership list if absent.
func (p *Pool) AddToken(token string) {
	if !p.HasToken(token) {
		p.TokensList = append(p.TokensList, token)
	}
}

// RemoveToken deletes the token from the membership list, preserving order.
func (p *Pool) RemoveToken(token string) {
	for i, member := range p.TokensList {
		if member == token {
			p.TokensList = append(p.TokensList[:i], p.TokensList[i+1:]...)
			return
		}
	}
}

// PoolToken is one (pool, member token) pair, owned by its pool.
type PoolToken struct {
	PoolTokenID  string          `json:"id"`
	PoolID       string          `json:"pool_id"`
	Address      string          `json:"address"`
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	Decimals     uint8           `json:"decimals"`
	Balance      decimal.Decimal `json:"balance"`
	DenormWeight decimal.Decimal `json:"denorm_weight"`
}

func (t *PoolToken) Kind() string { return KindPoolToken }
func (t *PoolToken) ID() string   { return t.PoolTokenID }

// PoolTokenID builds the canonical pool-token id.
func PoolTokenID(poolID, token string) string {
	return poolID + "-" + token
}

// PoolShare is one (pool, holder) share balance at fixed 18-decimal scale.
type PoolShare struct {
	ShareID     string          `json:"id"`
	PoolID      string          `json:"pool_id"`
	UserAddress string          `json:"user_address"`
	Balance     decimal.Decimal `json:"balance"`
}

func (s *PoolShare) Kind() string { return KindPoolShare }
func (s *PoolShare) ID() string   { return s.ShareID }

// PoolShareID builds the canonical pool-share id.
func PoolShareID(poolID, holder string) string {
	return poolID + "-" + holder
}
