package project

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"poolScope/internal/model"
)

// refreshPoolLiquidity recomputes global token prices and the pool's
// aggregate liquidity after any balance or weight change. Two phases:
//
//  1. If the pool holds the reference asset, it derives its own implied
//     total value from the reference leg and competes for price authority
//     over each member token. Higher observed liquidity wins; the pool
//     already backing a token's quote refreshes it at any liquidity.
//  2. The pool's liquidity is inferred from the highest-weight member with
//     a known global price, whether or not phase 1 ran. First-found wins
//     on equal weights.
func (p *Projector) refreshPoolLiquidity(poolID string) error {
	pool, err := p.loadPool(poolID)
	if err != nil {
		return err
	}
	if len(pool.TokensList) == 0 || !pool.PublicSwap {
		return nil
	}

	if pool.HasToken(p.net.ReferenceAsset) {
		if err := p.refreshTokenPrices(pool); err != nil {
			return err
		}
	}

	anchorWeight := decimal.Zero
	liquidity := decimal.Zero
	anchored := false
	for _, token := range pool.TokensList {
		entity, ok := p.store.Load(model.KindTokenPrice, token)
		if !ok {
			continue
		}
		tokenPrice := entity.(*model.TokenPrice)

		poolToken, err := p.loadPoolToken(model.PoolTokenID(pool.Address, token))
		if err != nil {
			return err
		}
		if poolToken.DenormWeight.GreaterThan(anchorWeight) {
			anchorWeight = poolToken.DenormWeight
			liquidity = tokenPrice.Price.Mul(poolToken.Balance).Div(poolToken.DenormWeight).Mul(pool.TotalWeight)
			anchored = true
		}
	}

	// Without any priced member the prior figure stands.
	if anchored {
		pool.Liquidity = liquidity
		p.store.Save(pool)
	}
	return nil
}

// refreshTokenPrices derives the pool's implied total value from its
// reference-asset leg and overwrites every member token's global price where
// this pool has authority.
func (p *Projector) refreshTokenPrices(pool *model.Pool) error {
	reference, err := p.loadPoolToken(model.PoolTokenID(pool.Address, p.net.ReferenceAsset))
	if err != nil {
		return err
	}
	if reference.DenormWeight.IsZero() {
		p.logger.Debug("reference leg has zero weight, skipping price refresh",
			zap.String("pool", pool.Address))
		return nil
	}

	// Value per unit of weight from the reference leg, extrapolated to the
	// whole pool.
	poolLiquidity := reference.Balance.Div(reference.DenormWeight).Mul(pool.TotalWeight)

	for _, token := range pool.TokensList {
		var tokenPrice *model.TokenPrice
		if entity, ok := p.store.Load(model.KindTokenPrice, token); ok {
			tokenPrice = entity.(*model.TokenPrice)
		} else {
			tokenPrice = &model.TokenPrice{Token: token}
		}

		poolTokenID := model.PoolTokenID(pool.Address, token)
		poolToken, err := p.loadPoolToken(poolTokenID)
		if err != nil {
			return err
		}

		if tokenPrice.PoolTokenID == poolTokenID || poolLiquidity.GreaterThan(tokenPrice.PoolLiquidity) {
			price := decimal.Zero
			if poolToken.Balance.IsPositive() {
				price = poolLiquidity.Div(pool.TotalWeight).Mul(poolToken.DenormWeight).Div(poolToken.Balance)
			}
			tokenPrice.Price = price
			tokenPrice.Symbol = poolToken.Symbol
			tokenPrice.PoolLiquidity = poolLiquidity
			tokenPrice.PoolTokenID = poolTokenID
			p.store.Save(tokenPrice)
		}
	}
	return nil
}
