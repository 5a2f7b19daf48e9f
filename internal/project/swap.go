package project

import (
	"poolScope/internal/amount"
	"poolScope/internal/model"
)

// applySwap applies both legs as running-total adjustments (unlike rebind
// and gulp, which resync to absolute values), refreshes liquidity, and
// records the swap with the pool's post-swap cumulative volume.
func (p *Projector) applySwap(event *model.PoolEvent, data model.SwapData) error {
	tokenIn, err := p.loadPoolToken(model.PoolTokenID(event.Address, data.TokenIn))
	if err != nil {
		return err
	}
	amountIn := amount.Rescale(data.AmountIn, int32(tokenIn.Decimals))
	tokenIn.Balance = tokenIn.Balance.Add(amountIn)
	p.store.Save(tokenIn)

	tokenOut, err := p.loadPoolToken(model.PoolTokenID(event.Address, data.TokenOut))
	if err != nil {
		return err
	}
	amountOut := amount.Rescale(data.AmountOut, int32(tokenOut.Decimals))
	tokenOut.Balance = tokenOut.Balance.Sub(amountOut)
	p.store.Save(tokenOut)

	if err := p.refreshPoolLiquidity(event.Address); err != nil {
		return err
	}

	pool, err := p.loadPool(event.Address)
	if err != nil {
		return err
	}

	totalVolume := pool.TotalSwapVolume
	if entity, ok := p.store.Load(model.KindTokenPrice, data.TokenIn); ok {
		tokenPrice := entity.(*model.TokenPrice)
		totalVolume = totalVolume.Add(tokenPrice.Price.Mul(amountIn))
		pool.TotalSwapVolume = totalVolume
	}
	pool.SwapsCount++
	p.store.Save(pool)

	p.store.Save(&model.Swap{
		SwapID:              model.EventID(event.TxHash, event.LogIndex),
		PoolAddress:         event.Address,
		Caller:              data.Caller,
		TokenIn:             data.TokenIn,
		TokenInSym:          tokenIn.Symbol,
		TokenOut:            data.TokenOut,
		TokenOutSym:         tokenOut.Symbol,
		TokenAmountIn:       amountIn,
		TokenAmountOut:      amountOut,
		PoolTotalSwapVolume: totalVolume,
		Timestamp:           event.Timestamp,
	})

	return nil
}

func (p *Projector) applyJoin(event *model.PoolEvent, data model.JoinData) error {
	pool, err := p.loadPool(event.Address)
	if err != nil {
		return err
	}
	pool.JoinsCount++
	p.store.Save(pool)

	poolToken, err := p.loadPoolToken(model.PoolTokenID(event.Address, data.TokenIn))
	if err != nil {
		return err
	}
	deposited := amount.Rescale(data.AmountIn, int32(poolToken.Decimals))
	poolToken.Balance = poolToken.Balance.Add(deposited)
	p.store.Save(poolToken)

	return p.refreshPoolLiquidity(event.Address)
}

func (p *Projector) applyExit(event *model.PoolEvent, data model.ExitData) error {
	pool, err := p.loadPool(event.Address)
	if err != nil {
		return err
	}
	pool.ExitsCount++
	p.store.Save(pool)

	poolToken, err := p.loadPoolToken(model.PoolTokenID(event.Address, data.TokenOut))
	if err != nil {
		return err
	}
	withdrawn := amount.Rescale(data.AmountOut, int32(poolToken.Decimals))
	poolToken.Balance = poolToken.Balance.Sub(withdrawn)
	p.store.Save(poolToken)

	return p.refreshPoolLiquidity(event.Address)
}
