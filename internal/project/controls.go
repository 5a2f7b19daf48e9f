package project

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"poolScope/internal/amount"
	"poolScope/internal/model"
)

func (p *Projector) applyControlCall(ctx context.Context, event *model.PoolEvent, data model.ControlCallData) error {
	switch data.Op {
	case model.OpSetSwapFee:
		return p.applySetSwapFee(event, data)
	case model.OpSetController:
		return p.applySetController(event, data)
	case model.OpSetPublicSwap:
		return p.applySetPublicSwap(event, data)
	case model.OpFinalize:
		return p.applyFinalize(event, data)
	case model.OpBind, model.OpRebind:
		return p.applyRebind(ctx, event, data)
	case model.OpUnbind:
		return p.applyUnbind(event, data)
	case model.OpGulp:
		return p.applyGulp(ctx, event, data)
	default:
		return payloadErr(data.Op, len(data.Payload))
	}
}

func (p *Projector) applySetSwapFee(event *model.PoolEvent, data model.ControlCallData) error {
	pool, err := p.loadPool(event.Address)
	if err != nil {
		return err
	}
	fee, err := feeFromPayload(data.Payload)
	if err != nil {
		return err
	}
	pool.SwapFee = fee
	p.store.Save(pool)
	return nil
}

func (p *Projector) applySetController(event *model.PoolEvent, data model.ControlCallData) error {
	pool, err := p.loadPool(event.Address)
	if err != nil {
		return err
	}
	controller, err := addressFromPayload(model.OpSetController, data.Payload)
	if err != nil {
		return err
	}
	pool.Controller = controller
	p.store.Save(pool)
	return nil
}

func (p *Projector) applySetPublicSwap(event *model.PoolEvent, data model.ControlCallData) error {
	pool, err := p.loadPool(event.Address)
	if err != nil {
		return err
	}
	public, err := boolFromPayload(data.Payload)
	if err != nil {
		return err
	}
	pool.PublicSwap = public
	p.store.Save(pool)
	return nil
}

func (p *Projector) applyFinalize(event *model.PoolEvent, data model.ControlCallData) error {
	if err := checkFinalizePayload(data.Payload); err != nil {
		return err
	}
	pool, err := p.loadPool(event.Address)
	if err != nil {
		return err
	}
	pool.Finalized = true
	pool.PublicSwap = true
	p.store.Save(pool)

	p.ensureUser(data.Caller)

	aggregate := p.loadBalancer()
	aggregate.FinalizedPoolCount++
	p.store.Save(aggregate)

	return nil
}

// applyRebind binds a new token or resyncs an existing one. Balance and
// weight are absolute values from the call, not deltas; the total weight is
// adjusted by the signed difference so unrelated members stay untouched.
func (p *Projector) applyRebind(ctx context.Context, event *model.PoolEvent, data model.ControlCallData) error {
	pool, err := p.loadPool(event.Address)
	if err != nil {
		return err
	}

	token, balanceHex, weightHex, err := rebindArgs(data.Payload)
	if err != nil {
		return err
	}
	weight, err := amount.HexFixed(weightHex, 18)
	if err != nil {
		return err
	}

	poolTokenID := model.PoolTokenID(pool.Address, token)
	poolToken, existed := p.loadExistingPoolToken(poolTokenID)
	if !existed {
		meta := p.resolver.ResolveMeta(ctx, common.HexToAddress(token))
		poolToken = &model.PoolToken{
			PoolTokenID: poolTokenID,
			PoolID:      pool.Address,
			Address:     token,
			Symbol:      meta.Symbol,
			Name:        meta.Name,
			Decimals:    meta.Decimals,
		}
	}

	// Decode everything before mutating the stored pool or pool token, so a
	// rejected payload leaves no partial update behind.
	balance, err := amount.HexFixed(balanceHex, int32(poolToken.Decimals))
	if err != nil {
		return err
	}

	pool.AddToken(token)
	if existed {
		pool.TotalWeight = pool.TotalWeight.Add(weight.Sub(poolToken.DenormWeight))
	} else {
		pool.TotalWeight = pool.TotalWeight.Add(weight)
	}
	poolToken.Balance = balance
	poolToken.DenormWeight = weight
	p.store.Save(poolToken)
	p.store.Save(pool)

	return p.refreshPoolLiquidity(pool.Address)
}

func (p *Projector) applyUnbind(event *model.PoolEvent, data model.ControlCallData) error {
	pool, err := p.loadPool(event.Address)
	if err != nil {
		return err
	}
	token, err := addressFromPayload(model.OpUnbind, data.Payload)
	if err != nil {
		return err
	}

	poolTokenID := model.PoolTokenID(pool.Address, token)
	poolToken, err := p.loadPoolToken(poolTokenID)
	if err != nil {
		return err
	}

	pool.RemoveToken(token)
	pool.TotalWeight = pool.TotalWeight.Sub(poolToken.DenormWeight)
	p.store.Save(pool)
	p.store.Remove(model.KindPoolToken, poolTokenID)

	return nil
}

// applyGulp resyncs a member balance from live contract state. A reverting
// balance call keeps the stored balance.
func (p *Projector) applyGulp(ctx context.Context, event *model.PoolEvent, data model.ControlCallData) error {
	pool, err := p.loadPool(event.Address)
	if err != nil {
		return err
	}
	token, err := addressFromPayload(model.OpGulp, data.Payload)
	if err != nil {
		return err
	}

	poolTokenID := model.PoolTokenID(pool.Address, token)
	poolToken, err := p.loadPoolToken(poolTokenID)
	if err != nil {
		return err
	}

	balance, err := p.resolver.BalanceOf(ctx, common.HexToAddress(token), common.HexToAddress(pool.Address))
	if err != nil {
		p.logger.Warn("gulp balance call reverted, keeping stored balance",
			zap.String("pool", pool.Address), zap.String("token", token), zap.Error(err))
	} else {
		poolToken.Balance = amount.IntegerFixed(balance, int32(poolToken.Decimals))
	}
	p.store.Save(poolToken)

	return p.refreshPoolLiquidity(pool.Address)
}

func (p *Projector) loadExistingPoolToken(id string) (*model.PoolToken, bool) {
	entity, ok := p.store.Load(model.KindPoolToken, id)
	if !ok {
		return nil, false
	}
	return entity.(*model.PoolToken), true
}
