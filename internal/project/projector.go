// Package project maintains the materialized pool views: it applies decoded
// pool events in stream order to the entity store and keeps prices and
// liquidity figures current.
package project

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"poolScope/internal/model"
	"poolScope/internal/store"
)

const zeroAddress = "0x0000000000000000000000000000000000000000"

// Share tokens are minted at a fixed 18-decimal scale.
const shareDecimals = 18

// ErrEntityAbsent marks a load that the event order guarantees should have
// succeeded. It indicates a missing or out-of-order prior event and is fatal
// for the current event.
var ErrEntityAbsent = fmt.Errorf("entity absent")

// TokenResolver is the fallible read access to token contract state.
type TokenResolver interface {
	ResolveMeta(ctx context.Context, token common.Address) model.TokenMeta
	BalanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error)
}

// Projector applies pool events to the entity store, one event at a time.
// All aggregate state (the balancer singleton, the global token price table)
// lives in the store; the projector itself holds no mutable state.
type Projector struct {
	store    store.Store
	resolver TokenResolver
	net      NetworkConfig
	logger   *zap.Logger
}

func NewProjector(entityStore store.Store, resolver TokenResolver, net NetworkConfig, logger *zap.Logger) *Projector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Projector{
		store:    entityStore,
		resolver: resolver,
		net:      net,
		logger:   logger,
	}
}

// Apply processes one event to completion: store mutations, liquidity
// refresh, and the audit record. Events whose audit record already exists
// are skipped, so replays never double-count.
func (p *Projector) Apply(ctx context.Context, event *model.PoolEvent) error {
	if event == nil {
		return fmt.Errorf("nil event")
	}

	eventID := model.EventID(event.TxHash, event.LogIndex)
	if _, ok := p.store.Load(model.KindTransaction, eventID); ok {
		p.logger.Debug("event already applied", zap.String("event_id", eventID))
		return nil
	}

	var (
		auditName string
		err       error
	)
	switch data := event.Data.(type) {
	case model.ControlCallData:
		auditName = data.Op
		err = p.applyControlCall(ctx, event, data)
	case model.JoinData:
		auditName = "join"
		err = p.applyJoin(event, data)
	case model.ExitData:
		auditName = "exit"
		err = p.applyExit(event, data)
	case model.SwapData:
		auditName = "swap"
		err = p.applySwap(event, data)
	case model.TransferData:
		auditName = "transfer"
		err = p.applyTransfer(event, data)
	case model.NewPoolData:
		auditName = "newPool"
		err = p.applyNewPool(event, data)
	default:
		return fmt.Errorf("unsupported event data type %T", event.Data)
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", event.Name, eventID, err)
	}

	p.appendTransaction(event, eventID, auditName)
	return nil
}

// appendTransaction writes the per-event audit record. Each event id is
// unique, so this is effectively write-once.
func (p *Projector) appendTransaction(event *model.PoolEvent, eventID, name string) {
	p.store.Save(&model.Transaction{
		TxID:        eventID,
		Event:       name,
		PoolAddress: event.Address,
		UserAddress: event.Sender,
		Tx:          event.TxHash,
		GasUsed:     event.GasUsed,
		GasPrice:    event.GasPrice,
		Block:       event.BlockNumber,
		Timestamp:   event.Timestamp,
	})
}

func (p *Projector) loadPool(id string) (*model.Pool, error) {
	entity, ok := p.store.Load(model.KindPool, id)
	if !ok {
		return nil, fmt.Errorf("pool %s: %w", id, ErrEntityAbsent)
	}
	return entity.(*model.Pool), nil
}

func (p *Projector) loadPoolToken(id string) (*model.PoolToken, error) {
	entity, ok := p.store.Load(model.KindPoolToken, id)
	if !ok {
		return nil, fmt.Errorf("pool token %s: %w", id, ErrEntityAbsent)
	}
	return entity.(*model.PoolToken), nil
}

func (p *Projector) loadBalancer() *model.Balancer {
	if entity, ok := p.store.Load(model.KindBalancer, model.BalancerID); ok {
		return entity.(*model.Balancer)
	}
	aggregate := &model.Balancer{AggregateID: model.BalancerID}
	p.store.Save(aggregate)
	return aggregate
}

func (p *Projector) ensureUser(address string) {
	if _, ok := p.store.Load(model.KindUser, address); !ok {
		p.store.Save(&model.User{Address: address})
	}
}

// applyNewPool registers a pool announced by the factory, with the defaults
// a freshly deployed pool carries. Registration is idempotent.
func (p *Projector) applyNewPool(event *model.PoolEvent, data model.NewPoolData) error {
	if _, ok := p.store.Load(model.KindPool, data.Pool); ok {
		return nil
	}

	p.store.Save(&model.Pool{
		Address:         data.Pool,
		Controller:      data.Caller,
		SwapFee:         decimal.RequireFromString("0.000001"),
		TotalWeight:     decimal.Zero,
		TotalShares:     decimal.Zero,
		TotalSwapVolume: decimal.Zero,
		Liquidity:       decimal.Zero,
		FirstSeenBlock:  event.BlockNumber,
	})
	p.ensureUser(data.Caller)

	aggregate := p.loadBalancer()
	aggregate.PoolCount++
	p.store.Save(aggregate)

	return nil
}
