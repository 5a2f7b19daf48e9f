package project

import (
	"poolScope/internal/amount"
	"poolScope/internal/model"
)

// transferKind classifies a share-token transfer once, at handler entry.
type transferKind int

const (
	transferMint transferKind = iota
	transferBurn
	transferPeer
)

func classifyTransfer(src, dst string) transferKind {
	switch {
	case src == zeroAddress:
		return transferMint
	case dst == zeroAddress:
		return transferBurn
	default:
		return transferPeer
	}
}

// applyTransfer moves share balances between holders. Mint and burn adjust
// the pool's total share supply; a peer transfer conserves it.
func (p *Projector) applyTransfer(event *model.PoolEvent, data model.TransferData) error {
	pool, err := p.loadPool(event.Address)
	if err != nil {
		return err
	}

	value := amount.Rescale(data.Amount, shareDecimals)

	switch classifyTransfer(data.Src, data.Dst) {
	case transferMint:
		to := p.ensurePoolShare(pool.Address, data.Dst)
		to.Balance = to.Balance.Add(value)
		p.store.Save(to)
		pool.TotalShares = pool.TotalShares.Add(value)

	case transferBurn:
		from := p.ensurePoolShare(pool.Address, data.Src)
		from.Balance = from.Balance.Sub(value)
		p.store.Save(from)
		pool.TotalShares = pool.TotalShares.Sub(value)

	case transferPeer:
		to := p.ensurePoolShare(pool.Address, data.Dst)
		to.Balance = to.Balance.Add(value)
		p.store.Save(to)

		from := p.ensurePoolShare(pool.Address, data.Src)
		from.Balance = from.Balance.Sub(value)
		p.store.Save(from)
	}

	p.store.Save(pool)
	return nil
}

// ensurePoolShare lazily creates the holder's share record and its user.
// Shares are never deleted; zero is a valid terminal balance.
func (p *Projector) ensurePoolShare(poolID, holder string) *model.PoolShare {
	shareID := model.PoolShareID(poolID, holder)
	if entity, ok := p.store.Load(model.KindPoolShare, shareID); ok {
		return entity.(*model.PoolShare)
	}

	p.ensureUser(holder)
	share := &model.PoolShare{
		ShareID:     shareID,
		PoolID:      poolID,
		UserAddress: holder,
	}
	p.store.Save(share)
	return share
}
