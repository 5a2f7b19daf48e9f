package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"poolScope/internal/model"
	"poolScope/internal/store"
)

// Store provides Postgres persistence for projected pool state.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// FlushChanges persists everything the memory store dirtied or removed
// since the last flush, then clears the change sets.
func (s *Store) FlushChanges(ctx context.Context, mem *store.Memory) error {
	if err := s.upsertPools(ctx, mem.Dirty(model.KindPool)); err != nil {
		return fmt.Errorf("flush pools: %w", err)
	}
	if err := s.upsertPoolTokens(ctx, mem.Dirty(model.KindPoolToken)); err != nil {
		return fmt.Errorf("flush pool tokens: %w", err)
	}
	if err := s.deletePoolTokens(ctx, mem.Removed(model.KindPoolToken)); err != nil {
		return fmt.Errorf("delete pool tokens: %w", err)
	}
	if err := s.upsertPoolShares(ctx, mem.Dirty(model.KindPoolShare)); err != nil {
		return fmt.Errorf("flush pool shares: %w", err)
	}
	if err := s.upsertTokenPrices(ctx, mem.Dirty(model.KindTokenPrice)); err != nil {
		return fmt.Errorf("flush token prices: %w", err)
	}
	if err := s.upsertSwaps(ctx, mem.Dirty(model.KindSwap)); err != nil {
		return fmt.Errorf("flush swaps: %w", err)
	}
	if err := s.upsertTransactions(ctx, mem.Dirty(model.KindTransaction)); err != nil {
		return fmt.Errorf("flush transactions: %w", err)
	}
	if err := s.upsertUsers(ctx, mem.Dirty(model.KindUser)); err != nil {
		return fmt.Errorf("flush users: %w", err)
	}
	if err := s.upsertBalancer(ctx, mem.Dirty(model.KindBalancer)); err != nil {
		return fmt.Errorf("flush balancer: %w", err)
	}
	mem.ClearChanges()
	return nil
}

func (s *Store) upsertPools(ctx context.Context, entities []model.Entity) error {
	if len(entities) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, entity := range entities {
		pool := entity.(*model.Pool)
		batch.Queue(`
			INSERT INTO pools (
				pool_address, controller, public_swap, finalized, swap_fee,
				total_weight, total_shares, total_swap_volume, liquidity,
				tokens_list, swaps_count, joins_count, exits_count,
				first_seen_block, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,now(),now())
			ON CONFLICT (pool_address)
			DO UPDATE SET
				controller = EXCLUDED.controller,
				public_swap = EXCLUDED.public_swap,
				finalized = EXCLUDED.finalized,
				swap_fee = EXCLUDED.swap_fee,
				total_weight = EXCLUDED.total_weight,
				total_shares = EXCLUDED.total_shares,
				total_swap_volume = EXCLUDED.total_swap_volume,
				liquidity = EXCLUDED.liquidity,
				tokens_list = EXCLUDED.tokens_list,
				swaps_count = EXCLUDED.swaps_count,
				joins_count = EXCLUDED.joins_count,
				exits_count = EXCLUDED.exits_count,
				first_seen_block = LEAST(pools.first_seen_block, EXCLUDED.first_seen_block),
				updated_at = now()
		`,
			pool.Address,
			pool.Controller,
			pool.PublicSwap,
			pool.Finalized,
			pool.SwapFee,
			pool.TotalWeight,
			pool.TotalShares,
			pool.TotalSwapVolume,
			pool.Liquidity,
			pool.TokensList,
			int64(pool.SwapsCount),
			int64(pool.JoinsCount),
			int64(pool.ExitsCount),
			int64(pool.FirstSeenBlock),
		)
	}
	return s.sendBatch(ctx, batch, len(entities))
}

func (s *Store) upsertPoolTokens(ctx context.Context, entities []model.Entity) error {
	if len(entities) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, entity := range entities {
		poolToken := entity.(*model.PoolToken)
		batch.Queue(`
			INSERT INTO pool_tokens (
				pool_token_id, pool_address, token_address, symbol, name,
				decimals, balance, denorm_weight, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,now(),now())
			ON CONFLICT (pool_token_id)
			DO UPDATE SET
				symbol = EXCLUDED.symbol,
				name = EXCLUDED.name,
				decimals = EXCLUDED.decimals,
				balance = EXCLUDED.balance,
				denorm_weight = EXCLUDED.denorm_weight,
				updated_at = now()
		`,
			poolToken.PoolTokenID,
			poolToken.PoolID,
			poolToken.Address,
			poolToken.Symbol,
			poolToken.Name,
			int16(poolToken.Decimals),
			poolToken.Balance,
			poolToken.DenormWeight,
		)
	}
	return s.sendBatch(ctx, batch, len(entities))
}

func (s *Store) deletePoolTokens(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(`DELETE FROM pool_tokens WHERE pool_token_id = $1`, id)
	}
	return s.sendBatch(ctx, batch, len(ids))
}

func (s *Store) upsertPoolShares(ctx context.Context, entities []model.Entity) error {
	if len(entities) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, entity := range entities {
		share := entity.(*model.PoolShare)
		batch.Queue(`
			INSERT INTO pool_shares (
				share_id, pool_address, user_address, balance, created_at, updated_at
			) VALUES ($1,$2,$3,$4,now(),now())
			ON CONFLICT (share_id)
			DO UPDATE SET
				balance = EXCLUDED.balance,
				updated_at = now()
		`,
			share.ShareID,
			share.PoolID,
			share.UserAddress,
			share.Balance,
		)
	}
	return s.sendBatch(ctx, batch, len(entities))
}

func (s *Store) upsertTokenPrices(ctx context.Context, entities []model.Entity) error {
	if len(entities) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, entity := range entities {
		price := entity.(*model.TokenPrice)
		batch.Queue(`
			INSERT INTO token_prices (
				token_address, symbol, price, pool_liquidity, pool_token_id, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,now(),now())
			ON CONFLICT (token_address)
			DO UPDATE SET
				symbol = EXCLUDED.symbol,
				price = EXCLUDED.price,
				pool_liquidity = EXCLUDED.pool_liquidity,
				pool_token_id = EXCLUDED.pool_token_id,
				updated_at = now()
		`,
			price.Token,
			price.Symbol,
			price.Price,
			price.PoolLiquidity,
			price.PoolTokenID,
		)
	}
	return s.sendBatch(ctx, batch, len(entities))
}

func (s *Store) upsertSwaps(ctx context.Context, entities []model.Entity) error {
	if len(entities) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, entity := range entities {
		swap := entity.(*model.Swap)
		batch.Queue(`
			INSERT INTO swaps (
				swap_id, pool_address, caller, token_in, token_in_sym,
				token_out, token_out_sym, token_amount_in, token_amount_out,
				pool_total_swap_volume, ts, created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,now())
			ON CONFLICT (swap_id) DO NOTHING
		`,
			swap.SwapID,
			swap.PoolAddress,
			swap.Caller,
			swap.TokenIn,
			swap.TokenInSym,
			swap.TokenOut,
			swap.TokenOutSym,
			swap.TokenAmountIn,
			swap.TokenAmountOut,
			swap.PoolTotalSwapVolume,
			int64(swap.Timestamp),
		)
	}
	return s.sendBatch(ctx, batch, len(entities))
}

func (s *Store) upsertTransactions(ctx context.Context, entities []model.Entity) error {
	if len(entities) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, entity := range entities {
		txn := entity.(*model.Transaction)
		batch.Queue(`
			INSERT INTO transactions (
				tx_id, event, pool_address, user_address, tx_hash,
				gas_used, gas_price, block_number, ts, created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,now())
			ON CONFLICT (tx_id) DO NOTHING
		`,
			txn.TxID,
			txn.Event,
			txn.PoolAddress,
			txn.UserAddress,
			txn.Tx,
			txn.GasUsed,
			txn.GasPrice,
			int64(txn.Block),
			int64(txn.Timestamp),
		)
	}
	return s.sendBatch(ctx, batch, len(entities))
}

func (s *Store) upsertUsers(ctx context.Context, entities []model.Entity) error {
	if len(entities) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, entity := range entities {
		user := entity.(*model.User)
		batch.Queue(`
			INSERT INTO users (user_address, created_at)
			VALUES ($1, now())
			ON CONFLICT (user_address) DO NOTHING
		`, user.Address)
	}
	return s.sendBatch(ctx, batch, len(entities))
}

func (s *Store) upsertBalancer(ctx context.Context, entities []model.Entity) error {
	if len(entities) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, entity := range entities {
		aggregate := entity.(*model.Balancer)
		batch.Queue(`
			INSERT INTO balancer (id, pool_count, finalized_pool_count, updated_at)
			VALUES ($1,$2,$3,now())
			ON CONFLICT (id)
			DO UPDATE SET
				pool_count = EXCLUDED.pool_count,
				finalized_pool_count = EXCLUDED.finalized_pool_count,
				updated_at = now()
		`,
			aggregate.AggregateID,
			aggregate.PoolCount,
			aggregate.FinalizedPoolCount,
		)
	}
	return s.sendBatch(ctx, batch, len(entities))
}

func (s *Store) sendBatch(ctx context.Context, batch *pgx.Batch, n int) error {
	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < n; i++ {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadState returns the last processed event id for a name.
func (s *Store) LoadState(ctx context.Context, name string) (string, bool, error) {
	if name == "" {
		return "", false, fmt.Errorf("state name required")
	}
	var eventID string
	row := s.pool.QueryRow(ctx, `SELECT last_event_id FROM projection_state WHERE name=$1`, name)
	if err := row.Scan(&eventID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return eventID, true, nil
}

// SaveState upserts the last processed event id for a name.
func (s *Store) SaveState(ctx context.Context, name string, eventID string) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO projection_state (name, last_event_id, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_event_id = EXCLUDED.last_event_id, updated_at = now()
	`, name, eventID)
	return err
}
