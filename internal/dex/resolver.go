package dex

import (
	"bytes"
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"poolScope/internal/model"
)

const defaultTokenDecimals = 18

// ContractCaller performs a read-only contract call.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// TokenResolver reads token metadata and balances from contract state.
// Reverts are a normal outcome: symbol/name fall back from the string ABI to
// the bytes32 ABI and finally to empty strings, decimals default to 18.
type TokenResolver struct {
	caller ContractCaller
	logger *zap.Logger
}

func NewTokenResolver(caller ContractCaller, logger *zap.Logger) *TokenResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenResolver{caller: caller, logger: logger}
}

// ResolveMeta loads symbol, name, and decimals for a token. It never fails:
// every unresolvable field takes its documented default.
func (r *TokenResolver) ResolveMeta(ctx context.Context, token common.Address) model.TokenMeta {
	meta := model.TokenMeta{
		Address:  AddressID(token),
		Decimals: defaultTokenDecimals,
	}

	stringABI, err := erc20ABIStringInstance()
	if err != nil {
		r.logger.Warn("erc20 string abi", zap.Error(err))
		return meta
	}
	bytes32ABI, err := erc20ABIBytes32Instance()
	if err != nil {
		r.logger.Warn("erc20 bytes32 abi", zap.Error(err))
		return meta
	}

	meta.Symbol = r.resolveText(ctx, token, "symbol", stringABI, bytes32ABI)
	meta.Name = r.resolveText(ctx, token, "name", stringABI, bytes32ABI)

	if values, err := r.call(ctx, token, stringABI, "decimals"); err == nil {
		if decimals, ok := asUint8(values[0]); ok {
			meta.Decimals = decimals
		}
	} else {
		r.logger.Debug("decimals call reverted, defaulting to 18",
			zap.String("token", meta.Address), zap.Error(err))
	}

	return meta
}

// resolveText reads a string field via the primary string ABI, falling back
// to the bytes32 encoding, then to the empty string.
func (r *TokenResolver) resolveText(ctx context.Context, token common.Address, method string, stringABI, bytes32ABI abi.ABI) string {
	if values, err := r.call(ctx, token, stringABI, method); err == nil {
		if text, ok := values[0].(string); ok {
			return text
		}
	} else {
		r.logger.Debug("string call reverted, trying bytes32",
			zap.String("token", AddressID(token)), zap.String("method", method), zap.Error(err))
	}

	if values, err := r.call(ctx, token, bytes32ABI, method); err == nil {
		if text, ok := bytes32ToString(values[0]); ok {
			return text
		}
	} else {
		r.logger.Debug("bytes32 call reverted, defaulting to empty",
			zap.String("token", AddressID(token)), zap.String("method", method), zap.Error(err))
	}

	return ""
}

// BalanceOf reads a token balance. Unlike metadata, failure is surfaced so
// the caller can keep its previously stored balance.
func (r *TokenResolver) BalanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	stringABI, err := erc20ABIStringInstance()
	if err != nil {
		return nil, err
	}

	data, err := stringABI.Pack("balanceOf", owner)
	if err != nil {
		return nil, fmt.Errorf("pack balanceOf: %w", err)
	}
	msg := ethereum.CallMsg{To: &token, Data: data}
	resp, err := r.caller.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call balanceOf: %w", err)
	}
	values, err := stringABI.Unpack("balanceOf", resp)
	if err != nil {
		return nil, fmt.Errorf("unpack balanceOf: %w", err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("balanceOf return size %d", len(values))
	}
	balance, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("balanceOf unexpected type %T", values[0])
	}
	return balance, nil
}

func (r *TokenResolver) call(ctx context.Context, token common.Address, parsed abi.ABI, method string) ([]interface{}, error) {
	if r.caller == nil {
		return nil, fmt.Errorf("contract caller is nil")
	}
	data, err := parsed.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &token, Data: data}
	resp, err := r.caller.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s returned nothing", method)
	}
	return values, nil
}

func bytes32ToString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case [32]byte:
		return string(bytes.TrimRight(v[:], "\x00")), true
	case []byte:
		return string(bytes.TrimRight(v, "\x00")), true
	default:
		return "", false
	}
}

func asUint8(value interface{}) (uint8, bool) {
	switch v := value.(type) {
	case uint8:
		return v, true
	case *big.Int:
		return uint8(v.Uint64()), true
	default:
		return 0, false
	}
}
