package dex

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"

	"poolScope/internal/model"
)

// Control-call selectors, as they appear in the first four bytes of the
// anonymous LOG_CALL topic0.
var controlSelectors = map[string]string{
	"34e19907": model.OpSetSwapFee,
	"92eefe9b": model.OpSetController,
	"49b59552": model.OpSetPublicSwap,
	"4bb278f3": model.OpFinalize,
	"e4e1e538": model.OpBind,
	"3fdddaa2": model.OpRebind,
	"cf5e7bd3": model.OpUnbind,
	"8c28cbe8": model.OpGulp,
}

// PoolDecoder decodes weighted-pool, share-token, and factory logs into
// typed pool events.
type PoolDecoder struct {
	abi         abi.ABI
	topicToName map[string]string
}

// NewPoolDecoder builds a pool decoder from the embedded ABI.
func NewPoolDecoder() (*PoolDecoder, error) {
	parsed, err := PoolABI()
	if err != nil {
		return nil, err
	}

	topicToName := map[string]string{
		strings.ToLower(parsed.Events["LOG_JOIN"].ID.Hex()):     model.EventJoin,
		strings.ToLower(parsed.Events["LOG_EXIT"].ID.Hex()):     model.EventExit,
		strings.ToLower(parsed.Events["LOG_SWAP"].ID.Hex()):     model.EventSwap,
		strings.ToLower(parsed.Events["Transfer"].ID.Hex()):     model.EventTransfer,
		strings.ToLower(parsed.Events["LOG_NEW_POOL"].ID.Hex()): model.EventNewPool,
	}

	return &PoolDecoder{abi: parsed, topicToName: topicToName}, nil
}

// CanDecode checks whether topic0 is a supported event signature or a known
// control-call selector.
func (d *PoolDecoder) CanDecode(topic0 string) bool {
	if _, ok := d.topicToName[strings.ToLower(topic0)]; ok {
		return true
	}
	_, ok := controlSelector(topic0)
	return ok
}

// Decode converts a LogRecord into a typed PoolEvent.
func (d *PoolDecoder) Decode(log model.LogRecord) (*model.PoolEvent, error) {
	if len(log.Topics) == 0 {
		return nil, fmt.Errorf("missing topics")
	}
	if !common.IsHexAddress(log.Address) {
		return nil, fmt.Errorf("invalid pool address: %s", log.Address)
	}

	if op, ok := controlSelector(log.Topics[0]); ok {
		data, err := d.decodeControlCall(log, op)
		if err != nil {
			return nil, err
		}
		return d.buildEvent(log, model.EventControlCall, data)
	}

	name, ok := d.topicToName[strings.ToLower(log.Topics[0])]
	if !ok {
		return nil, fmt.Errorf("unsupported topic0: %s", log.Topics[0])
	}

	var (
		data interface{}
		err  error
	)
	switch name {
	case model.EventJoin:
		data, err = d.decodeJoin(log)
	case model.EventExit:
		data, err = d.decodeExit(log)
	case model.EventSwap:
		data, err = d.decodeSwap(log)
	case model.EventTransfer:
		data, err = d.decodeTransfer(log)
	case model.EventNewPool:
		data, err = d.decodeNewPool(log)
	default:
		err = fmt.Errorf("unsupported event name: %s", name)
	}
	if err != nil {
		return nil, err
	}
	return d.buildEvent(log, name, data)
}

func (d *PoolDecoder) buildEvent(log model.LogRecord, name string, data interface{}) (*model.PoolEvent, error) {
	gasPrice := decimal.Zero
	if log.TxGasPrice != "" {
		parsed, err := decimal.NewFromString(log.TxGasPrice)
		if err != nil {
			return nil, fmt.Errorf("invalid gas price: %q", log.TxGasPrice)
		}
		gasPrice = parsed
	}

	return &model.PoolEvent{
		BlockNumber: log.BlockNumber,
		Timestamp:   log.Timestamp,
		TxHash:      strings.ToLower(log.TxHash),
		LogIndex:    log.LogIndex,
		Address:     AddressID(common.HexToAddress(log.Address)),
		Sender:      strings.ToLower(log.TxFrom),
		GasUsed:     decimal.NewFromInt(int64(log.TxGasUsed)),
		GasPrice:    gasPrice,
		Name:        name,
		Data:        data,
	}, nil
}

func (d *PoolDecoder) decodeControlCall(log model.LogRecord, op string) (model.ControlCallData, error) {
	// LOG_CALL is anonymous: topics are [padded selector, caller].
	if len(log.Topics) != 2 {
		return model.ControlCallData{}, fmt.Errorf("expected 2 topics for LOG_CALL, got %d", len(log.Topics))
	}
	caller, err := addressFromTopic(log.Topics[1])
	if err != nil {
		return model.ControlCallData{}, fmt.Errorf("caller topic: %w", err)
	}

	values, err := unpackNonIndexed(d.abi.Events["LOG_CALL"], log.Data)
	if err != nil {
		return model.ControlCallData{}, err
	}
	if len(values) != 1 {
		return model.ControlCallData{}, fmt.Errorf("unexpected LOG_CALL values: %d", len(values))
	}
	payload, ok := values[0].([]byte)
	if !ok {
		return model.ControlCallData{}, fmt.Errorf("unexpected LOG_CALL data type %T", values[0])
	}

	return model.ControlCallData{
		Op:      op,
		Caller:  AddressID(caller),
		Payload: payload,
	}, nil
}

func (d *PoolDecoder) decodeJoin(log model.LogRecord) (model.JoinData, error) {
	caller, tokenIn, err := twoAddressTopics(log.Topics)
	if err != nil {
		return model.JoinData{}, err
	}
	amount, err := singleAmount(d.abi.Events["LOG_JOIN"], log.Data)
	if err != nil {
		return model.JoinData{}, err
	}
	return model.JoinData{
		Caller:   AddressID(caller),
		TokenIn:  AddressID(tokenIn),
		AmountIn: amount,
	}, nil
}

func (d *PoolDecoder) decodeExit(log model.LogRecord) (model.ExitData, error) {
	caller, tokenOut, err := twoAddressTopics(log.Topics)
	if err != nil {
		return model.ExitData{}, err
	}
	amount, err := singleAmount(d.abi.Events["LOG_EXIT"], log.Data)
	if err != nil {
		return model.ExitData{}, err
	}
	return model.ExitData{
		Caller:    AddressID(caller),
		TokenOut:  AddressID(tokenOut),
		AmountOut: amount,
	}, nil
}

func (d *PoolDecoder) decodeSwap(log model.LogRecord) (model.SwapData, error) {
	if len(log.Topics) != 4 {
		return model.SwapData{}, fmt.Errorf("expected 4 topics, got %d", len(log.Topics))
	}
	caller, err := addressFromTopic(log.Topics[1])
	if err != nil {
		return model.SwapData{}, err
	}
	tokenIn, err := addressFromTopic(log.Topics[2])
	if err != nil {
		return model.SwapData{}, err
	}
	tokenOut, err := addressFromTopic(log.Topics[3])
	if err != nil {
		return model.SwapData{}, err
	}

	values, err := unpackNonIndexed(d.abi.Events["LOG_SWAP"], log.Data)
	if err != nil {
		return model.SwapData{}, err
	}
	if len(values) != 2 {
		return model.SwapData{}, fmt.Errorf("unexpected swap values: %d", len(values))
	}
	amountIn, err := rawAmount(values[0])
	if err != nil {
		return model.SwapData{}, err
	}
	amountOut, err := rawAmount(values[1])
	if err != nil {
		return model.SwapData{}, err
	}

	return model.SwapData{
		Caller:    AddressID(caller),
		TokenIn:   AddressID(tokenIn),
		AmountIn:  amountIn,
		TokenOut:  AddressID(tokenOut),
		AmountOut: amountOut,
	}, nil
}

func (d *PoolDecoder) decodeTransfer(log model.LogRecord) (model.TransferData, error) {
	src, dst, err := twoAddressTopics(log.Topics)
	if err != nil {
		return model.TransferData{}, err
	}
	amount, err := singleAmount(d.abi.Events["Transfer"], log.Data)
	if err != nil {
		return model.TransferData{}, err
	}
	return model.TransferData{
		Src:    AddressID(src),
		Dst:    AddressID(dst),
		Amount: amount,
	}, nil
}

func (d *PoolDecoder) decodeNewPool(log model.LogRecord) (model.NewPoolData, error) {
	caller, pool, err := twoAddressTopics(log.Topics)
	if err != nil {
		return model.NewPoolData{}, err
	}
	return model.NewPoolData{
		Pool:   AddressID(pool),
		Caller: AddressID(caller),
	}, nil
}

// AddressID normalizes an address into the lowercase entity-id form.
func AddressID(address common.Address) string {
	return strings.ToLower(address.Hex())
}

func controlSelector(topic0 string) (string, bool) {
	data, err := hexutil.Decode(topic0)
	if err != nil || len(data) != 32 {
		return "", false
	}
	for _, b := range data[4:] {
		if b != 0 {
			return "", false
		}
	}
	op, ok := controlSelectors[hex.EncodeToString(data[:4])]
	return op, ok
}

func addressFromTopic(topic string) (common.Address, error) {
	data, err := hexutil.Decode(topic)
	if err != nil {
		return common.Address{}, fmt.Errorf("invalid topic: %w", err)
	}
	if len(data) != 32 {
		return common.Address{}, fmt.Errorf("topic length %d", len(data))
	}
	return common.BytesToAddress(data[12:]), nil
}

func twoAddressTopics(topics []string) (common.Address, common.Address, error) {
	if len(topics) != 3 {
		return common.Address{}, common.Address{}, fmt.Errorf("expected 3 topics, got %d", len(topics))
	}
	first, err := addressFromTopic(topics[1])
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	second, err := addressFromTopic(topics[2])
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	return first, second, nil
}

func singleAmount(event abi.Event, dataHex string) (decimal.Decimal, error) {
	values, err := unpackNonIndexed(event, dataHex)
	if err != nil {
		return decimal.Zero, err
	}
	if len(values) != 1 {
		return decimal.Zero, fmt.Errorf("unexpected %s values: %d", event.Name, len(values))
	}
	return rawAmount(values[0])
}

func rawAmount(value interface{}) (decimal.Decimal, error) {
	amount, ok := value.(*big.Int)
	if !ok {
		return decimal.Zero, fmt.Errorf("unexpected amount type %T", value)
	}
	return decimal.NewFromBigInt(amount, 0), nil
}

func unpackNonIndexed(event abi.Event, dataHex string) ([]interface{}, error) {
	data, err := hexutil.Decode(dataHex)
	if err != nil {
		return nil, fmt.Errorf("invalid data: %w", err)
	}
	values, err := event.Inputs.NonIndexed().Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", event.Name, err)
	}
	return values, nil
}
