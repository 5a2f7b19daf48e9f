package dex

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"

	"poolScope/internal/model"
)

func TestPoolDecoderSwap(t *testing.T) {
	poolABI, err := PoolABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}

	decoder, err := NewPoolDecoder()
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}

	pool := common.HexToAddress("0x1111111111111111111111111111111111111111")
	caller := common.HexToAddress("0x2222222222222222222222222222222222222222")
	tokenIn := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	tokenOut := common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")

	data, err := poolABI.Events["LOG_SWAP"].Inputs.NonIndexed().Pack(
		big.NewInt(1000),
		big.NewInt(900),
	)
	if err != nil {
		t.Fatalf("pack swap: %v", err)
	}

	logRecord := buildTestLogRecord(pool, poolABI.Events["LOG_SWAP"].ID, data, []common.Hash{
		topicFromAddress(caller),
		topicFromAddress(tokenIn),
		topicFromAddress(tokenOut),
	})

	event, err := decoder.Decode(logRecord)
	if err != nil {
		t.Fatalf("decode swap: %v", err)
	}
	if event.Name != model.EventSwap {
		t.Fatalf("name mismatch: %s", event.Name)
	}
	if event.Address != AddressID(pool) {
		t.Fatalf("address mismatch: %s", event.Address)
	}
	if event.Sender != "0x3333333333333333333333333333333333333333" {
		t.Fatalf("sender mismatch: %s", event.Sender)
	}
	if !event.GasPrice.Equal(decimal.NewFromInt(5000000000)) {
		t.Fatalf("gas price mismatch: %s", event.GasPrice)
	}

	swap, ok := event.Data.(model.SwapData)
	if !ok {
		t.Fatalf("decoded type mismatch: %T", event.Data)
	}
	if swap.Caller != AddressID(caller) || swap.TokenIn != AddressID(tokenIn) || swap.TokenOut != AddressID(tokenOut) {
		t.Fatalf("address mismatch: %+v", swap)
	}
	if swap.AmountIn.String() != "1000" || swap.AmountOut.String() != "900" {
		t.Fatalf("amounts mismatch: %+v", swap)
	}
}

func TestPoolDecoderJoinExit(t *testing.T) {
	poolABI, err := PoolABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	decoder, err := NewPoolDecoder()
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}

	pool := common.HexToAddress("0x1111111111111111111111111111111111111111")
	caller := common.HexToAddress("0x2222222222222222222222222222222222222222")
	token := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	joinData, err := poolABI.Events["LOG_JOIN"].Inputs.NonIndexed().Pack(big.NewInt(12345))
	if err != nil {
		t.Fatalf("pack join: %v", err)
	}
	joinLog := buildTestLogRecord(pool, poolABI.Events["LOG_JOIN"].ID, joinData, []common.Hash{
		topicFromAddress(caller),
		topicFromAddress(token),
	})

	joinEvent, err := decoder.Decode(joinLog)
	if err != nil {
		t.Fatalf("decode join: %v", err)
	}
	join, ok := joinEvent.Data.(model.JoinData)
	if !ok {
		t.Fatalf("join type mismatch: %T", joinEvent.Data)
	}
	if join.TokenIn != AddressID(token) || join.AmountIn.String() != "12345" {
		t.Fatalf("join mismatch: %+v", join)
	}

	exitData, err := poolABI.Events["LOG_EXIT"].Inputs.NonIndexed().Pack(big.NewInt(678))
	if err != nil {
		t.Fatalf("pack exit: %v", err)
	}
	exitLog := buildTestLogRecord(pool, poolABI.Events["LOG_EXIT"].ID, exitData, []common.Hash{
		topicFromAddress(caller),
		topicFromAddress(token),
	})

	exitEvent, err := decoder.Decode(exitLog)
	if err != nil {
		t.Fatalf("decode exit: %v", err)
	}
	exit, ok := exitEvent.Data.(model.ExitData)
	if !ok {
		t.Fatalf("exit type mismatch: %T", exitEvent.Data)
	}
	if exit.TokenOut != AddressID(token) || exit.AmountOut.String() != "678" {
		t.Fatalf("exit mismatch: %+v", exit)
	}
}

func TestPoolDecoderTransfer(t *testing.T) {
	poolABI, err := PoolABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	decoder, err := NewPoolDecoder()
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}

	pool := common.HexToAddress("0x1111111111111111111111111111111111111111")
	src := common.Address{}
	dst := common.HexToAddress("0x4444444444444444444444444444444444444444")

	data, err := poolABI.Events["Transfer"].Inputs.NonIndexed().Pack(big.NewInt(500))
	if err != nil {
		t.Fatalf("pack transfer: %v", err)
	}
	logRecord := buildTestLogRecord(pool, poolABI.Events["Transfer"].ID, data, []common.Hash{
		topicFromAddress(src),
		topicFromAddress(dst),
	})

	event, err := decoder.Decode(logRecord)
	if err != nil {
		t.Fatalf("decode transfer: %v", err)
	}
	transfer, ok := event.Data.(model.TransferData)
	if !ok {
		t.Fatalf("transfer type mismatch: %T", event.Data)
	}
	if transfer.Src != AddressID(src) || transfer.Dst != AddressID(dst) {
		t.Fatalf("transfer address mismatch: %+v", transfer)
	}
	if transfer.Amount.String() != "500" {
		t.Fatalf("transfer amount mismatch: %s", transfer.Amount)
	}
}

func TestPoolDecoderControlCall(t *testing.T) {
	poolABI, err := PoolABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	decoder, err := NewPoolDecoder()
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}

	pool := common.HexToAddress("0x1111111111111111111111111111111111111111")
	caller := common.HexToAddress("0x2222222222222222222222222222222222222222")

	payload := make([]byte, 36)
	payload[0] = 0x34
	payload[1] = 0xe1
	payload[2] = 0x99
	payload[3] = 0x07
	big.NewInt(3000000000000000).FillBytes(payload[4:36])

	data, err := poolABI.Events["LOG_CALL"].Inputs.NonIndexed().Pack(payload)
	if err != nil {
		t.Fatalf("pack control call: %v", err)
	}

	logRecord := buildTestLogRecord(pool, selectorTopic(0x34, 0xe1, 0x99, 0x07), data, []common.Hash{
		topicFromAddress(caller),
	})

	event, err := decoder.Decode(logRecord)
	if err != nil {
		t.Fatalf("decode control call: %v", err)
	}
	if event.Name != model.EventControlCall {
		t.Fatalf("name mismatch: %s", event.Name)
	}

	control, ok := event.Data.(model.ControlCallData)
	if !ok {
		t.Fatalf("control type mismatch: %T", event.Data)
	}
	if control.Op != model.OpSetSwapFee {
		t.Fatalf("op mismatch: %s", control.Op)
	}
	if control.Caller != AddressID(caller) {
		t.Fatalf("caller mismatch: %s", control.Caller)
	}
	if len(control.Payload) != 36 || control.Payload[0] != 0x34 {
		t.Fatalf("payload mismatch: %x", control.Payload)
	}
}

func TestPoolDecoderNewPool(t *testing.T) {
	poolABI, err := PoolABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	decoder, err := NewPoolDecoder()
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}

	factory := common.HexToAddress("0xffffffffffffffffffffffffffffffffffffffff")
	caller := common.HexToAddress("0x2222222222222222222222222222222222222222")
	pool := common.HexToAddress("0x5555555555555555555555555555555555555555")

	logRecord := buildTestLogRecord(factory, poolABI.Events["LOG_NEW_POOL"].ID, nil, []common.Hash{
		topicFromAddress(caller),
		topicFromAddress(pool),
	})

	event, err := decoder.Decode(logRecord)
	if err != nil {
		t.Fatalf("decode new pool: %v", err)
	}
	newPool, ok := event.Data.(model.NewPoolData)
	if !ok {
		t.Fatalf("new pool type mismatch: %T", event.Data)
	}
	if newPool.Pool != AddressID(pool) || newPool.Caller != AddressID(caller) {
		t.Fatalf("new pool mismatch: %+v", newPool)
	}
}

func TestCanDecode(t *testing.T) {
	poolABI, err := PoolABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	decoder, err := NewPoolDecoder()
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}

	if !decoder.CanDecode(poolABI.Events["LOG_JOIN"].ID.Hex()) {
		t.Fatalf("expected LOG_JOIN decodable")
	}
	if !decoder.CanDecode(selectorTopic(0x3f, 0xdd, 0xda, 0xa2).Hex()) {
		t.Fatalf("expected rebind selector decodable")
	}

	// Selector with a non-zero tail is some other event signature.
	tail := selectorTopic(0x3f, 0xdd, 0xda, 0xa2)
	tail[31] = 0x01
	if decoder.CanDecode(tail.Hex()) {
		t.Fatalf("expected dirty-tail selector rejected")
	}

	if decoder.CanDecode("0x00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff") {
		t.Fatalf("expected unknown topic rejected")
	}
}

func buildTestLogRecord(address common.Address, topic0 common.Hash, data []byte, indexed []common.Hash) model.LogRecord {
	topics := make([]string, 0, len(indexed)+1)
	topics = append(topics, topic0.Hex())
	for _, topic := range indexed {
		topics = append(topics, topic.Hex())
	}

	return model.LogRecord{
		ChainID:     1,
		BlockNumber: 12345,
		BlockHash:   "0xabc",
		TxHash:      "0xDEF0000000000000000000000000000000000000000000000000000000000001",
		TxFrom:      "0x3333333333333333333333333333333333333333",
		TxGasUsed:   90000,
		TxGasPrice:  "5000000000",
		LogIndex:    1,
		Address:     address.Hex(),
		Topics:      topics,
		Data:        hexutil.Encode(data),
		Timestamp:   1700000000,
	}
}

func topicFromAddress(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}

func selectorTopic(b0, b1, b2, b3 byte) common.Hash {
	var topic common.Hash
	topic[0], topic[1], topic[2], topic[3] = b0, b1, b2, b3
	return topic
}
