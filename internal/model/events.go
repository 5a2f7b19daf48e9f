package model

import "github.com/shopspring/decimal"

// Control-call sub-operations, selected by the four-byte selector carried in
// the anonymous LOG_CALL topic0.
const (
	OpSetSwapFee    = "setSwapFee"
	OpSetController = "setController"
	OpSetPublicSwap = "setPublicSwap"
	OpFinalize      = "finalize"
	OpBind          = "bind"
	OpRebind        = "rebind"
	OpUnbind        = "unbind"
	OpGulp          = "gulp"
)

// Pool event names.
const (
	EventControlCall = "LOG_CALL"
	EventJoin        = "LOG_JOIN"
	EventExit        = "LOG_EXIT"
	EventSwap        = "LOG_SWAP"
	EventTransfer    = "Transfer"
	EventNewPool     = "LOG_NEW_POOL"
)

// PoolEvent is one decoded pool or share-token event in stream order.
type PoolEvent struct {
	BlockNumber uint64          `json:"block_number"`
	Timestamp   uint64          `json:"timestamp"`
	TxHash      string          `json:"tx_hash"`
	LogIndex    uint64          `json:"log_index"`
	Address     string          `json:"address"`
	Sender      string          `json:"sender"`
	GasUsed     decimal.Decimal `json:"gas_used"`
	GasPrice    decimal.Decimal `json:"gas_price"`
	Name        string          `json:"name"`
	Data        interface{}     `json:"data"`
}

// ControlCallData carries a control-call sub-operation with its opaque
// calldata payload. Byte layout interpretation is left to the handler.
type ControlCallData struct {
	Op      string `json:"op"`
	Caller  string `json:"caller"`
	Payload []byte `json:"payload"`
}

// JoinData is one deposited token leg. AmountIn is the raw unscaled value.
type JoinData struct {
	Caller   string          `json:"caller"`
	TokenIn  string          `json:"token_in"`
	AmountIn decimal.Decimal `json:"amount_in"`
}

// ExitData is one withdrawn token leg. AmountOut is the raw unscaled value.
type ExitData struct {
	Caller    string          `json:"caller"`
	TokenOut  string          `json:"token_out"`
	AmountOut decimal.Decimal `json:"amount_out"`
}

// SwapData carries both swap legs with raw unscaled amounts.
type SwapData struct {
	Caller    string          `json:"caller"`
	TokenIn   string          `json:"token_in"`
	AmountIn  decimal.Decimal `json:"amount_in"`
	TokenOut  string          `json:"token_out"`
	AmountOut decimal.Decimal `json:"amount_out"`
}

// TransferData is a share-token transfer with a raw unscaled amount.
type TransferData struct {
	Src    string          `json:"src"`
	Dst    string          `json:"dst"`
	Amount decimal.Decimal `json:"amount"`
}

// NewPoolData announces a pool created by the factory.
type NewPoolData struct {
	Pool   string `json:"pool"`
	Caller string `json:"caller"`
}
