package project

import (
	"encoding/hex"
	"fmt"

	"github.com/shopspring/decimal"

	"poolScope/internal/amount"
)

// Control payloads are the raw calldata of the pool method call: a four-byte
// selector followed by 32-byte ABI words. Each sub-operation has a fixed
// size, validated before any slicing.
const (
	selectorSize     = 4
	wordSize         = 32
	oneWordCallSize  = selectorSize + wordSize   // fee, controller, publicSwap, unbind, gulp
	rebindCallSize   = selectorSize + 3*wordSize // token, balance, denorm weight
	finalizeCallSize = selectorSize
)

// ErrBadPayload marks a control payload whose length does not match its
// sub-operation.
var ErrBadPayload = fmt.Errorf("bad control payload")

func feeFromPayload(payload []byte) (decimal.Decimal, error) {
	if len(payload) != oneWordCallSize {
		return decimal.Zero, payloadErr("setSwapFee", len(payload))
	}
	return amount.HexFixed(hex.EncodeToString(payload[len(payload)-20:]), 18)
}

func addressFromPayload(op string, payload []byte) (string, error) {
	if len(payload) != oneWordCallSize {
		return "", payloadErr(op, len(payload))
	}
	return "0x" + hex.EncodeToString(payload[len(payload)-20:]), nil
}

func boolFromPayload(payload []byte) (bool, error) {
	if len(payload) != oneWordCallSize {
		return false, payloadErr("setPublicSwap", len(payload))
	}
	return payload[len(payload)-1] == 1, nil
}

func checkFinalizePayload(payload []byte) error {
	if len(payload) != finalizeCallSize {
		return payloadErr("finalize", len(payload))
	}
	return nil
}

// rebindArgs splits a bind/rebind payload into the token address and the raw
// hex fragments of the absolute balance and denormalized weight words. The
// balance fragment is returned undecoded because its scale is the token's
// own decimals, known only after the pool token exists.
func rebindArgs(payload []byte) (token, balanceHex, weightHex string, err error) {
	if len(payload) != rebindCallSize {
		return "", "", "", payloadErr("rebind", len(payload))
	}
	token = "0x" + hex.EncodeToString(payload[16:36])
	balanceHex = hex.EncodeToString(payload[36:68])
	weightHex = hex.EncodeToString(payload[68:100])
	return token, balanceHex, weightHex, nil
}

func payloadErr(op string, size int) error {
	return fmt.Errorf("%w: %s payload length %d", ErrBadPayload, op, size)
}
