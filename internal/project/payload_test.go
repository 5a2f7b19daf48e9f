package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poolScope/internal/amount"
	"poolScope/internal/model"
)

func TestFeeFromPayload(t *testing.T) {
	fee, err := feeFromPayload(wordPayload(units(3, 15)))
	require.NoError(t, err)
	assertDecimal(t, "0.003", fee)

	_, err = feeFromPayload(make([]byte, 35))
	require.ErrorIs(t, err, ErrBadPayload)
	_, err = feeFromPayload(nil)
	require.ErrorIs(t, err, ErrBadPayload)
}

func TestAddressFromPayload(t *testing.T) {
	addr, err := addressFromPayload(model.OpUnbind, addressPayload(tokenX))
	require.NoError(t, err)
	assert.Equal(t, tokenX, addr)

	_, err = addressFromPayload(model.OpUnbind, make([]byte, 100))
	require.ErrorIs(t, err, ErrBadPayload)
}

func TestBoolFromPayload(t *testing.T) {
	on, err := boolFromPayload(boolPayload(true))
	require.NoError(t, err)
	assert.True(t, on)

	off, err := boolFromPayload(boolPayload(false))
	require.NoError(t, err)
	assert.False(t, off)

	_, err = boolFromPayload(make([]byte, 4))
	require.ErrorIs(t, err, ErrBadPayload)
}

func TestCheckFinalizePayload(t *testing.T) {
	require.NoError(t, checkFinalizePayload(make([]byte, 4)))
	require.ErrorIs(t, checkFinalizePayload(make([]byte, 36)), ErrBadPayload)
}

func TestRebindArgs(t *testing.T) {
	payload := rebindPayload(tokenY, units(1234, 18), units(7, 18))
	token, balanceHex, weightHex, err := rebindArgs(payload)
	require.NoError(t, err)
	assert.Equal(t, tokenY, token)
	balance, err := amount.HexFixed(balanceHex, 18)
	require.NoError(t, err)
	assertDecimal(t, "1234", balance)

	weight, err := amount.HexFixed(weightHex, 18)
	require.NoError(t, err)
	assertDecimal(t, "7", weight)

	_, _, _, err = rebindArgs(make([]byte, 36))
	require.ErrorIs(t, err, ErrBadPayload)
}
