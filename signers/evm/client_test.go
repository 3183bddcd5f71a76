package evm

import (
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	mmad "github.com/cadalt0/MMAD-SDK"
)

func TestSplitParams(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		args, err := splitParams(nil)
		require.NoError(t, err)
		assert.Nil(t, args)
	})

	t.Run("slice spreads into positional args", func(t *testing.T) {
		args, err := splitParams([]any{map[string]any{"to": "0x1"}, "latest"})
		require.NoError(t, err)
		require.Len(t, args, 2)
		assert.JSONEq(t, `{"to":"0x1"}`, string(args[0].(json.RawMessage)))
		assert.JSONEq(t, `"latest"`, string(args[1].(json.RawMessage)))
	})

	t.Run("typed slice spreads too", func(t *testing.T) {
		args, err := splitParams([]*mmad.PermissionRequest{{ChainID: "0xaa36a7"}})
		require.NoError(t, err)
		require.Len(t, args, 1)
		assert.Contains(t, string(args[0].(json.RawMessage)), `"chainId":"0xaa36a7"`)
	})

	t.Run("non-slice rides as one arg", func(t *testing.T) {
		args, err := splitParams(map[string]any{"key": "value"})
		require.NoError(t, err)
		require.Len(t, args, 1)
		assert.JSONEq(t, `{"key":"value"}`, string(args[0].(json.RawMessage)))
	})
}

func TestDecodeTxParams(t *testing.T) {
	params := []any{map[string]any{
		"to":    "0x5FF137D4b0FDCD49DcA30c7CF57E578a026d2789",
		"data":  "0xdeadbeef",
		"value": "0x2a",
	}}

	to, data, value, err := decodeTxParams(params)
	require.NoError(t, err)
	assert.Equal(t, "0x5FF137D4b0FDCD49DcA30c7CF57E578a026d2789", to.Hex())
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, data)
	assert.Zero(t, value.Cmp(big.NewInt(42)))
}

func TestDecodeTxParamsDefaultsValue(t *testing.T) {
	_, _, value, err := decodeTxParams([]any{map[string]any{
		"to":   "0x5FF137D4b0FDCD49DcA30c7CF57E578a026d2789",
		"data": "0x00",
	}})
	require.NoError(t, err)
	assert.Zero(t, value.Sign())
}

func TestDecodeTxParamsRejects(t *testing.T) {
	tests := []struct {
		name   string
		params any
	}{
		{"empty list", []any{}},
		{"not a list", "0xdeadbeef"},
		{"bad target", []any{map[string]any{"to": "nope", "data": "0x00"}}},
		{"bad data", []any{map[string]any{"to": "0x5FF137D4b0FDCD49DcA30c7CF57E578a026d2789", "data": "zz"}}},
		{"bad value", []any{map[string]any{"to": "0x5FF137D4b0FDCD49DcA30c7CF57E578a026d2789", "data": "0x00", "value": "42"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := decodeTxParams(tt.params)
			assert.Error(t, err)
		})
	}
}

func TestNewSessionSigner(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	keyHex := hexutil.Encode(crypto.FromECDSA(key))

	// With and without the 0x prefix, and the address must match the key.
	want := crypto.PubkeyToAddress(key.PublicKey).Hex()
	for _, input := range []string{keyHex, strings.TrimPrefix(keyHex, "0x")} {
		signer, err := NewSessionSigner(input, nil)
		require.NoError(t, err)
		assert.Equal(t, want, signer.Address())
	}

	_, err = NewSessionSigner("not-a-key", nil)
	assert.Error(t, err)
}
