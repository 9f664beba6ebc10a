package clients

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitwit/paysession/types"
)

func signedTransfer(t *testing.T) (*solana.Transaction, solana.PrivateKey) {
	t.Helper()
	payer := solana.NewWallet().PrivateKey
	to := solana.NewWallet().PublicKey()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{system.NewTransferInstruction(1000, payer.PublicKey(), to).Build()},
		solana.Hash{},
		solana.TransactionPayer(payer.PublicKey()),
	)
	require.NoError(t, err)

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(payer.PublicKey()) {
			return &payer
		}
		return nil
	})
	require.NoError(t, err)
	return tx, payer
}

func TestDecodeTransaction(t *testing.T) {
	tx, payer := signedTransfer(t)
	raw, err := tx.MarshalBinary()
	require.NoError(t, err)

	decoded, err := DecodeTransaction(base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.True(t, decoded.Message.AccountKeys[0].Equals(payer.PublicKey()))
	assert.Equal(t, tx.Signatures[0], decoded.Signatures[0])
}

func TestDecodeTransaction_Invalid(t *testing.T) {
	_, err := DecodeTransaction("%%%")
	assert.Error(t, err)

	_, err = DecodeTransaction(base64.StdEncoding.EncodeToString([]byte{1, 2}))
	assert.Error(t, err)
}

func TestNewSolanaClient_RequiresURL(t *testing.T) {
	_, err := NewSolanaClient(types.ClusterDevnet, "")
	require.Error(t, err)
	assert.Equal(t, types.ErrConfigError, types.ErrorCode(err))
}

func TestSolanaClient_SendTransaction(t *testing.T) {
	tx, _ := signedTransfer(t)
	want := tx.Signatures[0]

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     any    `json:"id"`
			Method string `json:"method"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sendTransaction", req.Method)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  want.String(),
		})
	}))
	defer srv.Close()

	client, err := NewSolanaClient(types.ClusterDevnet, srv.URL)
	require.NoError(t, err)
	defer client.Close()

	sig, err := client.SendTransaction(context.Background(), tx)
	require.NoError(t, err)
	assert.Equal(t, want, sig)
	assert.Equal(t, types.ClusterDevnet, client.Cluster())
}
