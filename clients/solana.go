package clients

import (
	"context"
	"encoding/base64"
	"fmt"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/vitwit/paysession/types"
)

// SolanaClient is the direct network connection used when a wallet can
// sign but not submit.
type SolanaClient struct {
	cluster types.SolanaCluster
	rpcURL  string
	client  *rpc.Client
}

// NewSolanaClient creates a Solana JSON-RPC client
func NewSolanaClient(cluster types.SolanaCluster, rpcURL string) (*SolanaClient, error) {
	if rpcURL == "" {
		return nil, types.NewError(types.ErrConfigError, "solana rpc url is required", nil)
	}

	return &SolanaClient{
		cluster: cluster,
		rpcURL:  rpcURL,
		client:  rpc.New(rpcURL),
	}, nil
}

// DecodeTransaction deserialises a base64 encoded wire transaction.
func DecodeTransaction(b64 string) (*solana.Transaction, error) {
	txBytes, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("invalid tx base64: %w", err)
	}

	tx, err := solana.TransactionFromDecoder(binary.NewBinDecoder(txBytes))
	if err != nil {
		return nil, fmt.Errorf("tx decode failed: %w", err)
	}

	return tx, nil
}

// SendTransaction broadcasts a signed transaction with preflight checks
// at confirmed commitment.
func (s *SolanaClient) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := s.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("broadcast failed: %w", err)
	}
	return sig, nil
}

// ConfirmationStatus returns the cluster's view of a signature, or an
// empty status when the signature is not known yet.
func (s *SolanaClient) ConfirmationStatus(ctx context.Context, sig solana.Signature) (rpc.ConfirmationStatusType, error) {
	status, err := s.client.GetSignatureStatuses(ctx, false, sig)
	if err != nil {
		return "", fmt.Errorf("signature status: %w", err)
	}
	if status == nil || len(status.Value) == 0 || status.Value[0] == nil {
		return "", nil
	}
	return status.Value[0].ConfirmationStatus, nil
}

func (s *SolanaClient) Cluster() types.SolanaCluster { return s.cluster }

func (s *SolanaClient) Close() error {
	return s.client.Close()
}
