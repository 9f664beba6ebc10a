// Package verification checks backend-built payment transactions before a
// wallet is asked to sign them.
package verification

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/vitwit/paysession/types"
)

// VerificationResult describes why a transaction was rejected.
type VerificationResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// Inspect reports whether tx is a payment the payer can sign: it must
// carry a blockhash and at least one instruction, and it must require the
// payer's signature.
func Inspect(tx *solana.Transaction, payer solana.PublicKey) *VerificationResult {
	if tx == nil {
		return invalid("transaction is empty")
	}

	if len(tx.Message.Instructions) == 0 {
		return invalid("transaction has no instructions")
	}

	if tx.Message.RecentBlockhash == (solana.Hash{}) {
		return invalid("transaction has no recent blockhash")
	}

	if !tx.IsSigner(payer) {
		return invalid(fmt.Sprintf("transaction does not require a signature from %s", payer))
	}

	for i, inst := range tx.Message.Instructions {
		if int(inst.ProgramIDIndex) >= len(tx.Message.AccountKeys) {
			return invalid(fmt.Sprintf("instruction %d references unknown program", i))
		}
	}

	return &VerificationResult{Valid: true}
}

// VerifyTransaction is Inspect as an error. Rejections carry the
// TRANSACTION_CREATION_FAILED code.
func VerifyTransaction(tx *solana.Transaction, payer string) error {
	key, err := solana.PublicKeyFromBase58(payer)
	if err != nil {
		return types.NewError(types.ErrTransactionCreationFailed, types.MsgTransactionCreationFailed, fmt.Errorf("invalid payer address: %w", err))
	}

	if res := Inspect(tx, key); !res.Valid {
		return types.NewError(types.ErrTransactionCreationFailed, types.MsgTransactionCreationFailed, fmt.Errorf("%s", res.Reason))
	}
	return nil
}

func invalid(reason string) *VerificationResult {
	return &VerificationResult{Valid: false, Reason: reason}
}
