package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vitwit/paysession"
	"github.com/vitwit/paysession/session"
	"github.com/vitwit/paysession/types"
	"github.com/vitwit/paysession/utils"
	"github.com/vitwit/paysession/wallet"
)

func payCmd() *cobra.Command {
	var (
		keypair        string
		confirmTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "pay <session-url-or-key>",
		Short: "Pay a session with USDC on Solana from a local keypair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := utils.SessionKeyFromURL(args[0])
			if err != nil {
				return err
			}

			sel, err := wallet.NewKeypairSelector(keypair)
			if err != nil {
				return err
			}

			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			term := newTerminal(cmd.OutOrStdout(), true)

			var checkout *paysession.Checkout
			drive := func(state types.UIState) {
				switch state {
				case types.StateChoose:
					go func() {
						checkout.Session.SelectCoin(types.CoinUSDC)
						checkout.Session.SelectNetwork(types.NetworkSolana)
						checkout.Session.Pay()
					}()
				case types.StatePayment:
					go checkout.Session.PayWithWallet()
				}
			}

			checkout, err = rt.client.NewCheckout(key, term.Elements(), term, sel, nil, session.OnStateChange(drive))
			if err != nil {
				return err
			}

			cluster := rt.client.Solana().Cluster()
			rt.log.Info("paying session", map[string]any{"session": key, "cluster": cluster, "testnet": cluster.IsTestnet()})

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			if err := checkout.Wallet.Connect(ctx); err != nil {
				return err
			}
			defer checkout.Wallet.Disconnect(ctx)

			if err := checkout.Session.Run(ctx); err != nil {
				return fmt.Errorf("session %s: %w", key, err)
			}

			snap := checkout.Session.Snapshot()
			if snap.State != types.StateCompleted {
				return fmt.Errorf("session %s ended in state %s", key, snap.State)
			}
			if snap.Signature == "" || confirmTimeout <= 0 {
				return nil
			}

			res, err := rt.client.NewConfirmer(confirmTimeout).Await(ctx, snap.Signature)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&keypair, "keypair", "k", "", "solana-keygen JSON keypair file")
	flags.DurationVar(&confirmTimeout, "confirm-timeout", 0, "Wait this long for the payment to reach confirmed commitment")
	cmd.MarkFlagRequired("keypair")

	return cmd
}
