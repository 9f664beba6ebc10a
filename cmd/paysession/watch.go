package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vitwit/paysession/session"
	"github.com/vitwit/paysession/types"
	"github.com/vitwit/paysession/utils"
)

func watchCmd() *cobra.Command {
	var (
		coin     string
		network  string
		pay      bool
		showTime bool
	)

	cmd := &cobra.Command{
		Use:   "watch <session-url-or-key>",
		Short: "Follow a payment session until it completes or expires",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := utils.SessionKeyFromURL(args[0])
			if err != nil {
				return err
			}

			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			term := newTerminal(cmd.OutOrStdout(), !showTime)

			var ctrl *session.Controller
			auto := func(state types.UIState) {
				if state != types.StateChoose || coin == "" {
					return
				}
				go func() {
					ctrl.SelectCoin(types.ParseCoin(coin))
					if network != "" {
						ctrl.SelectNetwork(types.ParseNetwork(network))
					}
					if pay {
						ctrl.Pay()
					}
				}()
			}

			ctrl, err = rt.client.NewSession(key, term.Elements(), term, session.OnStateChange(auto))
			if err != nil {
				return err
			}

			rt.log.Info("watching session", map[string]any{"session": key, "server": rt.client.Config().ServerURL})

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			if err := ctrl.Run(ctx); err != nil {
				return fmt.Errorf("session %s: %w", key, err)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&coin, "coin", "", "Coin to select once the payment is created")
	flags.StringVar(&network, "network", "", "Network to select after the coin")
	flags.BoolVar(&pay, "pay", false, "Request the QR code once coin and network are selected")
	flags.BoolVar(&showTime, "show-countdown", false, "Print every countdown tick")

	return cmd
}
