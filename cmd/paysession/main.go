package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vitwit/paysession"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "paysession",
		Short:         "Follow and pay hosted checkout sessions from the terminal",
		Version:       paysession.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "YAML config file")
	flags.StringSlice("env-file", []string{".env"}, "dotenv files applied over the config")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("metrics-addr", "", "Serve Prometheus metrics on this address")

	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(payCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), paysession.Version)
		},
	}
}
