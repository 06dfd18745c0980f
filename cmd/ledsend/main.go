package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &sendOptions{}

	cmd := &cobra.Command{
		Use:   "ledsend",
		Short: "Send frames and patterns to a matrix server",
		Long: `Send frames and patterns to a matrix server.

The server clears the matrix when the connection closes, so commands that
show something keep the connection open for --hold.

Examples:
  ledsend setup 8 32
  ledsend image --rows 8 --cols 32 logo.svg
  ledsend image --rows 8 --cols 32 --hold 10s photo.png
  ledsend pattern 2 --rows 8 --cols 32`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.addr, "addr", "a", "localhost:65432", "server address")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", defaultDialTimeout, "dial timeout")

	cmd.AddCommand(
		setupCmd(opts),
		imageCmd(opts),
		patternCmd(opts),
	)
	return cmd
}
