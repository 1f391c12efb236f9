package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "bfsiocr",
		Short:        "Financial document OCR, market data, clustering and student loan tools",
		SilenceUsage: true,
	}

	cmd.AddCommand(serveCmd())
	return cmd
}
