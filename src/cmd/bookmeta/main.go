package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bookmeta/src/cmd/bookmeta/extractcmd"
	"bookmeta/src/cmd/bookmeta/listcmd"
	"bookmeta/src/cmd/bookmeta/matchcmd"
	"bookmeta/src/cmd/bookmeta/submitcmd"
)

var rootCmd = &cobra.Command{
	Use:           "bookmeta",
	Short:         "Extract book metadata from retailer and catalog pages",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default $BOOKMETA_CONFIG or $XDG_CONFIG_HOME/bookmeta/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "log extraction stages to stderr")
}

func execute() error {
	rootCmd.AddCommand(extractcmd.New())
	rootCmd.AddCommand(matchcmd.New())
	rootCmd.AddCommand(listcmd.New())
	rootCmd.AddCommand(submitcmd.New())
	return rootCmd.Execute()
}

func main() {
	if err := execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
