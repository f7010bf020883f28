package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "console",
	Short:         "console serves the gateway web-console API",
	SilenceUsage: true,
}

func main() {
	cobra.CheckErr(rootCmd.Execute())
}
