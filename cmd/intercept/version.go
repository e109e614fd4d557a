package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/priceflex/intercept"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of intercept",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("intercept version %s\n", strings.TrimSpace(intercept.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
