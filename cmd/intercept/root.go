package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "intercept",
	Short: "intercept is the PriceFlex PRE/POST extension engine",
	Long: `intercept lets customer handlers run before and after the built-in actions
of a hosted PriceFlex application. The CLI hosts a demo engine around a
pfxInterceptor_* records repository.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("records", ".", "Directory containing the pfxInterceptor_* records")
}
