package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/priceflex/intercept/internal/validator"
	loamAdapter "github.com/priceflex/intercept/pkg/adapters/loam"
	"github.com/priceflex/intercept/pkg/domain"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check the records repository for consistency",
	Long:  `Loads every pfxInterceptor_* record and reports unknown binding names, empty refs and duplicate claims.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd, args); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("records")
	if !cmd.Flags().Changed("records") && len(args) > 0 {
		dir = args[0]
	}

	src, err := loamAdapter.Open(dir)
	if err != nil {
		return fmt.Errorf("failed to open records: %w", err)
	}

	// Handler refs live in host code, so ref resolution is skipped here.
	report, err := validator.Validate(cmd.Context(), src, domain.DefaultActions(), nil)
	if err != nil {
		return err
	}
	if err := report.Err(); err != nil {
		return err
	}

	fmt.Printf("Records are valid! ✅ (%d records, %d bindings)\n", report.Records, report.Bindings)
	return nil
}
