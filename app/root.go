// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "go-cadet-admin",
	Short: "GoCadetAdmin is a web-based management tool for youth cadet units",
	Long: `GoCadetAdmin is a web-based management tool for youth cadet units
that provides an easy-to-use interface for managing members, activities,
attendance, equipment and member progression.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
