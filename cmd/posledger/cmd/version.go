package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("posledger version %s\n", version)
		fmt.Println("A multi-tenant position ledger with lot-level cost basis")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
