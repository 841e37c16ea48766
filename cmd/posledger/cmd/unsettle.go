package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var unsettleCmd = &cobra.Command{
	Use:   "unsettle <exit-id>",
	Short: "Undo a recorded settlement",
	Long: `Unsettle restores the lots a settlement consumed and backs out its
realized PnL, resurrecting the position if the settlement had fully closed
it. Undo is idempotent: running it twice for the same exit-id is safe and
the second run reports nothing to do.`,
	Args: cobra.ExactArgs(1),
	RunE: runUnsettle,
}

func init() {
	rootCmd.AddCommand(unsettleCmd)
}

func runUnsettle(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	exitID := args[0]
	if !a.ledger.Unsettle(exitID) {
		if rec, ok := a.ledger.GetSettlementRecord(exitID); ok && rec.Undone {
			fmt.Printf("settlement %s was already undone\n", exitID)
		} else {
			fmt.Printf("no settlement recorded under %s\n", exitID)
		}
		return nil
	}

	fmt.Printf("settlement %s undone\n", exitID)
	return nil
}
