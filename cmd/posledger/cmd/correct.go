package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var correctCmd = &cobra.Command{
	Use:   "correct <symbol> <side> <lot-price> <qty>",
	Short: "Retract a prior entry without realizing a trade",
	Long: `Correct removes shares from the newest lots backward, for when an
entry was recorded by mistake. No profit or loss is realized and a position
emptied by a correction leaves no journal record.`,
	Args: cobra.ExactArgs(4),
	RunE: runCorrect,
}

func init() {
	rootCmd.AddCommand(correctCmd)
}

func runCorrect(cmd *cobra.Command, args []string) error {
	symbol, side, lotPrice, qty, err := parseFill(args)
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	if !a.ledger.CorrectEntry(symbol, side, lotPrice, qty, a.tenantID()) {
		return fmt.Errorf("no open %s %s position for tenant %s", symbol, side, a.tenantID())
	}

	long, short := a.ledger.LongShortQty(symbol, a.tenantID())
	fmt.Printf("corrected %d %s %s: now long %d / short %d\n", qty, symbol, side, long, short)
	return nil
}
