package cmd

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/posledger/ledger"
)

var (
	enterName    string
	enterNote    string
	enterPattern string
)

var enterCmd = &cobra.Command{
	Use:   "enter <symbol> <side> <price> <qty>",
	Short: "Record an entry fill",
	Long: `Record an entry fill, creating the position on the first fill.

Examples:
  posledger enter AAPL long 150.25 100
  posledger enter BTCUSD short 64210 2 --tenant alice --name "swing short"`,
	Args: cobra.ExactArgs(4),
	RunE: runEnter,
}

func init() {
	rootCmd.AddCommand(enterCmd)
	enterCmd.Flags().StringVar(&enterName, "name", "", "display name for the position")
	enterCmd.Flags().StringVar(&enterNote, "note", "", "free-form note")
	enterCmd.Flags().StringVar(&enterPattern, "pattern", "", "chart-pattern tag")
}

func runEnter(cmd *cobra.Command, args []string) error {
	symbol, side, price, qty, err := parseFill(args)
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	var opts []ledger.EnterOption
	if enterName != "" {
		opts = append(opts, ledger.WithName(enterName))
	}
	if enterNote != "" {
		opts = append(opts, ledger.WithNote(enterNote))
	}
	if enterPattern != "" {
		opts = append(opts, ledger.WithPattern(enterPattern))
	}

	pos, err := a.ledger.Enter(symbol, side, price, qty, a.tenantID(), opts...)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s %s: qty %d @ avg %s (trade %s)\n",
		pos.TenantID, pos.Symbol, pos.Side, pos.QtyTotal, pos.AvgPrice, pos.TradeID)
	return nil
}

func parseFill(args []string) (symbol string, side ledger.Side, price decimal.Decimal, qty int64, err error) {
	symbol = args[0]

	side, err = ledger.ParseSide(args[1])
	if err != nil {
		return "", "", decimal.Zero, 0, err
	}

	price, err = decimal.NewFromString(args[2])
	if err != nil {
		return "", "", decimal.Zero, 0, fmt.Errorf("bad price %q: %w", args[2], err)
	}

	qty, err = strconv.ParseInt(args[3], 10, 64)
	if err != nil {
		return "", "", decimal.Zero, 0, fmt.Errorf("bad qty %q: %w", args[3], err)
	}
	return symbol, side, price, qty, nil
}
