package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "List the tenant's open positions grouped by symbol",
	Args:  cobra.NoArgs,
	RunE:  runPositions,
}

var qtyCmd = &cobra.Command{
	Use:   "qty <symbol>",
	Short: "Show held quantity on each side of a symbol",
	Args:  cobra.ExactArgs(1),
	RunE:  runQty,
}

func init() {
	rootCmd.AddCommand(positionsCmd)
	rootCmd.AddCommand(qtyCmd)
}

func runPositions(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	groups := a.ledger.Groups(a.tenantID())
	if len(groups) == 0 {
		fmt.Printf("no open positions for tenant %s\n", a.tenantID())
		return nil
	}

	symbols := make([]string, 0, len(groups))
	for symbol := range groups {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	for _, symbol := range symbols {
		fmt.Println(symbol)
		for _, pos := range groups[symbol] {
			name := ""
			if pos.Meta != nil && pos.Meta.Name != "" {
				name = "  (" + pos.Meta.Name + ")"
			}
			fmt.Printf("  %-5s %6d @ %s  realized %s  lots %d%s\n",
				pos.Side, pos.QtyTotal, pos.AvgPrice, pos.RealizedPnl, len(pos.Lots), name)
		}
	}
	return nil
}

func runQty(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	long, short := a.ledger.LongShortQty(args[0], a.tenantID())
	fmt.Printf("%s: long %d, short %d\n", args[0], long, short)
	return nil
}
