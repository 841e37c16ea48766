package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/posledger/journal"
	"github.com/rustyeddy/posledger/ledger"
	"github.com/rustyeddy/posledger/pkg/id"
)

var settleExitID string

var settleCmd = &cobra.Command{
	Use:   "settle <symbol> <side> <price> <qty>",
	Short: "Settle (exit) part or all of a position",
	Long: `Settle consumes lots oldest-first at the given exit price, realizing
profit or loss at each consumed lot's entry price. The settlement is recorded
under an exit-event id so it can be undone later; pass --exit-id to supply
your own (e.g. the id of the exit message), otherwise one is generated.

A full close archives the trade to the journal.`,
	Args: cobra.ExactArgs(4),
	RunE: runSettle,
}

func init() {
	rootCmd.AddCommand(settleCmd)
	settleCmd.Flags().StringVar(&settleExitID, "exit-id", "", "exit-event id for undo (generated when empty)")
}

func runSettle(cmd *cobra.Command, args []string) error {
	symbol, side, price, qty, err := parseFill(args)
	if err != nil {
		return err
	}
	exitID := settleExitID
	if exitID == "" {
		exitID = id.New()
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	tenantID := a.tenantID()
	res, err := a.ledger.Settle(symbol, side, price, qty, tenantID)
	if err != nil {
		return err
	}

	// Second step of the settle/record protocol. Not atomic: the trade is
	// realized either way, and only undo availability is at stake.
	a.ledger.RecordSettlement(exitID, ledger.SettlementRecord{
		Symbol:      symbol,
		Side:        side,
		TenantID:    tenantID,
		ExitPrice:   price,
		ExitQty:     qty,
		RealizedPnl: res.RealizedPnl,
		MatchedLots: res.MatchedLots,
	})

	fmt.Printf("settled %d %s %s @ %s: realized %s (exit-id %s)\n",
		qty, symbol, side, price, res.RealizedPnl, exitID)

	if res.Position != nil {
		fmt.Printf("remaining: qty %d @ avg %s\n", res.Position.QtyTotal, res.Position.AvgPrice)
	}
	if res.Snapshot != nil {
		if err := a.bridge.Archive(journal.FromSnapshot(*res.Snapshot)); err != nil {
			a.log.Warn("archive queued for retry", zap.String("trade_id", res.Snapshot.TradeID), zap.Error(err))
		}
		fmt.Printf("position closed: %d shares, pnl %s (%s%%), held %s\n",
			res.Snapshot.Qty, res.Snapshot.PnlAbs, res.Snapshot.PnlPct.StringFixed(2), res.Snapshot.HoldDuration)
	}
	return nil
}
