package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/posledger/config"
	"github.com/rustyeddy/posledger/journal"
	"github.com/rustyeddy/posledger/ledger"
	"github.com/rustyeddy/posledger/pkg/logx"
	"github.com/rustyeddy/posledger/store"
)

var (
	cfgFile string
	tenant  string
)

var rootCmd = &cobra.Command{
	Use:   "posledger",
	Short: "A multi-tenant position ledger with lot-level cost basis",
	Long: `Posledger tracks open trading positions per symbol, side and tenant.

It provides:
  - Entry fills accumulated as cost-basis lots
  - FIFO settlement realizing PnL at consumed lot prices
  - LIFO correction of mistaken entries
  - Exact, idempotent undo of any recorded settlement
  - A Pebble-backed mirror of ledger state
  - A SQLite/CSV journal of closed trades`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default built-in)")
	rootCmd.PersistentFlags().StringVarP(&tenant, "tenant", "t", "", "tenant id (default tenant when empty)")
}

// app is the composition root: config, logger, ledger, persistence sink and
// journal bridge wired together for the duration of one command.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	ledger *ledger.Ledger
	sink   *store.Sink
	bridge *journal.Bridge

	unsubscribe func()
}

func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(cfgFile)
}

func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	var log *zap.Logger
	if cfg.Log.File != "" {
		log, err = logx.NewWithFile(cfg.Log.Level, cfg.Log.File)
	} else {
		log, err = logx.New(cfg.Log.Level)
	}
	if err != nil {
		return nil, err
	}

	sink, err := store.Open(cfg.Store.Path, log)
	if err != nil {
		return nil, err
	}

	led := ledger.New()
	unsubscribe, err := sink.Attach(led)
	if err != nil {
		sink.Close()
		return nil, err
	}

	var dest journal.Journal
	switch cfg.Journal.Type {
	case "csv":
		dest, err = journal.NewCSV(cfg.Journal.CSVPath)
	default:
		dest, err = journal.NewSQLite(cfg.Journal.DBPath)
	}
	if err != nil {
		unsubscribe()
		sink.Close()
		return nil, err
	}

	return &app{
		cfg:         cfg,
		log:         log,
		ledger:      led,
		sink:        sink,
		bridge:      journal.NewBridge(dest, log),
		unsubscribe: unsubscribe,
	}, nil
}

// tenantID resolves the --tenant flag against the configured default.
func (a *app) tenantID() string {
	if tenant != "" {
		return tenant
	}
	if a.cfg.Ledger.DefaultTenant != "" {
		return a.cfg.Ledger.DefaultTenant
	}
	return ledger.DefaultTenant
}

func (a *app) close() {
	a.unsubscribe()
	if err := a.bridge.Close(); err != nil {
		a.log.Warn("close journal", zap.Error(err))
	}
	if err := a.sink.Close(); err != nil {
		a.log.Warn("close store", zap.Error(err))
	}
	_ = a.log.Sync()
}
