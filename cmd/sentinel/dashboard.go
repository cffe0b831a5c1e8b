package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/compliance-sentinel/internal/common"
	"github.com/Veraticus/compliance-sentinel/internal/config"
	"github.com/Veraticus/compliance-sentinel/internal/tui"
	"github.com/Veraticus/compliance-sentinel/internal/tui/themes"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive compliance dashboard",
		Long: `Open the two-tab compliance dashboard:

  Behavioral Monitoring     metrics, the transaction ledger, manual injection,
                            and AI risk analysis of the selected transaction
  Regulatory Intelligence   internal rules, impact assessment of new regulation,
                            and automatic rule updates

Without an API key the dashboard starts in Manual Mode and asks for one.
Logs are written to sentinel.log in the data directory.`,
		Args: cobra.NoArgs,
		RunE: runDashboard,
	}

	cmd.Flags().String("theme", "default", "color theme (default, catppuccin-mocha)")
	return cmd
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	dbCfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}

	st, err := initStores(cmd.Context())
	if err != nil {
		return err
	}

	// Move logging off the terminal before the alt screen opens.
	f, err := logFile(filepath.Join(dbCfg.Dir, "sentinel.log"))
	if err != nil {
		return err
	}
	defer f.Close()

	level, err := common.ParseLevel(viper.GetString("logging.level"))
	if err != nil {
		return err
	}
	logger, err := common.NewLogger(f, level, viper.GetString("logging.format"))
	if err != nil {
		return err
	}
	previous := slog.Default()
	slog.SetDefault(logger)
	defer slog.SetDefault(previous)

	advisor, llmCfg, err := newAdvisor(cmd)
	if err != nil {
		return err
	}
	defer advisor.Close()

	svc := newDashboardService(st, advisor)
	themeName, _ := cmd.Flags().GetString("theme")

	slog.Info("Dashboard starting", "data_dir", dbCfg.Dir, "provider", llmCfg.Provider)
	if err := tui.Run(cmd.Context(), svc,
		tui.WithTheme(themes.GetTheme(themeName)),
		tui.WithRenderer(newRenderer()),
		tui.WithProvider(llmCfg.Provider),
	); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
