package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/compliance-sentinel/internal/advisory"
	"github.com/Veraticus/compliance-sentinel/internal/cli"
	"github.com/Veraticus/compliance-sentinel/internal/common"
	"github.com/Veraticus/compliance-sentinel/internal/config"
	"github.com/Veraticus/compliance-sentinel/internal/dashboard"
	"github.com/Veraticus/compliance-sentinel/internal/llm"
	"github.com/Veraticus/compliance-sentinel/internal/model"
	"github.com/Veraticus/compliance-sentinel/internal/storage"
	"github.com/Veraticus/compliance-sentinel/internal/tui"
)

// stores groups the two databases.
type stores struct {
	txns  *storage.TransactionStore
	rules *storage.RuleStore
}

// initStores opens both stores, creating and seeding them on first use.
func initStores(ctx context.Context) (stores, error) {
	dbCfg, err := config.LoadDatabase()
	if err != nil {
		return stores{}, err
	}

	txns, err := storage.NewTransactionStore(dbCfg.TransactionPath(), dbCfg.Driver)
	if err != nil {
		return stores{}, err
	}
	ruleStore, err := storage.NewRuleStore(dbCfg.RulePath(), dbCfg.Driver)
	if err != nil {
		return stores{}, err
	}

	if err := txns.Initialize(ctx); err != nil {
		return stores{}, common.NewUserError("Failed to open transaction database at "+dbCfg.TransactionPath(), err)
	}
	if err := ruleStore.Initialize(ctx); err != nil {
		return stores{}, common.NewUserError("Failed to open rule database at "+dbCfg.RulePath(), err)
	}

	slog.Debug("Stores ready",
		"transactions", txns.Path(),
		"rules", ruleStore.Path(),
		"driver", dbCfg.Driver)
	return stores{txns: txns, rules: ruleStore}, nil
}

// newAdvisor builds the advisory client from llm.* settings. With
// --prompt-key and no configured key, the key is asked for interactively.
func newAdvisor(cmd *cobra.Command) (*advisory.Client, config.LLM, error) {
	llmCfg, err := config.LoadLLM()
	if err != nil {
		return nil, config.LLM{}, err
	}

	apiKey := llmCfg.APIKey
	promptKey, _ := cmd.Flags().GetBool("prompt-key")
	if apiKey == "" && promptKey {
		apiKey, err = tui.PromptAPIKey(cmd.Context(), llmCfg.Provider, cmd.InOrStdin(), cmd.ErrOrStderr())
		if err != nil {
			return nil, config.LLM{}, err
		}
	}

	client, err := advisory.New(apiKey, providerFactory(llmCfg))
	if err != nil {
		return nil, config.LLM{}, fmt.Errorf("failed to create advisory client: %w", err)
	}
	if !client.HasCredential() {
		slog.Warn("No API key configured; advisory actions are disabled",
			"provider", llmCfg.Provider,
			"env", config.KeyEnvVar(llmCfg.Provider))
	}
	return client, llmCfg, nil
}

// providerFactory maps configuration onto provider settings.
func providerFactory(cfg config.LLM) advisory.ProviderFactory {
	return func(ctx context.Context, apiKey string) (llm.Client, error) {
		return llm.NewClient(ctx, llm.Config{
			Provider:    cfg.Provider,
			APIKey:      apiKey,
			Model:       cfg.Model,
			BaseURL:     cfg.BaseURL,
			MaxRetries:  cfg.MaxRetries,
			RetryDelay:  cfg.RetryDelay,
			Timeout:     cfg.Timeout,
			RateLimit:   cfg.RateLimit,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		})
	}
}

// session is everything a command needs to run dashboard handlers.
type session struct {
	svc     *dashboard.Service
	advisor *advisory.Client
}

func (s session) Close() {
	if s.advisor != nil {
		s.advisor.Close()
	}
}

// newSession opens the stores and the advisory client.
func newSession(cmd *cobra.Command) (session, error) {
	st, err := initStores(cmd.Context())
	if err != nil {
		return session{}, err
	}
	advisor, _, err := newAdvisor(cmd)
	if err != nil {
		return session{}, err
	}
	return session{
		svc:     newDashboardService(st, advisor),
		advisor: advisor,
	}, nil
}

func newDashboardService(st stores, advisor dashboard.Advisor) *dashboard.Service {
	return dashboard.New(st.txns, st.rules, advisor)
}

func newRenderer() *cli.MarkdownRenderer {
	renderer, err := cli.NewMarkdownRenderer(100, "")
	if err != nil {
		slog.Debug("Markdown renderer unavailable", "error", err)
		return nil
	}
	return renderer
}

func printTransactions(w io.Writer, txns []model.Transaction) error {
	rows := make([][]string, 0, len(txns))
	for _, txn := range txns {
		rows = append(rows, []string{
			txn.ID,
			txn.User,
			strconv.FormatFloat(txn.Amount, 'f', 2, 64),
			string(txn.Type),
			txn.Timestamp,
			txn.Location,
			txn.Reason,
			string(txn.Flag),
		})
	}
	return printTable(w, []string{"ID", "USER", "AMOUNT", "TYPE", "TIMESTAMP", "LOCATION", "REASON", "FLAG"}, rows,
		func(i int, line string) string {
			if txns[i].IsSuspicious() {
				return cli.ErrorStyle.Render(line)
			}
			return line
		})
}

func printRules(w io.Writer, ruleList []model.Rule) error {
	rows := make([][]string, 0, len(ruleList))
	for _, r := range ruleList {
		rows = append(rows, []string{strconv.FormatInt(r.ID, 10), r.Category, r.Text, r.LastUpdated})
	}
	return printTable(w, []string{"ID", "CATEGORY", "RULE", "UPDATED"}, rows, nil)
}

// printTable aligns rows with tabwriter, then styles whole lines so escape
// codes do not skew the column widths.
func printTable(w io.Writer, header []string, rows [][]string, style func(row int, line string) string) error {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for i, line := range lines {
		switch {
		case i == 0:
			line = cli.TableHeaderStyle.Render(line)
		case style != nil:
			line = style(i-1, line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// logFile redirects logging to path so it does not draw over the dashboard.
func logFile(path string) (*os.File, error) {
	// #nosec G304 -- path is derived from the configured data directory
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
