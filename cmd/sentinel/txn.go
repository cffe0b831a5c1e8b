package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/compliance-sentinel/internal/advisory"
	"github.com/Veraticus/compliance-sentinel/internal/cli"
	"github.com/Veraticus/compliance-sentinel/internal/common"
	"github.com/Veraticus/compliance-sentinel/internal/dashboard"
	"github.com/Veraticus/compliance-sentinel/internal/model"
	"github.com/Veraticus/compliance-sentinel/internal/ofx"
)

func txnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "txn",
		Short: "Monitor transactions",
		Long:  `List, inject, simulate, import and analyze monitored transactions.`,
	}

	cmd.AddCommand(txnListCmd())
	cmd.AddCommand(txnInjectCmd())
	cmd.AddCommand(txnAnalyzeCmd())
	cmd.AddCommand(txnSimulateCmd())
	cmd.AddCommand(txnImportCmd())

	return cmd
}

func txnListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the transaction ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			suspiciousOnly, _ := cmd.Flags().GetBool("suspicious")

			st, err := initStores(cmd.Context())
			if err != nil {
				return err
			}
			txns, err := st.txns.ListAll(cmd.Context())
			if err != nil {
				return err
			}

			suspicious := 0
			shown := make([]model.Transaction, 0, len(txns))
			for _, txn := range txns {
				if txn.IsSuspicious() {
					suspicious++
				} else if suspiciousOnly {
					continue
				}
				shown = append(shown, txn)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle("Transaction Ledger"))
			if err := printTransactions(out, shown); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nTotal: %d  Suspicious: %d\n", len(txns), suspicious)
			return nil
		},
	}

	cmd.Flags().Bool("suspicious", false, "show only suspicious transactions")
	return cmd
}

func txnInjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inject",
		Short: "Inject a manual transfer",
		Long: `Inject a manual transfer, classify it, and append it to the ledger.

Examples:
  # Structuring just under the reporting threshold
  sentinel txn inject --user USER_002 --amount 9900 --location Malta

  # Sanctioned destination
  sentinel txn inject --user USER_005 --amount 500 --location Iran`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, _ := cmd.Flags().GetString("user")
			amount, _ := cmd.Flags().GetFloat64("amount")
			location, _ := cmd.Flags().GetString("location")

			if !model.KnownCustomer(user) {
				slog.Warn("User is not in the customer directory", "user", user)
			}

			sess, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			txn, err := sess.svc.Inject(cmd.Context(), dashboard.InjectRequest{
				User:     user,
				Amount:   amount,
				Location: location,
			})
			if err != nil {
				return common.NewUserError("Failed to inject transaction", err)
			}

			printRecorded(cmd, txn)
			return nil
		},
	}

	cmd.Flags().String("user", "USER_001", "customer id")
	cmd.Flags().Float64("amount", 10000, "amount in USD")
	cmd.Flags().String("location", "Russia", "destination country")
	return cmd
}

func printRecorded(cmd *cobra.Command, txn model.Transaction) {
	out := cmd.OutOrStdout()
	if txn.IsSuspicious() {
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%s flagged %s: %s", txn.ID, txn.Flag, txn.Reason)))
		return
	}
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%s recorded as %s", txn.ID, txn.Flag)))
}

func txnAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <id>",
		Short: "Ask the AI Risk Detective about a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			report, err := sess.svc.AnalyzeByID(cmd.Context(), args[0])
			if errors.Is(err, common.ErrNotFound) {
				return common.NewUserError(fmt.Sprintf("Transaction %s not found", args[0]), err)
			}
			if err != nil && !isAdvisoryOutcome(err) {
				return err
			}

			out := cmd.OutOrStdout()
			txn := report.Transaction
			fmt.Fprintln(out, cli.FormatTitle("AI Risk Detective"))
			fmt.Fprintf(out, "%s  %s (%s, %s risk)\n", txn.ID, report.Customer.Name, txn.User, report.Customer.RiskProfile)
			fmt.Fprintf(out, "$%.2f %s in %s  %s\n", txn.Amount, txn.Type, txn.Location, cli.FormatFlag(txn.Flag))
			fmt.Fprintln(out, cli.RenderBox(cli.RobotIcon+" Analysis", newRenderer().Render(advisory.Display(report.Advice, err))))
			return nil
		},
	}
}

func txnSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Inject a batch of random transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			count, _ := cmd.Flags().GetInt("count")
			if count <= 0 {
				return fmt.Errorf("count must be positive, got %d", count)
			}

			st, err := initStores(cmd.Context())
			if err != nil {
				return err
			}
			svc := newDashboardService(st, nil)

			handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
			ctx, stop := handler.HandleInterrupts(cmd.Context(), "Simulation", true)
			defer stop()

			bar := cli.NewProgressBar(cmd.ErrOrStderr(), count, "Simulating")
			flagged := 0
			txns, err := svc.Simulate(ctx, count, func(txn model.Transaction) {
				if txn.IsSuspicious() {
					flagged++
				}
				cli.Advance(bar)
			})
			if err != nil && !handler.WasInterrupted() {
				return fmt.Errorf("simulation stopped after %d transactions: %w", len(txns), err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("Injected %d transactions, %d flagged suspicious", len(txns), flagged)))
			return nil
		},
	}

	cmd.Flags().IntP("count", "n", 25, "number of transactions to inject")
	return cmd
}

func txnImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import transactions from an OFX/QFX file",
		Long: `Import a bank or credit card statement. Credits become deposits and debits
become withdrawals; each one is classified and appended under TXN_<FITID>.
The statement has no owner, so --user is required.

Examples:
  sentinel txn import ~/Downloads/statement.qfx --user USER_006 --location Germany`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")
			location, _ := cmd.Flags().GetString("location")

			// #nosec G304 -- user-supplied statement path
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read statement: %w", err)
			}

			parser := ofx.NewParser()
			txns, err := parser.ParseFile(cmd.Context(), bytes.NewReader(data), ofx.Options{User: user, Location: location})
			if err != nil {
				return common.NewUserError("Failed to parse statement", err)
			}
			if accounts, err := parser.GetAccounts(cmd.Context(), bytes.NewReader(data)); err == nil {
				slog.Info("Parsed statement", "file", args[0], "accounts", accounts, "transactions", len(txns))
			}
			if len(txns) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No transactions found in statement"))
				return nil
			}

			st, err := initStores(cmd.Context())
			if err != nil {
				return err
			}
			svc := newDashboardService(st, nil)

			bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(txns), "Importing")
			stored, err := svc.ImportTransactions(cmd.Context(), txns)
			_ = bar.Set(stored)
			if err != nil {
				return common.NewUserError(fmt.Sprintf("Import stopped after %d of %d transactions", stored, len(txns)), err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Imported %d transactions", stored)))
			return nil
		},
	}

	cmd.Flags().String("user", "", "customer id that owns the statement")
	cmd.Flags().String("location", "", "location recorded for every imported transaction")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
