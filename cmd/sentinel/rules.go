package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Veraticus/compliance-sentinel/internal/advisory"
	"github.com/Veraticus/compliance-sentinel/internal/cli"
	"github.com/Veraticus/compliance-sentinel/internal/common"
	"github.com/Veraticus/compliance-sentinel/internal/dashboard"
	"github.com/Veraticus/compliance-sentinel/internal/model"
	"github.com/Veraticus/compliance-sentinel/internal/rules"
)

var errUnknownFormat = errors.New("unknown export format")

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage internal regulations",
		Long:  `List, assess, update and export the internal regulation database.`,
	}

	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesAssessCmd())
	cmd.AddCommand(rulesUpdateCmd())
	cmd.AddCommand(rulesExportCmd())

	return cmd
}

func rulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List internal regulations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := initStores(cmd.Context())
			if err != nil {
				return err
			}
			ruleList, err := st.rules.ListAll(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatTitle("Internal Regulations"))
			return printRules(cmd.OutOrStdout(), ruleList)
		},
	}
}

func rulesAssessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assess <text>",
		Short: "Assess how regulatory news affects current rules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			advice, err := sess.svc.AssessImpact(cmd.Context(), strings.Join(args, " "))
			if err != nil && !isAdvisoryOutcome(err) {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatTitle("Regulatory Impact"))
			fmt.Fprintln(cmd.OutOrStdout(), newRenderer().Render(advisory.Display(advice, err)))
			return nil
		},
	}
}

// isAdvisoryOutcome reports whether err is shown as advice text rather than
// failing the command.
func isAdvisoryOutcome(err error) bool {
	return errors.Is(err, advisory.ErrMissingCredential) || errors.Is(err, advisory.ErrCompletionFailed)
}

func rulesUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <text>",
		Short: "Write regulatory text into the matching rule",
		Long: `Write regulatory text into a rule. The category is --category when given,
otherwise the first keyword found (Crypto, AML, KYC) picks it, and anything
else goes to General. The stored text is marked as updated via AI.

Examples:
  sentinel rules update "Crypto Travel Rule threshold lowered to \$1,000."
  sentinel rules update "Enhanced due diligence for PEPs." --category "KYC Requirement" --yes`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, _ := cmd.Flags().GetString("category")
			yes, _ := cmd.Flags().GetBool("yes")
			text := strings.Join(args, " ")
			target := rules.ResolveCategory(text, category)

			if !yes {
				reader := cli.NewNonBlockingReader(cmd.InOrStdin())
				ok, err := cli.Confirm(cmd.Context(), reader, cmd.OutOrStdout(),
					fmt.Sprintf("Update rule %q?", target))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Update canceled"))
					return nil
				}
			}

			st, err := initStores(cmd.Context())
			if err != nil {
				return err
			}
			svc := newDashboardService(st, nil)

			result, err := svc.UpdateRule(cmd.Context(), dashboard.UpdateRequest{Text: text, SelectedCategory: category})
			if err != nil {
				return common.NewUserError("Failed to update rule", err)
			}

			out := cmd.OutOrStdout()
			verb := "Updated"
			if result.Created {
				verb = "Created"
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%s rule %q (%s)", verb, result.Rule.Category, result.Rule.LastUpdated)))
			fmt.Fprintln(out, result.Diff())
			return nil
		},
	}

	cmd.Flags().String("category", "", "rule category to update")
	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func rulesExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export internal regulations as YAML or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")

			st, err := initStores(cmd.Context())
			if err != nil {
				return err
			}
			ruleList, err := st.rules.ListAll(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output) // #nosec G304 -- user-supplied output path
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				w = f
			}
			return exportRules(w, ruleList, format)
		},
	}

	cmd.Flags().StringP("format", "f", "yaml", "output format (yaml, json)")
	cmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	return cmd
}

func exportRules(w io.Writer, ruleList []model.Rule, format string) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ruleList); err != nil {
			return fmt.Errorf("failed to encode rules: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ruleList); err != nil {
			return fmt.Errorf("failed to encode rules: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", errUnknownFormat, format)
	}
}
