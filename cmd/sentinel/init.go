package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/compliance-sentinel/internal/cli"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create and seed the compliance databases",
		Long: `Create compliance.db and regulations.db in the data directory and seed them
with the demo transactions and rules. Running init again leaves existing data untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := initStores(cmd.Context())
			if err != nil {
				return err
			}

			count, err := st.txns.Count(cmd.Context())
			if err != nil {
				return err
			}
			ruleList, err := st.rules.ListAll(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess("Databases ready"))
			fmt.Fprintf(out, "  %s %s (%d transactions)\n", cli.FolderIcon, st.txns.Path(), count)
			fmt.Fprintf(out, "  %s %s (%d rules)\n", cli.FolderIcon, st.rules.Path(), len(ruleList))
			return nil
		},
	}
}
