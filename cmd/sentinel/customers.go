package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/compliance-sentinel/internal/cli"
	"github.com/Veraticus/compliance-sentinel/internal/model"
)

func customersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "customers",
		Short: "Show the customer directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids := model.CustomerIDs()
			rows := make([][]string, 0, len(ids))
			for _, id := range ids {
				c := model.LookupCustomer(id)
				rows = append(rows, []string{
					id,
					c.Name,
					string(c.RiskProfile),
					strconv.FormatFloat(c.DeclaredIncome, 'f', -1, 64),
					c.Occupation,
					c.Country,
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatTitle("Customer Directory"))
			return printTable(cmd.OutOrStdout(),
				[]string{"ID", "NAME", "RISK", "INCOME/MO", "OCCUPATION", "COUNTRY"}, rows, nil)
		},
	}
}
