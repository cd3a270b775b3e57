package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newLeadsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "leads",
		Short: "List recent form submissions from the lead log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			repo := application.Leads()
			if repo == nil {
				return fmt.Errorf("lead log is not configured (set DATABASE_DSN)")
			}
			leads, err := repo.RecentLeads(cmd.Context(), limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CREATED\tFORM\tEMAIL\tNAME\tSTATUS")
			for _, l := range leads {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", l.CreatedAt.Format("2006-01-02 15:04"), l.FormName, l.Email, l.Name, l.Status)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows")
	return cmd
}
