package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	apiclient "github.com/bluberryhq/bluberry/internal/api/client"
	domain "github.com/bluberryhq/bluberry/pkg/types"
)

func init() {
	rootCmd.AddCommand(listCommand())
}

func listCommand() *cobra.Command {
	var (
		status     string
		limit      int
		offset     int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List submissions via the running API server",
		RunE: func(_ *cobra.Command, _ []string) error {
			c := apiclient.New(apiURL, apiclient.WithAdminPassword(adminPassword))
			subs, total, err := c.ListSubmissions(context.Background(), status, limit, offset)
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(subs)
			}

			if len(subs) == 0 {
				fmt.Println("No submissions found.")
				return nil
			}

			fmt.Printf("Showing %d of %d submissions\n\n", len(subs), total)
			return printSubmissions(subs)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "status filter (pending, approved, listing, listed)")
	cmd.Flags().IntVar(&limit, "limit", 50, "number of results")
	cmd.Flags().IntVar(&offset, "offset", 0, "result offset")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	return cmd
}

func printSubmissions(subs []domain.Submission) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tESTIMATE\tEBAY")
	for i := range subs {
		s := &subs[i]
		estimate := "-"
		if s.EstimatedPrice != nil {
			estimate = "$" + *s.EstimatedPrice
		}
		ebayStatus := "-"
		if s.EbayStatus != nil {
			ebayStatus = string(*s.EbayStatus)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Status, estimate, ebayStatus)
	}
	return tw.Flush()
}
