package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func submissionsCmd() *cobra.Command {
	subsRoot := &cobra.Command{
		Use:   "submissions",
		Short: "Review and publish item submissions",
		Long: "Review item submissions, approve them for listing, trigger price\n" +
			"estimates, and publish approved items as live eBay listings.",
	}

	subsRoot.AddCommand(
		submissionsListCmd(),
		submissionsGetCmd(),
		submissionsApproveCmd(),
		submissionsEstimateCmd(),
		submissionsPublishCmd(),
	)

	return subsRoot
}

func submissionsListCmd() *cobra.Command {
	var (
		status string
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List submissions",
		Example: `  blub submissions list
  blub submissions list --status approved
  blub submissions list --limit 10 --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			subs, total, err := c.ListSubmissions(context.Background(), status, limit, offset)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(subs)
			}
			if len(subs) == 0 {
				fmt.Println("No submissions found.")
				return nil
			}
			if err := printSubmissionsTable(subs); err != nil {
				return err
			}
			fmt.Printf("\n%d of %d submissions\n", len(subs), total)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (pending, approved, listing, listed)")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "page offset")

	return cmd
}

func submissionsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id>",
		Short:   "Show a submission",
		Args:    cobra.ExactArgs(1),
		Example: `  blub submissions get 4f2c9a`,
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			sub, err := c.GetSubmission(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(sub)
			}
			return printSubmissionDetail(sub)
		},
	}
}

func submissionsApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "approve <id>",
		Short:   "Approve a submission for listing",
		Args:    cobra.ExactArgs(1),
		Example: `  blub submissions approve 4f2c9a`,
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			if err := c.ApproveSubmission(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Submission %s approved.\n", args[0])
			return nil
		},
	}
}

func submissionsEstimateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "estimate <id>",
		Short:   "Estimate a submission's resale price",
		Args:    cobra.ExactArgs(1),
		Example: `  blub submissions estimate 4f2c9a`,
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			result, err := c.EstimateSubmission(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(result)
			}
			fmt.Printf("Estimated price: $%s (source: %s)\n", result.Price, result.Source)
			return nil
		},
	}
}

func submissionsPublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish <id>",
		Short: "Publish a submission as a live eBay listing",
		Long: "Runs the full listing pipeline for an approved submission: category\n" +
			"resolution, condition mapping, aspect auto-fill, image optimization,\n" +
			"then the inventory/offer/publish sequence.",
		Args:    cobra.ExactArgs(1),
		Example: `  blub submissions publish 4f2c9a`,
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			result, err := c.ListOnEbay(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(result)
			}
			fmt.Printf("Listed on eBay: listing %s (offer %s)\n", result.ListingID, result.EbayOfferID)
			if result.Warning != "" {
				fmt.Printf("Warning: %s\n", result.Warning)
			}
			return nil
		},
	}
}
