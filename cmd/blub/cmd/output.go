package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	domain "github.com/bluberryhq/bluberry/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printSubmissionsTable(subs []domain.Submission) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tNAME\tCONDITION\tESTIMATE\tSTATUS\tEBAY\n")
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
		tw.writef("%s\t%s\t%s\t%s\t%s\t%s\n",
			s.ID,
			truncate(s.Name, 40),
			s.Condition,
			estimate,
			s.Status,
			ebayStatus,
		)
	}
	return tw.finish()
}

func printSubmissionDetail(s *domain.Submission) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%s\n", s.ID)
	tw.writef("Name:\t%s\n", s.Name)
	tw.writef("Description:\t%s\n", truncate(s.Description, 80))
	tw.writef("Condition:\t%s\n", s.Condition)
	tw.writef("Issues:\t%s\n", s.Issues)
	if s.EstimatedPrice != nil {
		tw.writef("Estimate:\t$%s (%s)\n", *s.EstimatedPrice, s.EstimateSource)
	}
	tw.writef("Images:\t%d\n", len(s.ImageURLs()))
	tw.writef("Status:\t%s\n", s.Status)
	if s.EbayStatus != nil {
		tw.writef("eBay Status:\t%s\n", *s.EbayStatus)
	}
	if s.EbayListingID != nil {
		tw.writef("eBay Listing:\t%s\n", *s.EbayListingID)
	}
	if s.ListingError != nil {
		tw.writef("Listing Error:\t%s\n", truncate(*s.ListingError, 80))
	}
	tw.writef("Created:\t%s\n", s.CreatedAt.Format("2006-01-02 15:04:05"))
	return tw.finish()
}

func printJobRunsTable(runs []domain.JobRun) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("JOB\tSTATUS\tSTARTED\tCOMPLETED\tERROR\n")
	for i := range runs {
		r := &runs[i]
		completed := "-"
		if r.CompletedAt != nil {
			completed = r.CompletedAt.Format("2006-01-02 15:04:05")
		}
		tw.writef("%s\t%s\t%s\t%s\t%s\n",
			r.JobName,
			r.Status,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			completed,
			truncate(r.ErrorText, 40),
		)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
