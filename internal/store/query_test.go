package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bluberryhq/bluberry/internal/store"
	domain "github.com/bluberryhq/bluberry/pkg/types"
)

func TestSubmissionQuery_ToSQL(t *testing.T) {
	t.Parallel()

	approved := domain.StatusApproved

	tests := []struct {
		name         string
		query        store.SubmissionQuery
		wantData     []string
		wantNotData  []string
		wantArgCount int
	}{
		{
			name:         "no filters uses defaults",
			query:        store.SubmissionQuery{},
			wantData:     []string{"LIMIT 50", "OFFSET 0", "ORDER BY created_at DESC"},
			wantNotData:  []string{"WHERE"},
			wantArgCount: 0,
		},
		{
			name:         "status filter",
			query:        store.SubmissionQuery{Status: &approved},
			wantData:     []string{"WHERE status = $1"},
			wantArgCount: 1,
		},
		{
			name:         "limit clamped to max",
			query:        store.SubmissionQuery{Limit: 100000},
			wantData:     []string{"LIMIT 500"},
			wantArgCount: 0,
		},
		{
			name:         "negative offset clamped to zero",
			query:        store.SubmissionQuery{Offset: -5},
			wantData:     []string{"OFFSET 0"},
			wantArgCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dataSQL, countSQL, args := tt.query.ToSQL()

			for _, want := range tt.wantData {
				assert.Contains(t, dataSQL, want)
			}
			for _, notWant := range tt.wantNotData {
				assert.NotContains(t, dataSQL, notWant)
			}
			assert.Len(t, args, tt.wantArgCount)
			assert.NotContains(t, countSQL, "ORDER BY")
			assert.NotContains(t, countSQL, "LIMIT")
		})
	}
}
