package store

import (
	"fmt"
	"strings"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

const baseSubmissionsSelect = `SELECT ` + submissionColumns + `
FROM submissions`

const countSubmissionsSelect = "SELECT COUNT(*) FROM submissions"

// ToSQL builds the WHERE clause, ORDER BY, LIMIT, and OFFSET for a
// submission query. It returns two SQL strings (one for the data query,
// one for the count query) and the positional parameters.
func (q *SubmissionQuery) ToSQL() (dataSQL, countSQL string, args []any) {
	var conditions []string
	paramIdx := 1

	if q.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", paramIdx))
		args = append(args, string(*q.Status))
		paramIdx++
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset := max(q.Offset, 0)

	dataSQL = fmt.Sprintf(
		"%s%s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		baseSubmissionsSelect, whereClause, limit, offset,
	)

	countSQL = countSubmissionsSelect + whereClause

	return dataSQL, countSQL, args
}
