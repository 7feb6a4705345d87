package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/ignite/student-registry/internal/taxonomy"
)

var _ taxonomy.TextSource = (*ArabicText)(nil)

// Fold parameters: combining marks and tatweel are stripped, letter variants
// are translated one-to-one.
const (
	arabicMarks    = "[\u064B-\u065F\u0670\u0640]"
	arabicVariants = "أإآٱىیةک"
	arabicFolded   = "ااااييهك"
)

// ArabicText normalizes department names inside PostgreSQL so that the fold
// matches what the database itself would compare.
type ArabicText struct {
	db *sql.DB
}

// NewArabicText creates a store-side text normalizer.
func NewArabicText(db *sql.DB) *ArabicText {
	return &ArabicText{db: db}
}

// NormalizeTexts folds every value in one round trip.
func (t *ArabicText) NormalizeTexts(ctx context.Context, values []string) (map[string]string, error) {
	out := make(map[string]string, len(values))
	if len(values) == 0 {
		return out, nil
	}

	rows, err := t.db.QueryContext(ctx, `
		SELECT v,
		       BTRIM(regexp_replace(
		           lower(translate(regexp_replace(v, $2, '', 'g'), $3, $4)),
		           '\s+', ' ', 'g'))
		FROM unnest($1::text[]) AS v
	`, pq.Array(values), arabicMarks, arabicVariants, arabicFolded)
	if err != nil {
		return nil, fmt.Errorf("normalize text: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var raw, folded string
		if err := rows.Scan(&raw, &folded); err != nil {
			return nil, fmt.Errorf("scan normalized text: %w", err)
		}
		out[raw] = folded
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("normalize text: %w", err)
	}
	return out, nil
}
