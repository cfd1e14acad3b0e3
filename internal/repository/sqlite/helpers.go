package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ============================================================================
// Identifier Helpers
// ============================================================================

// quoteIdent quotes an SQL identifier. Report and column names come from
// Panorama data and are never interpolated unquoted.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// reportTableName maps a report name to its SQL table name. Names that
// would clash with the bookkeeping tables get a prefix.
func reportTableName(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return '_'
	}, name)

	switch {
	case clean == "":
		return "report"
	case clean == "runs", clean == "reports", strings.HasPrefix(clean, "sqlite_"):
		return "report_" + clean
	}
	return clean
}

// ============================================================================
// Null and Time Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// formatTime stores timestamps as RFC 3339 text
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// ============================================================================
// JSON Marshaling Helpers
// ============================================================================

func marshalColumns(columns []string) (string, error) {
	if columns == nil {
		columns = []string{}
	}
	data, err := json.Marshal(columns)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalColumns(s string) ([]string, error) {
	var columns []string
	if err := json.Unmarshal([]byte(s), &columns); err != nil {
		return nil, fmt.Errorf("decode columns: %w", err)
	}
	return columns, nil
}
