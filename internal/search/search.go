// Package search provides search clause building for content entries in the
// Rumbo CMS. Because entry data is schema-less JSONB rather than typed
// columns, search matches a case-insensitive substring against the
// serialized value map instead of a per-column tsvector.
package search

import (
	"fmt"
	"strings"
)

// BuildSearchClause generates the SQL fragment matching a search term
// against the JSONB data column. paramIdx is the starting $N placeholder
// index. An empty term returns an empty clause and no arguments.
func BuildSearchClause(term string, paramIdx int) (whereClause string, args []any) {
	if term == "" {
		return "", nil
	}

	whereClause = fmt.Sprintf("data::text ILIKE $%d", paramIdx)
	args = []any{"%" + EscapeLike(term) + "%"}
	return whereClause, args
}

// EscapeLike escapes the LIKE wildcard characters in a search term so user
// input matches literally.
func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
