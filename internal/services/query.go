package services

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns a lower-cased LIKE pattern matching s anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// ilike is a case-insensitive substring condition on column that works on
// both PostgreSQL and SQLite.
func ilike(column string) string {
	return "LOWER(" + column + `) LIKE ? ESCAPE '\'`
}
