// Package naming derives table and column names from Go identifiers.
package naming

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// CamelToSnake converts a CamelCase string to snake_case.
// Consecutive uppercase letters (acronyms) are kept together:
// "ID" → "id", "UserID" → "user_id", "PasswordHash" → "password_hash".
func CamelToSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				next := rune(0)
				if i+1 < len(runes) {
					next = runes[i+1]
				}
				if unicode.IsLower(prev) || (unicode.IsUpper(prev) && unicode.IsLower(next)) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TableName returns the conventional table name for a Go type name:
// snake_case, pluralized. "User" → "users", "BlogPost" → "blog_posts".
func TableName(typeName string) string {
	return inflection.Plural(CamelToSnake(typeName))
}

// IndexName returns the conventional index name for column of table,
// e.g. IndexName("users", "email") == "ix_users_email".
func IndexName(table, column string) string {
	return "ix_" + table + "_" + column
}
