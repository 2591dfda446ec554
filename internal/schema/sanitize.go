// Package schema derives relational table definitions from spreadsheet data:
// identifier sanitization, whole-column type inference, and DDL rendering.
package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rkmishra-dev/sheetport/pkg/sheetport"
)

// nonWordRe matches every character that may not appear in a sanitized
// identifier. Word characters and '$' survive; everything else becomes '_'.
var nonWordRe = regexp.MustCompile(`[^\w$]`)

// Sanitize converts an arbitrary column or file name into an identifier that
// is safe for use as a table/column name in the target store.
//
// Rules, in order: spaces become underscores, every non-word character other
// than '$' becomes an underscore, leading/trailing underscores are stripped,
// a leading underscore is injected if the result would start with a digit,
// and the result is truncated to sheetport.MaxIdentifierLength.
//
// Sanitize is pure and idempotent: Sanitize(Sanitize(x)) == Sanitize(x).
// Empty input produces an empty string; callers must guard.
func Sanitize(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	name = nonWordRe.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	if len(name) > sheetport.MaxIdentifierLength {
		name = name[:sheetport.MaxIdentifierLength]
	}
	// Truncation may leave a trailing underscore; strip it so the function
	// stays idempotent under the length cap.
	return strings.TrimRight(name, "_")
}

// Uniquer resolves sanitized-name collisions by appending a numeric suffix.
// Two distinct source names can sanitize to the same identifier; the first
// occurrence keeps the clean name, later ones get "_2", "_3", and so on,
// still within the identifier length cap.
//
// Not safe for concurrent use. Use one Uniquer per namespace (one per run for
// table names, one per sheet for column names).
type Uniquer struct {
	seen map[string]int
}

// NewUniquer creates an empty Uniquer.
func NewUniquer() *Uniquer {
	return &Uniquer{seen: make(map[string]int)}
}

// Resolve returns name unchanged the first time it is seen, and a suffixed
// variant on subsequent collisions. The suffixed variant is itself recorded,
// so chains of collisions stay unique.
func (u *Uniquer) Resolve(name string) string {
	if _, taken := u.seen[name]; !taken {
		u.seen[name] = 1
		return name
	}

	for n := 2; ; n++ {
		suffix := fmt.Sprintf("_%d", n)
		candidate := name
		if len(candidate)+len(suffix) > sheetport.MaxIdentifierLength {
			candidate = candidate[:sheetport.MaxIdentifierLength-len(suffix)]
		}
		candidate += suffix
		if _, taken := u.seen[candidate]; !taken {
			u.seen[candidate] = 1
			return candidate
		}
	}
}
