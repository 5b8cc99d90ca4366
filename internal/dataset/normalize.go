package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// keyLength is the canonical width of an ANS operator registry code.
const keyLength = 6

// NormalizeKey canonicalizes an operator identifier into the 6-digit
// zero-padded form used as the join key across all tables: everything
// from the first '.' is dropped (spurious float suffixes such as
// "5711.0"), surrounding whitespace is trimmed, and the result is
// left-padded with zeros to 6 characters.
//
// Inputs longer than 6 digits pass through unchanged; no truncation
// policy exists upstream and shortening codes would fabricate collisions.
func NormalizeKey(value string) string {
	if i := strings.IndexByte(value, '.'); i >= 0 {
		value = value[:i]
	}
	value = strings.TrimSpace(value)
	for len(value) < keyLength {
		value = "0" + value
	}
	return value
}

// NormalizeKeyValue canonicalizes an operator identifier that may arrive
// from the database as an integer, float or string column.
func NormalizeKeyValue(value any) string {
	switch v := value.(type) {
	case nil:
		return NormalizeKey("")
	case string:
		return NormalizeKey(v)
	case []byte:
		return NormalizeKey(string(v))
	case int64:
		return NormalizeKey(strconv.FormatInt(v, 10))
	case float64:
		return NormalizeKey(strconv.FormatFloat(v, 'f', -1, 64))
	default:
		return NormalizeKey(fmt.Sprintf("%v", v))
	}
}
