package statement

import (
	"strings"
)

// DefaultHeaderSkip is the number of metadata lines preceding the column
// header in the provider exports: the header sits on line 6.
const DefaultHeaderSkip = 5

// DetectDelimiter infers the field delimiter of a statement export by
// counting ',' and ';' occurrences across the whole file. The comma wins
// only when strictly more frequent; ties fall back to ';'.
func DetectDelimiter(content string) rune {
	commas := strings.Count(content, ",")
	semicolons := strings.Count(content, ";")
	if commas > semicolons {
		return ','
	}
	return ';'
}
