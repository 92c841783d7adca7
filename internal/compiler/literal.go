package compiler

import "strings"

// quoteLiteral applies the compiler's single escaping rule: a literal
// value is emitted as a single-quoted string with every embedded single
// quote doubled. Column and table names are never quoted here; they must
// be valid identifiers (design note §9).
func quoteLiteral(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

// Regex literals mirror focus_to_duckdb_converter.py's generator classes
// exactly, including their anchoring.
const (
	reNumeric        = `^[+-]?([0-9]*[.])?[0-9]+$`
	reDateTimeUTC    = `^[0-9]{4}-[0-1][0-9]-[0-3][0-9]T[0-2][0-9]:[0-5][0-9]:[0-5][0-9]Z$`
	rePascalCase     = `^[A-Z][a-zA-Z0-9]*$`
	reXPascalCase    = `^x_[A-Z][a-zA-Z0-9]*$`
	reISO4217        = `^[A-Z]{3}$`
	reJSONObject     = `^\{.*\}$`
	reTypeDateTimeOK = `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`
)
