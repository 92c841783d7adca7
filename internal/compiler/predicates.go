package compiler

import (
	"fmt"
	"strings"

	"github.com/focusconform/validator/internal/catalog"
)

// predicateResult is the outcome of compiling one requirement/condition
// variant into SQL predicate fragments.
type predicateResult struct {
	Requirement        string
	Condition          string
	ConditionSupported bool
}

type predicateFn func(req catalog.Requirement) (predicateResult, error)

// predicateTable is the dispatch table named in design note §9: one tag
// maps to exactly one compile function.
var predicateTable = map[catalog.Kind]predicateFn{
	catalog.KindCheckValue:                      compileCheckValue,
	catalog.KindCheckNotValue:                   compileCheckNotValue,
	catalog.KindCheckSameValue:                  compileCheckSameValue,
	catalog.KindCheckNotSameValue:                compileCheckNotSameValue,
	catalog.KindCheckGreaterOrEqualThanValue:    compileCheckGreaterOrEqual,
	catalog.KindCheckValueIn:                    compileCheckValueIn,
	catalog.KindColumnByColumnEqualsColumnValue: compileColumnByColumn,
	catalog.KindTypeDecimal:                     compileTypeDecimal,
	catalog.KindTypeString:                      compileTypeString,
	catalog.KindTypeDateTime:                    compileTypeDateTime,
	catalog.KindFormatNumeric:                   compileFormatNumeric,
	catalog.KindFormatDateTime:                  compileFormatDateTime,
	catalog.KindFormatString:                    compileFormatStringLike,
	catalog.KindFormatUnit:                      compileFormatStringLike,
	catalog.KindFormatKeyValue:                  compileFormatKeyValue,
	catalog.KindFormatBillingCurrencyCode:       compileFormatCurrency,
	catalog.KindCheckNationalCurrency:           compileNationalCurrency,
}

func compileCheckValue(req catalog.Requirement) (predicateResult, error) {
	x := req.ColumnName
	if req.Value == nil {
		return predicateResult{
			Requirement:        fmt.Sprintf("%s IS NOT NULL", x),
			Condition:          fmt.Sprintf("%s IS NULL", x),
			ConditionSupported: true,
		}, nil
	}
	v := quoteLiteral(*req.Value)
	return predicateResult{
		Requirement:        fmt.Sprintf("%s != %s", x, v),
		Condition:          fmt.Sprintf("%s = %s", x, v),
		ConditionSupported: true,
	}, nil
}

func compileCheckNotValue(req catalog.Requirement) (predicateResult, error) {
	x := req.ColumnName
	if req.Value == nil {
		return predicateResult{
			Requirement:        fmt.Sprintf("%s IS NULL", x),
			Condition:          fmt.Sprintf("%s IS NOT NULL", x),
			ConditionSupported: true,
		}, nil
	}
	v := quoteLiteral(*req.Value)
	return predicateResult{
		Requirement:        fmt.Sprintf("%s IS NOT NULL AND %s = %s", x, x, v),
		Condition:          fmt.Sprintf("%s IS NULL OR %s != %s", x, x, v),
		ConditionSupported: true,
	}, nil
}

func compileCheckSameValue(req catalog.Requirement) (predicateResult, error) {
	a, b := req.ColumnAName, req.ColumnBName
	return predicateResult{
		Requirement:        fmt.Sprintf("%s IS NULL OR %s IS NULL OR %s <> %s", a, b, a, b),
		Condition:          fmt.Sprintf("%s IS NOT NULL AND %s IS NOT NULL AND %s = %s", a, b, a, b),
		ConditionSupported: true,
	}, nil
}

func compileCheckNotSameValue(req catalog.Requirement) (predicateResult, error) {
	a, b := req.ColumnAName, req.ColumnBName
	return predicateResult{
		Requirement:        fmt.Sprintf("%s IS NULL OR %s IS NULL OR %s = %s", a, b, a, b),
		Condition:          fmt.Sprintf("%s IS NOT NULL AND %s IS NOT NULL AND %s <> %s", a, b, a, b),
		ConditionSupported: true,
	}, nil
}

func compileCheckGreaterOrEqual(req catalog.Requirement) (predicateResult, error) {
	x := req.ColumnName
	if req.Value == nil {
		return predicateResult{}, fmt.Errorf("missing Value parameter")
	}
	v := *req.Value
	return predicateResult{
		Requirement:        fmt.Sprintf("%s < %s", x, v),
		Condition:          fmt.Sprintf("%s IS NOT NULL AND %s >= %s", x, x, v),
		ConditionSupported: true,
	}, nil
}

func compileCheckValueIn(req catalog.Requirement) (predicateResult, error) {
	x := req.ColumnName
	if len(req.Values) == 0 {
		return predicateResult{}, fmt.Errorf("missing Values parameter")
	}
	quoted := make([]string, len(req.Values))
	for i, v := range req.Values {
		quoted[i] = quoteLiteral(v)
	}
	list := strings.Join(quoted, ", ")
	return predicateResult{
		Requirement:        fmt.Sprintf("%s IS NULL OR %s NOT IN (%s)", x, x, list),
		Condition:          fmt.Sprintf("%s IS NOT NULL AND %s IN (%s)", x, x, list),
		ConditionSupported: true,
	}, nil
}

func compileColumnByColumn(req catalog.Requirement) (predicateResult, error) {
	r, a, b := req.ColumnName, req.ColumnAName, req.ColumnBName
	return predicateResult{
		Requirement: fmt.Sprintf("%s IS NULL OR %s IS NULL OR %s IS NULL OR (%s * %s) <> %s", r, a, b, a, b, r),
	}, nil
}

func compileTypeDecimal(req catalog.Requirement) (predicateResult, error) {
	x := req.ColumnName
	return predicateResult{
		Requirement: fmt.Sprintf("%s IS NOT NULL AND typeof(%s) NOT IN ('DECIMAL','DOUBLE','FLOAT')", x, x),
	}, nil
}

func compileTypeString(req catalog.Requirement) (predicateResult, error) {
	x := req.ColumnName
	return predicateResult{
		Requirement: fmt.Sprintf("%s IS NOT NULL AND typeof(%s) <> 'VARCHAR'", x, x),
	}, nil
}

func compileTypeDateTime(req catalog.Requirement) (predicateResult, error) {
	x := req.ColumnName
	return predicateResult{
		Requirement: fmt.Sprintf(
			"%s IS NOT NULL AND typeof(%s) NOT IN ('TIMESTAMP','TIMESTAMP WITH TIME ZONE','DATE') AND NOT (%s::TEXT ~ '%s')",
			x, x, x, reTypeDateTimeOK),
	}, nil
}

func compileFormatNumeric(req catalog.Requirement) (predicateResult, error) {
	x := req.ColumnName
	return predicateResult{
		Requirement: fmt.Sprintf("%s IS NOT NULL AND NOT (%s::TEXT ~ '%s')", x, x, reNumeric),
	}, nil
}

func compileFormatDateTime(req catalog.Requirement) (predicateResult, error) {
	x := req.ColumnName
	return predicateResult{
		Requirement: fmt.Sprintf("%s IS NOT NULL AND NOT (%s::TEXT ~ '%s')", x, x, reDateTimeUTC),
	}, nil
}

// compileFormatStringLike covers both FormatString and FormatUnit: a
// value must match PascalCase or the x_-PascalCase extension prefix, and
// must not exceed 50 characters.
func compileFormatStringLike(req catalog.Requirement) (predicateResult, error) {
	x := req.ColumnName
	return predicateResult{
		Requirement: fmt.Sprintf(
			"%s IS NOT NULL AND (NOT (%s::TEXT ~ '%s' OR %s::TEXT ~ '%s') OR LENGTH(%s::TEXT) > 50)",
			x, x, rePascalCase, x, reXPascalCase, x),
	}, nil
}

func compileFormatKeyValue(req catalog.Requirement) (predicateResult, error) {
	x := req.ColumnName
	return predicateResult{
		Requirement: fmt.Sprintf(
			"%s IS NOT NULL AND NOT (%s::TEXT ~ '%s' OR %s::TEXT = '{}')",
			x, x, reJSONObject, x),
	}, nil
}

// compileFormatCurrency covers FormatBillingCurrencyCode: an ISO-4217
// three-letter code, PascalCase, or x_-PascalCase extension value.
func compileFormatCurrency(req catalog.Requirement) (predicateResult, error) {
	x := req.ColumnName
	return predicateResult{
		Requirement: fmt.Sprintf(
			"%s IS NOT NULL AND NOT (%s::TEXT ~ '%s' OR %s::TEXT ~ '%s' OR %s::TEXT ~ '%s')",
			x, x, reISO4217, x, rePascalCase, x, reXPascalCase),
	}, nil
}

// compileNationalCurrency covers CheckNationalCurrency: strictly an
// ISO-4217 three-letter uppercase code.
func compileNationalCurrency(req catalog.Requirement) (predicateResult, error) {
	x := req.ColumnName
	return predicateResult{
		Requirement: fmt.Sprintf("%s IS NOT NULL AND NOT (%s::TEXT ~ '%s')", x, x, reISO4217),
	}, nil
}
