package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusconform/validator/internal/catalog"
	"github.com/focusconform/validator/internal/engineerrors"
)

func strPtr(s string) *string { return &s }

func allTags() map[string]bool { return map[string]bool{"ALL": true} }

// TestCompile_PermissiveKeywordAlwaysSkipped covers invariant 7.
func TestCompile_PermissiveKeywordAlwaysSkipped(t *testing.T) {
	for _, kw := range []catalog.Keyword{catalog.KeywordMay, catalog.KeywordOptional} {
		rule := &catalog.Rule{
			RuleID:      "R-1",
			Keyword:     kw,
			Requirement: catalog.Requirement{Kind: catalog.KindCheckValue, ColumnName: "X"},
		}
		check, err := Compile(rule, allTags())
		require.NoError(t, err)
		assert.Equal(t, ModeSkipped, check.Mode)
		assert.True(t, check.Skipped)
	}
}

// TestCompile_EmptyApplicabilityNeverSkipped covers invariant 5.
func TestCompile_EmptyApplicabilityNeverSkipped(t *testing.T) {
	rule := &catalog.Rule{
		RuleID:      "R-1",
		Keyword:     catalog.KeywordMust,
		Requirement: catalog.Requirement{Kind: catalog.KindCheckValue, ColumnName: "X", Value: strPtr("v")},
	}
	check, err := Compile(rule, map[string]bool{})
	require.NoError(t, err)
	assert.NotEqual(t, ModeSkipped, check.Mode)
}

// TestCompile_InapplicableTagSkips covers invariant 6.
func TestCompile_InapplicableTagSkips(t *testing.T) {
	rule := &catalog.Rule{
		RuleID:                "R-1",
		Keyword:               catalog.KeywordMust,
		ApplicabilityCriteria: []string{"US"},
		Requirement:           catalog.Requirement{Kind: catalog.KindCheckValue, ColumnName: "X"},
	}
	check, err := Compile(rule, map[string]bool{"EU": true})
	require.NoError(t, err)
	assert.Equal(t, ModeSkipped, check.Mode)

	check, err = Compile(rule, map[string]bool{"US": true})
	require.NoError(t, err)
	assert.NotEqual(t, ModeSkipped, check.Mode)
}

func TestCompile_ColumnPresent(t *testing.T) {
	rule := &catalog.Rule{
		RuleID:      "R-1",
		Keyword:     catalog.KeywordMust,
		Requirement: catalog.Requirement{Kind: catalog.KindColumnPresent, ColumnName: "ListUnitPrice"},
	}
	check, err := Compile(rule, allTags())
	require.NoError(t, err)
	assert.Equal(t, ModeSchemaProbe, check.Mode)
	assert.Equal(t, "ListUnitPrice", check.Column)
}

func TestCompile_Composite(t *testing.T) {
	rule := &catalog.Rule{
		RuleID:  "R-1",
		Keyword: catalog.KeywordMust,
		Requirement: catalog.Requirement{
			Kind: catalog.KindOr,
			Items: []catalog.Requirement{
				{Kind: catalog.KindCheckConformanceRule, ConformanceRuleID: "Other"},
			},
		},
	}
	check, err := Compile(rule, allTags())
	require.NoError(t, err)
	assert.Equal(t, ModeComposite, check.Mode)
	assert.Equal(t, catalog.KindOr, check.CompositeKind)
}

func TestCompile_UnknownCheckFunction(t *testing.T) {
	rule := &catalog.Rule{
		RuleID:      "R-1",
		Keyword:     catalog.KeywordMust,
		Requirement: catalog.Requirement{Kind: "Bogus"},
	}
	_, err := Compile(rule, allTags())
	require.Error(t, err)
	assert.True(t, engineerrors.IsCheckCompileError(err))
}

// TestQuoteLiteral_RoundTrips covers invariant 10: a literal value
// containing a single quote appears in emitted SQL as '' and nowhere else.
func TestQuoteLiteral_RoundTrips(t *testing.T) {
	got := quoteLiteral("O'Brien")
	assert.Equal(t, "'O''Brien'", got)
	assert.Equal(t, 1, strings.Count(got, "''"))
}

func TestCompileCheckValue_NullLiteral(t *testing.T) {
	req := catalog.Requirement{Kind: catalog.KindCheckValue, ColumnName: "BilledCost"}
	result, err := compileCheckValue(req)
	require.NoError(t, err)
	assert.Equal(t, "BilledCost IS NOT NULL", result.Requirement)
	assert.Equal(t, "BilledCost IS NULL", result.Condition)
}

func TestCompileCheckValue_Literal(t *testing.T) {
	req := catalog.Requirement{Kind: catalog.KindCheckValue, ColumnName: "BilledCost", Value: strPtr("0")}
	result, err := compileCheckValue(req)
	require.NoError(t, err)
	assert.Equal(t, "BilledCost != '0'", result.Requirement)
}

func TestCompileCheckValueIn(t *testing.T) {
	req := catalog.Requirement{Kind: catalog.KindCheckValueIn, ColumnName: "ChargeCategory", Values: []string{"Usage", "Purchase"}}
	result, err := compileCheckValueIn(req)
	require.NoError(t, err)
	assert.Equal(t, "ChargeCategory IS NULL OR ChargeCategory NOT IN ('Usage', 'Purchase')", result.Requirement)
}

func TestCompileCheckValueIn_MissingValues(t *testing.T) {
	req := catalog.Requirement{Kind: catalog.KindCheckValueIn, ColumnName: "ChargeCategory"}
	_, err := compileCheckValueIn(req)
	assert.Error(t, err)
}

func TestCompileCheckGreaterOrEqual_MissingValue(t *testing.T) {
	req := catalog.Requirement{Kind: catalog.KindCheckGreaterOrEqualThanValue, ColumnName: "X"}
	_, err := compileCheckGreaterOrEqual(req)
	assert.Error(t, err)
}

// TestCompile_DistinctCountWithCondition exercises the Open Question
// decision: a CheckDistinctCount condition is injected as a WHERE filter
// in the grouped subquery, before GROUP BY.
func TestCompile_DistinctCountWithCondition(t *testing.T) {
	cond := catalog.Requirement{Kind: catalog.KindCheckValue, ColumnName: "Status", Value: strPtr("active")}
	rule := &catalog.Rule{
		RuleID:    "R-1",
		Keyword:   catalog.KeywordMust,
		Condition: &cond,
		Requirement: catalog.Requirement{
			Kind: catalog.KindCheckDistinctCount, ColumnAName: "InvoiceId", ColumnBName: "Currency", ExpectedCount: 1,
		},
	}
	check, err := Compile(rule, allTags())
	require.NoError(t, err)
	assert.Equal(t, ModeRequirement, check.Mode)
	assert.Contains(t, check.SQL, "WHERE Status = 'active'")
	assert.Contains(t, check.SQL, "GROUP BY InvoiceId")
	assert.Contains(t, check.SQL, "HAVING COUNT(DISTINCT Currency) <> 1")
}

func TestCompile_DistinctCountWithUnsupportedCondition(t *testing.T) {
	cond := catalog.Requirement{Kind: catalog.KindCheckValueIn, ColumnName: "X", Values: []string{"a"}}
	rule := &catalog.Rule{
		RuleID:    "R-1",
		Keyword:   catalog.KeywordMust,
		Condition: &cond,
		Requirement: catalog.Requirement{
			Kind: catalog.KindCheckDistinctCount, ColumnAName: "A", ColumnBName: "B", ExpectedCount: 1,
		},
	}
	_, err := Compile(rule, allTags())
	require.Error(t, err)
	assert.True(t, engineerrors.IsCheckCompileError(err))
}

func TestCompile_ConditionWraps_RequirementSkeleton(t *testing.T) {
	cond := catalog.Requirement{Kind: catalog.KindCheckNotSameValue, ColumnAName: "ProviderName", ColumnBName: "InvoiceIssuerName"}
	rule := &catalog.Rule{
		RuleID:    "BilledCost-C-005-C",
		Keyword:   catalog.KeywordMust,
		Condition: &cond,
		Requirement: catalog.Requirement{
			Kind: catalog.KindCheckValue, ColumnName: "BilledCost", Value: strPtr("0"),
		},
	}
	check, err := Compile(rule, allTags())
	require.NoError(t, err)
	assert.Contains(t, check.SQL, "ProviderName IS NOT NULL AND InvoiceIssuerName IS NOT NULL AND ProviderName <> InvoiceIssuerName")
	assert.Contains(t, check.SQL, "BilledCost != '0'")
}

func TestCompileCondition_UnsupportedKind(t *testing.T) {
	_, err := CompileCondition(catalog.Requirement{Kind: catalog.KindCheckValueIn, ColumnName: "X", Values: []string{"a"}})
	require.Error(t, err)
	assert.True(t, engineerrors.IsCheckCompileError(err))
}

// TestCompile_Idempotent covers the round-trip property: compiling the
// same rule twice yields the same SQL string.
func TestCompile_Idempotent(t *testing.T) {
	rule := &catalog.Rule{
		RuleID:      "R-1",
		Keyword:     catalog.KeywordMust,
		Requirement: catalog.Requirement{Kind: catalog.KindTypeDecimal, ColumnName: "BilledCost"},
	}
	first, err := Compile(rule, allTags())
	require.NoError(t, err)
	second, err := Compile(rule, allTags())
	require.NoError(t, err)
	assert.Equal(t, first.SQL, second.SQL)
}

func TestCompileFormatStringLike_PascalAndExtension(t *testing.T) {
	req := catalog.Requirement{Kind: catalog.KindFormatString, ColumnName: "PricingUnit"}
	result, err := compileFormatStringLike(req)
	require.NoError(t, err)
	assert.Contains(t, result.Requirement, rePascalCase)
	assert.Contains(t, result.Requirement, reXPascalCase)
}

func TestCompileNationalCurrency(t *testing.T) {
	req := catalog.Requirement{Kind: catalog.KindCheckNationalCurrency, ColumnName: "BillingCurrency"}
	result, err := compileNationalCurrency(req)
	require.NoError(t, err)
	assert.Contains(t, result.Requirement, reISO4217)
}
