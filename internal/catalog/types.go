// Package catalog loads the declarative FOCUS conformance rule catalog and
// exposes it as typed rule records. It mirrors the shape of the catalog
// document described in the external interface contract: a single JSON
// document carrying ConformanceRules, ConformanceDatasets, CheckFunctions,
// and ApplicabilityCriteria sections.
package catalog

import "github.com/focusconform/validator/internal/engineerrors"

// EntityType names the kind of thing a rule concerns.
type EntityType string

const (
	EntityColumn    EntityType = "Column"
	EntityDataset   EntityType = "Dataset"
	EntityAttribute EntityType = "Attribute"
)

// Keyword is the RFC-2119-flavored strength of a rule's requirement.
type Keyword string

const (
	KeywordMust           Keyword = "MUST"
	KeywordMustNot        Keyword = "MUST NOT"
	KeywordShould         Keyword = "SHOULD"
	KeywordShouldNot      Keyword = "SHOULD NOT"
	KeywordRecommended    Keyword = "RECOMMENDED"
	KeywordNotRecommended Keyword = "NOT RECOMMENDED"
	KeywordMay            Keyword = "MAY"
	KeywordOptional       Keyword = "OPTIONAL"
)

// IsPermissive reports whether the keyword is one of the permission-gated
// kinds (MAY/OPTIONAL) that §4.5 always skips regardless of the data.
func (k Keyword) IsPermissive() bool {
	return k == KeywordMay || k == KeywordOptional
}

// RuleType distinguishes rules whose requirement is evaluated against live
// data (Dynamic) from ones resolved purely from catalog metadata (Static).
type RuleType string

const (
	TypeStatic  RuleType = "Static"
	TypeDynamic RuleType = "Dynamic"
)

// Rule is a single declarative validation clause, identified by a stable
// rule_id. It is frozen after load except for the set-once
// InheritedPrecondition field.
type Rule struct {
	RuleID                       string
	Function                     string
	Reference                    string
	EntityType                   EntityType
	Keyword                      Keyword
	MustSatisfy                  string
	Type                         RuleType
	Status                       string
	ApplicabilityCriteria        []string
	Requirement                  Requirement
	Condition                    *Requirement
	Dependencies                 []string
	Notes                        string
	ConformanceVersionIntroduced string

	inheritedPrecondition *Requirement
}

// InheritedPrecondition returns the condition propagated from an ancestor
// composite rule, or nil if none has been set.
func (r *Rule) InheritedPrecondition() *Requirement {
	return r.inheritedPrecondition
}

// SetInheritedPrecondition sets the rule's inherited precondition. It may
// be called at most once per rule; a second call fails with a *PlanError,
// matching spec invariant 4 on the rule record.
func (r *Rule) SetInheritedPrecondition(cond Requirement) error {
	if r.inheritedPrecondition != nil {
		return &engineerrors.PlanError{
			Message: "inherited_precondition already set for rule " + r.RuleID,
		}
	}
	c := cond
	r.inheritedPrecondition = &c
	return nil
}

// EffectiveCondition returns the condition that gates this rule's
// requirement: its own Condition if set, otherwise its inherited
// precondition, otherwise nil.
func (r *Rule) EffectiveCondition() *Requirement {
	if r.Condition != nil {
		return r.Condition
	}
	return r.inheritedPrecondition
}

// Kind names a requirement (or condition) variant. One tag maps to exactly
// one compiler function in internal/compiler.
type Kind string

const (
	KindCheckValue                       Kind = "CheckValue"
	KindCheckNotValue                    Kind = "CheckNotValue"
	KindCheckSameValue                   Kind = "CheckSameValue"
	KindCheckNotSameValue                Kind = "CheckNotSameValue"
	KindCheckGreaterOrEqualThanValue     Kind = "CheckGreaterOrEqualThanValue"
	KindCheckValueIn                     Kind = "CheckValueIn"
	KindColumnPresent                    Kind = "ColumnPresent"
	KindColumnByColumnEqualsColumnValue  Kind = "ColumnByColumnEqualsColumnValue"
	KindCheckDistinctCount               Kind = "CheckDistinctCount"
	KindTypeString                       Kind = "TypeString"
	KindTypeDecimal                      Kind = "TypeDecimal"
	KindTypeDateTime                     Kind = "TypeDateTime"
	KindFormatNumeric                    Kind = "FormatNumeric"
	KindFormatDateTime                   Kind = "FormatDateTime"
	KindFormatString                     Kind = "FormatString"
	KindFormatUnit                       Kind = "FormatUnit"
	KindFormatKeyValue                   Kind = "FormatKeyValue"
	KindFormatBillingCurrencyCode        Kind = "FormatBillingCurrencyCode"
	KindCheckNationalCurrency            Kind = "CheckNationalCurrency"
	KindAnd                              Kind = "AND"
	KindOr                               Kind = "OR"
	KindCheckConformanceRule             Kind = "CheckConformanceRule"
)

// Requirement is a tagged union over the requirement/condition variants
// named in spec §3 and §6. Not every field applies to every Kind; the
// compiler dispatch table documents which fields each kind reads.
type Requirement struct {
	Kind Kind

	ColumnName  string
	ColumnAName string
	ColumnBName string

	// Value is nil to mean a literal SQL NULL comparison (spec §4.5's
	// "v=null" rows); a non-nil pointer carries the literal string value.
	Value *string

	Values []string // for CheckValueIn and OR-style enumerations

	ExpectedCount int

	ConformanceRuleID string

	// Items holds the child requirements of an AND/OR composite. Items of
	// Kind CheckConformanceRule reference another rule by RuleID via
	// ConformanceRuleID.
	Items []Requirement
}

// IsComposite reports whether this requirement's Function is a boolean
// reduction over child rule verdicts rather than a row-level SQL check.
func (k Kind) IsComposite() bool {
	return k == KindAnd || k == KindOr
}
