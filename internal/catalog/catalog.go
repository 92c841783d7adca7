package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/focusconform/validator/internal/engineerrors"
)

// document is the raw JSON shape of the catalog, decoded verbatim before
// conversion into typed Rule records.
type document struct {
	ConformanceDatasets   map[string]datasetDoc      `json:"ConformanceDatasets"`
	ConformanceRules      map[string]ruleDoc         `json:"ConformanceRules"`
	CheckFunctions        map[string]json.RawMessage `json:"CheckFunctions"`
	ApplicabilityCriteria map[string]string          `json:"ApplicabilityCriteria"`
}

type datasetDoc struct {
	ConformanceRules []string `json:"ConformanceRules"`
}

type ruleDoc struct {
	Function                     string             `json:"Function"`
	Reference                    string             `json:"Reference"`
	EntityType                   string             `json:"EntityType"`
	Status                       string             `json:"Status"`
	Type                         string             `json:"Type"`
	ApplicabilityCriteria        []string           `json:"ApplicabilityCriteria"`
	ValidationCriteria           validationCriteria `json:"ValidationCriteria"`
	Notes                        string             `json:"Notes"`
	ConformanceVersionIntroduced string             `json:"ConformanceVersionIntroduced"`
}

type validationCriteria struct {
	MustSatisfy  string          `json:"MustSatisfy"`
	Keyword      string          `json:"Keyword"`
	Requirement  requirementDoc  `json:"Requirement"`
	Condition    *requirementDoc `json:"Condition"`
	Dependencies []string        `json:"Dependencies"`
}

type requirementDoc struct {
	CheckFunction     string           `json:"CheckFunction"`
	ColumnName        string           `json:"ColumnName"`
	ColumnAName       string           `json:"ColumnAName"`
	ColumnBName       string           `json:"ColumnBName"`
	Value             *string          `json:"Value"`
	Values            []string         `json:"Values"`
	ExpectedCount     int              `json:"ExpectedCount"`
	ConformanceRuleID string           `json:"ConformanceRuleId"`
	Items             []requirementDoc `json:"Items"`
}

// Catalog is the validated, typed result of loading a catalog document.
type Catalog struct {
	Rules                 map[string]*Rule
	Datasets              map[string][]string
	CheckFunctions        map[string]json.RawMessage
	ApplicabilityCriteria map[string]string
}

// Load parses raw catalog JSON into a Catalog, failing with a
// *engineerrors.CatalogError when a dataset's rule list references a rule
// absent from ConformanceRules, a Composite's CheckConformanceRule item
// references an absent rule, or a requirement carries an unrecognized
// CheckFunction tag.
func Load(raw []byte) (*Catalog, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &engineerrors.CatalogError{Message: fmt.Sprintf("invalid catalog JSON: %v", err)}
	}

	cat := &Catalog{
		Rules:                 make(map[string]*Rule, len(doc.ConformanceRules)),
		Datasets:              make(map[string][]string, len(doc.ConformanceDatasets)),
		CheckFunctions:        doc.CheckFunctions,
		ApplicabilityCriteria: doc.ApplicabilityCriteria,
	}

	for ruleID, rd := range doc.ConformanceRules {
		rule, err := convertRule(ruleID, rd)
		if err != nil {
			return nil, err
		}
		cat.Rules[ruleID] = rule
	}

	for name, dd := range doc.ConformanceDatasets {
		for _, ruleID := range dd.ConformanceRules {
			if _, ok := cat.Rules[ruleID]; !ok {
				return nil, &engineerrors.CatalogError{
					RuleID:  ruleID,
					Message: fmt.Sprintf("dataset %q references unknown rule", name),
				}
			}
		}
		cat.Datasets[name] = dd.ConformanceRules
	}

	if err := validateReferences(cat); err != nil {
		return nil, err
	}

	return cat, nil
}

// validateReferences checks invariant 3 (every Composite rule's
// CheckConformanceRule child references a rule in the catalog) and the
// dependency-closure invariant (invariant 2: dependencies ⊆ catalog).
func validateReferences(cat *Catalog) error {
	for ruleID, rule := range cat.Rules {
		for _, dep := range rule.Dependencies {
			if _, ok := cat.Rules[dep]; !ok {
				return &engineerrors.CatalogError{
					RuleID:  ruleID,
					Message: fmt.Sprintf("dependency %q is not present in the catalog", dep),
				}
			}
		}
		if err := checkCompositeRefs(ruleID, &rule.Requirement, cat); err != nil {
			return err
		}
	}
	return nil
}

func checkCompositeRefs(ruleID string, req *Requirement, cat *Catalog) error {
	if !req.Kind.IsComposite() {
		return nil
	}
	for i := range req.Items {
		item := &req.Items[i]
		if item.Kind == KindCheckConformanceRule {
			if _, ok := cat.Rules[item.ConformanceRuleID]; !ok {
				return &engineerrors.CatalogError{
					RuleID:  ruleID,
					Message: fmt.Sprintf("CheckConformanceRule references unknown rule %q", item.ConformanceRuleID),
				}
			}
			continue
		}
		if err := checkCompositeRefs(ruleID, item, cat); err != nil {
			return err
		}
	}
	return nil
}

func convertRule(ruleID string, rd ruleDoc) (*Rule, error) {
	req, err := convertRequirement(ruleID, rd.ValidationCriteria.Requirement)
	if err != nil {
		return nil, err
	}

	var cond *Requirement
	if rd.ValidationCriteria.Condition != nil {
		c, err := convertRequirement(ruleID, *rd.ValidationCriteria.Condition)
		if err != nil {
			return nil, err
		}
		cond = &c
	}

	return &Rule{
		RuleID:                       ruleID,
		Function:                     rd.Function,
		Reference:                    rd.Reference,
		EntityType:                   EntityType(rd.EntityType),
		Keyword:                      Keyword(rd.ValidationCriteria.Keyword),
		MustSatisfy:                  rd.ValidationCriteria.MustSatisfy,
		Type:                         RuleType(rd.Type),
		Status:                       rd.Status,
		ApplicabilityCriteria:        rd.ApplicabilityCriteria,
		Requirement:                  req,
		Condition:                    cond,
		Dependencies:                 rd.ValidationCriteria.Dependencies,
		Notes:                        rd.Notes,
		ConformanceVersionIntroduced: rd.ConformanceVersionIntroduced,
	}, nil
}

func convertRequirement(ruleID string, rd requirementDoc) (Requirement, error) {
	kind := Kind(rd.CheckFunction)
	if !knownKinds[kind] {
		return Requirement{}, &engineerrors.CatalogError{
			RuleID:  ruleID,
			Message: fmt.Sprintf("unrecognized CheckFunction tag %q", rd.CheckFunction),
		}
	}

	items := make([]Requirement, 0, len(rd.Items))
	for _, it := range rd.Items {
		converted, err := convertRequirement(ruleID, it)
		if err != nil {
			return Requirement{}, err
		}
		items = append(items, converted)
	}

	return Requirement{
		Kind:              kind,
		ColumnName:        rd.ColumnName,
		ColumnAName:       rd.ColumnAName,
		ColumnBName:       rd.ColumnBName,
		Value:             rd.Value,
		Values:            rd.Values,
		ExpectedCount:     rd.ExpectedCount,
		ConformanceRuleID: rd.ConformanceRuleID,
		Items:             items,
	}, nil
}

var knownKinds = map[Kind]bool{
	KindCheckValue:                      true,
	KindCheckNotValue:                   true,
	KindCheckSameValue:                  true,
	KindCheckNotSameValue:               true,
	KindCheckGreaterOrEqualThanValue:    true,
	KindCheckValueIn:                    true,
	KindColumnPresent:                   true,
	KindColumnByColumnEqualsColumnValue: true,
	KindCheckDistinctCount:              true,
	KindTypeString:                      true,
	KindTypeDecimal:                     true,
	KindTypeDateTime:                    true,
	KindFormatNumeric:                   true,
	KindFormatDateTime:                  true,
	KindFormatString:                    true,
	KindFormatUnit:                      true,
	KindFormatKeyValue:                  true,
	KindFormatBillingCurrencyCode:       true,
	KindCheckNationalCurrency:           true,
	KindAnd:                             true,
	KindOr:                              true,
	KindCheckConformanceRule:            true,
}

// RulesForDataset returns the rule_ids a dataset declares, failing with a
// *engineerrors.CatalogError when the dataset is not present in the
// catalog.
func (c *Catalog) RulesForDataset(name string) ([]string, error) {
	ids, ok := c.Datasets[name]
	if !ok {
		return nil, &engineerrors.CatalogError{Message: fmt.Sprintf("dataset %q is not present in the catalog", name)}
	}
	return ids, nil
}
