// Package scheduler performs deterministic topological layering of a plan
// graph for execution, grounded on plan_builder.py's topo_schedule /
// compile_validation_plan and its default_key_fn tie-break.
package scheduler

import (
	"strconv"
	"strings"

	"github.com/focusconform/validator/internal/catalog"
)

// tieBreakKey is the default ordering key for nodes tied at zero
// in-degree: (zero_boost, entity-type ordinal, sequence number, rule_id).
type tieBreakKey struct {
	zeroBoost   int
	entityOrd   int
	sequenceNum int
	ruleID      string
}

func less(a, b tieBreakKey) bool {
	if a.zeroBoost != b.zeroBoost {
		return a.zeroBoost < b.zeroBoost
	}
	if a.entityOrd != b.entityOrd {
		return a.entityOrd < b.entityOrd
	}
	if a.sequenceNum != b.sequenceNum {
		return a.sequenceNum < b.sequenceNum
	}
	return a.ruleID < b.ruleID
}

func entityOrdinal(t catalog.EntityType) int {
	switch t {
	case catalog.EntityDataset:
		return 0
	case catalog.EntityColumn:
		return 1
	default:
		return 2
	}
}

// extractSequence finds the first "-"-delimited three-digit segment in a
// rule_id, e.g. "BilledCost-C-001-M" -> "001". A rule_id with no such
// segment gets sequence -1 and is not zero-boosted, so it sorts before
// numbered rule_ids that share its zero-boost and entity ordinal.
func extractSequence(ruleID string) (string, int, bool) {
	for _, part := range strings.Split(ruleID, "-") {
		if len(part) == 3 {
			if n, err := strconv.Atoi(part); err == nil {
				return part, n, true
			}
		}
	}
	return "", -1, false
}

func defaultKey(ruleID string, rule *catalog.Rule) tieBreakKey {
	seq, seqNum, ok := extractSequence(ruleID)
	zeroBoost := 1
	if ok && seq == "000" {
		zeroBoost = 0
	}
	entityOrd := 2
	if rule != nil {
		entityOrd = entityOrdinal(rule.EntityType)
	}
	return tieBreakKey{
		zeroBoost:   zeroBoost,
		entityOrd:   entityOrd,
		sequenceNum: seqNum,
		ruleID:      ruleID,
	}
}
