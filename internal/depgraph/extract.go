package depgraph

import "go-flag-graph-service/internal/domain"

// ExtractDependencies walks every group and every entry of a flag's
// targeting rules and collects the raw reference string of each flag
// dependency predicate. References are returned deduplicated in first-seen
// order; dependency existence is a boolean OR across groups, so group
// boundaries and operators never leak into the result.
//
// Returned strings are unvalidated: parsing them as flag IDs is the
// validator's job. Entries missing the fields this function examines
// contribute nothing rather than failing; the predicate schema is shared
// with unrelated property predicates that do not populate them.
func ExtractDependencies(rules domain.TargetingRules) []string {
	var refs []string
	seen := make(map[string]struct{})
	for _, group := range rules.Groups {
		for _, entry := range group.Properties {
			if !entry.IsFlagDependency() || entry.Reference == "" {
				continue
			}
			if _, ok := seen[entry.Reference]; ok {
				continue
			}
			seen[entry.Reference] = struct{}{}
			refs = append(refs, entry.Reference)
		}
	}
	return refs
}
