package tui

import (
	"sort"
	"strings"

	"github.com/ppiankov/oraspectre/internal/models"
)

// filterState holds current active filters.
type filterState struct {
	Risk       string // lowercased risk class, empty = all
	SearchText string
}

// sortField enumerates the orderings the result list can cycle through.
type sortField int

const (
	sortByRisk sortField = iota
	sortByID
	sortByOutput
)

// sortFieldCount is the total number of sort orderings.
const sortFieldCount = 3

// applyFilters returns results matching all active filters.
func applyFilters(results []models.CheckResult, f filterState) []models.CheckResult {
	filtered := make([]models.CheckResult, 0, len(results))
	searchLower := strings.ToLower(f.SearchText)

	for _, res := range results {
		if f.Risk != "" && res.Definition.Risk.Class() != f.Risk {
			continue
		}
		if searchLower != "" && !matchesSearch(res, searchLower) {
			continue
		}
		filtered = append(filtered, res)
	}
	return filtered
}

func matchesSearch(res models.CheckResult, searchLower string) bool {
	def := res.Definition
	return strings.Contains(strings.ToLower(def.ID), searchLower) ||
		strings.Contains(strings.ToLower(def.Description), searchLower) ||
		strings.Contains(strings.ToLower(string(def.Risk)), searchLower) ||
		strings.Contains(strings.ToLower(def.Remediation), searchLower) ||
		strings.Contains(strings.ToLower(res.RawOutput), searchLower)
}

// sortResults sorts a slice of results in place by the given field.
func sortResults(results []models.CheckResult, field sortField) {
	sort.SliceStable(results, func(i, j int) bool {
		switch field {
		case sortByRisk:
			ri, rj := results[i].Definition.Risk.Rank(), results[j].Definition.Risk.Rank()
			if ri != rj {
				return ri < rj
			}
			return results[i].Definition.ID < results[j].Definition.ID
		case sortByID:
			return results[i].Definition.ID < results[j].Definition.ID
		case sortByOutput:
			return len(results[i].RawOutput) > len(results[j].RawOutput)
		default:
			return false
		}
	})
}

// uniqueRisks returns the risk classes present in the results, most
// severe first, for the filter menu.
func uniqueRisks(results []models.CheckResult) []string {
	seen := make(map[string]bool)
	var risks []models.RiskLevel
	for _, res := range results {
		class := res.Definition.Risk.Class()
		if !seen[class] {
			seen[class] = true
			risks = append(risks, res.Definition.Risk)
		}
	}
	sort.Slice(risks, func(i, j int) bool {
		return risks[i].Rank() < risks[j].Rank()
	})

	classes := make([]string, 0, len(risks))
	for _, r := range risks {
		classes = append(classes, r.Class())
	}
	return classes
}

// sortFieldName returns a human-readable name for the sort field.
func sortFieldName(f sortField) string {
	switch f {
	case sortByRisk:
		return "risk"
	case sortByID:
		return "id"
	case sortByOutput:
		return "output size"
	default:
		return "unknown"
	}
}
