package planner

import (
	"fmt"

	"github.com/kb-labs/setup-engine/operation"
)

// buildStages groups entries into dependency-ordered stages via Kahn's
// algorithm, restricted to ids present in entries. Dependencies on unknown
// ids are dropped for graph purposes and reported as warnings. A remaining
// cycle is broken by appending each unprocessed id as its own stage, in
// declaration order.
func buildStages(entries []operation.Entry) (stages []Stage, warnings []string) {
	if len(entries) == 0 {
		return nil, nil
	}

	byID := make(map[string]operation.Entry, len(entries))
	order := make([]string, 0, len(entries))
	for _, e := range entries {
		byID[e.Metadata.ID] = e
		order = append(order, e.Metadata.ID)
	}

	dependents := make(map[string][]string, len(entries))
	inDegree := make(map[string]int, len(entries))
	for _, id := range order {
		inDegree[id] = 0
	}

	for _, e := range entries {
		for _, dep := range e.Metadata.Dependencies {
			if _, known := byID[dep]; !known {
				warnings = append(warnings, fmt.Sprintf("Operation %s depends on missing operation %s. It will run anyway.", e.Metadata.ID, dep))
				continue
			}
			dependents[dep] = append(dependents[dep], e.Metadata.ID)
			inDegree[e.Metadata.ID]++
		}
	}

	queue := make([]string, 0)
	for _, id := range order {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	processed := make(map[string]bool, len(entries))
	stageNum := 0

	for len(queue) > 0 {
		stageNum++
		current := queue
		queue = nil

		operations := make([]operation.Entry, 0, len(current))
		for _, id := range current {
			operations = append(operations, byID[id])
			processed[id] = true
		}

		stages = append(stages, Stage{
			ID:         fmt.Sprintf("stage-%d", stageNum),
			Operations: operations,
			Parallel:   len(operations) >= 2,
		})

		for _, id := range current {
			for _, dependent := range dependents[id] {
				inDegree[dependent]--
			}
		}

		var next []string
		for _, id := range order {
			if !processed[id] && inDegree[id] == 0 {
				next = append(next, id)
			}
		}
		queue = next
	}

	var remaining []operation.Entry
	for _, id := range order {
		if !processed[id] {
			remaining = append(remaining, byID[id])
		}
	}

	if len(remaining) > 0 {
		warnings = append(warnings, "dependency cycle detected; remaining operations will run sequentially in declaration order")
		for _, e := range remaining {
			stageNum++
			stages = append(stages, Stage{
				ID:         fmt.Sprintf("stage-%d", stageNum),
				Operations: []operation.Entry{e},
				Parallel:   false,
			})
		}
	}

	if len(stages) == 0 {
		stages = []Stage{{ID: "stage-1", Operations: entries, Parallel: len(entries) >= 2}}
	}

	return stages, warnings
}
