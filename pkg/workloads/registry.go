package workloads

import (
	"fmt"
	"sort"

	"github.com/weftlabs/weft/pkg/orchestrate"
)

// Workload pairs a per-file map function with a reduce function folding the
// per-file counts into a single tally. Workloads register themselves in init
// and are selected by name from the CLI.
type Workload struct {
	Map    orchestrate.MapFunc[string, map[string]int]
	Reduce orchestrate.ReduceFunc[map[string]int, map[string]int]
}

var registry = make(map[string]Workload)

func Register(name string, workload Workload) error {
	if _, exists := registry[name]; exists {
		return fmt.Errorf("workload already registered: %s", name)
	}
	registry[name] = workload
	return nil
}

func Get(name string) (Workload, error) {
	workload, exists := registry[name]
	if !exists {
		return Workload{}, fmt.Errorf("workload not found: %s", name)
	}
	return workload, nil
}

func List() []string {
	var names []string
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MergeCounts is a reduce helper summing per-key counts across partial
// tallies; shared by the bundled workloads.
func MergeCounts(partials []map[string]int) map[string]int {
	merged := make(map[string]int)
	for _, partial := range partials {
		for key, count := range partial {
			merged[key] += count
		}
	}
	return merged
}
