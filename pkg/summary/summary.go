// Package summary derives reconcilable statistics from a collection result.
// Counts come solely from collected objects, so they are identical whether
// or not sanitization ran, and summarizing the same result twice yields the
// same stats.
package summary

import (
	"github.com/ketchup-sh/ketchup/pkg/collector"
	"github.com/ketchup-sh/ketchup/pkg/policy"
)

// Stats is the terminal summary of a run. TotalClusterResources plus
// TotalNamespacedResources always equals the number of collected objects.
type Stats struct {
	// TotalNamespaces counts the namespaces visited during collection,
	// including those that yielded zero objects.
	TotalNamespaces          int `json:"total_namespaces" yaml:"total_namespaces"`
	TotalClusterResources    int `json:"total_cluster_resources" yaml:"total_cluster_resources"`
	TotalNamespacedResources int `json:"total_namespaced_resources" yaml:"total_namespaced_resources"`

	// ClusterResourceCounts maps a cluster-scoped resource name, e.g.
	// "nodes" or "widgets.example.com", to its object count.
	ClusterResourceCounts map[string]int `json:"cluster_resource_counts" yaml:"cluster_resource_counts"`

	// NamespaceResourceCounts maps namespace to resource name to count.
	NamespaceResourceCounts map[string]map[string]int `json:"namespace_resource_counts" yaml:"namespace_resource_counts"`

	// OptionalResourcesIncluded names the opt-in resource classes the
	// policy enabled for this run.
	OptionalResourcesIncluded []string `json:"optional_resources_included" yaml:"optional_resources_included"`
}

// Summarize computes the stats for a collection result under the policy that
// produced it.
func Summarize(res *collector.Result, p policy.Policy) *Stats {
	stats := &Stats{
		TotalNamespaces:           len(res.Namespaces),
		ClusterResourceCounts:     make(map[string]int),
		NamespaceResourceCounts:   make(map[string]map[string]int),
		OptionalResourcesIncluded: p.OptionalResources(),
	}

	// Visited namespaces appear even when nothing was collected in them.
	for _, ns := range res.Namespaces {
		stats.NamespaceResourceCounts[ns] = make(map[string]int)
	}

	for _, obj := range res.Objects {
		name := obj.Kind.Name()
		if obj.Kind.Namespaced() {
			counts, ok := stats.NamespaceResourceCounts[obj.Namespace]
			if !ok {
				counts = make(map[string]int)
				stats.NamespaceResourceCounts[obj.Namespace] = counts
			}
			counts[name]++
			stats.TotalNamespacedResources++
		} else {
			stats.ClusterResourceCounts[name]++
			stats.TotalClusterResources++
		}
	}

	return stats
}
