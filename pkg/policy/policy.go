// Package policy turns user-supplied flags into a deterministic filter over
// the discovered resource catalog. The default posture is opt-out: noisy or
// sensitive kinds and all custom resources stay out unless asked for.
package policy

import (
	"k8s.io/apimachinery/pkg/util/sets"
)

// Policy is the validated collection policy. It is constructed once from CLI
// flags and never mutated afterwards.
type Policy struct {
	// Namespaces restricts which namespaces are visited for namespaced
	// kinds. Empty means all namespaces.
	Namespaces sets.Set[string]

	IncludeSecrets         bool
	IncludeCustomResources bool
	IncludeEvents          bool
	IncludeReplicaSets     bool
	IncludeEndpoints       bool
	IncludeLeases          bool

	// SpecificCRDs, when non-empty, overrides IncludeCustomResources
	// entirely: only the named CRD kinds are collected.
	SpecificCRDs sets.Set[string]

	// Sanitize strips server-generated fields before output.
	Sanitize bool
}

// OptionalResources names the optional resource classes the policy enables,
// for the summary's optional_resources_included field.
func (p Policy) OptionalResources() []string {
	var enabled []string
	if p.IncludeSecrets {
		enabled = append(enabled, "secrets")
	}
	if p.IncludeCustomResources && p.SpecificCRDs.Len() == 0 {
		enabled = append(enabled, "custom_resources")
	}
	for _, crd := range sets.List(p.SpecificCRDs) {
		enabled = append(enabled, "crd:"+crd)
	}
	if p.IncludeEvents {
		enabled = append(enabled, "events")
	}
	if p.IncludeReplicaSets {
		enabled = append(enabled, "replicasets")
	}
	if p.IncludeEndpoints {
		enabled = append(enabled, "endpoints")
	}
	if p.IncludeLeases {
		enabled = append(enabled, "leases")
	}
	return enabled
}
