package policy

import (
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/ketchup-sh/ketchup/pkg/catalog"
)

// Filter applies the policy to a catalog and returns the kinds to collect.
// It is a pure function; the result is a set and nothing downstream may
// depend on its iteration order.
func Filter(cat catalog.Catalog, p Policy) catalog.Catalog {
	selected := catalog.Catalog{}
	for _, k := range cat {
		if includes(k, p) {
			selected.Add(k)
		}
	}
	return selected
}

func includes(k catalog.ResourceKind, p Policy) bool {
	// Neither kind can be meaningfully listed and reapplied.
	if k.Kind == "ComponentStatus" || k.Kind == "Binding" {
		return false
	}

	if k.CustomResource {
		if p.SpecificCRDs.Len() > 0 {
			return matchesSpecific(k, p.SpecificCRDs)
		}
		return p.IncludeCustomResources
	}

	switch k.Kind {
	case "Secret":
		return p.IncludeSecrets
	case "Event":
		return p.IncludeEvents
	case "ReplicaSet":
		return p.IncludeReplicaSets
	case "Endpoints", "EndpointSlice":
		return p.IncludeEndpoints
	case "Lease":
		return p.IncludeLeases
	default:
		return true
	}
}

// matchesSpecific compares the kind against the requested CRD names,
// accepting either the "plural.group" resource name or the bare kind,
// case-insensitively.
func matchesSpecific(k catalog.ResourceKind, requested sets.Set[string]) bool {
	for name := range requested {
		if strings.EqualFold(name, k.Name()) || strings.EqualFold(name, k.Kind) {
			return true
		}
	}
	return false
}
