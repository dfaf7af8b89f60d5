package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/ketchup-sh/ketchup/pkg/catalog"
)

func testCatalog() catalog.Catalog {
	cat := catalog.Catalog{}
	for _, k := range []catalog.ResourceKind{
		{Version: "v1", Kind: "Pod", Plural: "pods", Scope: catalog.ScopeNamespaced},
		{Version: "v1", Kind: "Secret", Plural: "secrets", Scope: catalog.ScopeNamespaced},
		{Version: "v1", Kind: "Event", Plural: "events", Scope: catalog.ScopeNamespaced},
		{Version: "v1", Kind: "ComponentStatus", Plural: "componentstatuses", Scope: catalog.ScopeCluster},
		{Version: "v1", Kind: "Binding", Plural: "bindings", Scope: catalog.ScopeNamespaced},
		{Version: "v1", Kind: "Node", Plural: "nodes", Scope: catalog.ScopeCluster},
		{Group: "apps", Version: "v1", Kind: "Deployment", Plural: "deployments", Scope: catalog.ScopeNamespaced},
		{Group: "apps", Version: "v1", Kind: "ReplicaSet", Plural: "replicasets", Scope: catalog.ScopeNamespaced},
		{Group: "discovery.k8s.io", Version: "v1", Kind: "EndpointSlice", Plural: "endpointslices", Scope: catalog.ScopeNamespaced},
		{Version: "v1", Kind: "Endpoints", Plural: "endpoints", Scope: catalog.ScopeNamespaced},
		{Group: "coordination.k8s.io", Version: "v1", Kind: "Lease", Plural: "leases", Scope: catalog.ScopeNamespaced},
		{Group: "example.com", Version: "v1", Kind: "Widget", Plural: "widgets", Scope: catalog.ScopeNamespaced, CustomResource: true},
		{Group: "example.com", Version: "v1", Kind: "Gadget", Plural: "gadgets", Scope: catalog.ScopeCluster, CustomResource: true},
	} {
		cat.Add(k)
	}
	return cat
}

func TestFilterDefaultOptOut(t *testing.T) {
	got := Filter(testCatalog(), Policy{})

	assert.True(t, got.Has("pods"))
	assert.True(t, got.Has("nodes"))
	assert.True(t, got.Has("deployments.apps"))

	for _, excluded := range []string{
		"secrets",
		"events",
		"replicasets.apps",
		"endpoints",
		"endpointslices.discovery.k8s.io",
		"leases.coordination.k8s.io",
		"widgets.example.com",
		"gadgets.example.com",
		"componentstatuses",
		"bindings",
	} {
		assert.False(t, got.Has(excluded), excluded)
	}
}

func TestFilterOptIns(t *testing.T) {
	tests := []struct {
		name     string
		policy   Policy
		included []string
	}{
		{
			name:     "secrets",
			policy:   Policy{IncludeSecrets: true},
			included: []string{"secrets"},
		},
		{
			name:     "events",
			policy:   Policy{IncludeEvents: true},
			included: []string{"events"},
		},
		{
			name:     "replicasets",
			policy:   Policy{IncludeReplicaSets: true},
			included: []string{"replicasets.apps"},
		},
		{
			name:     "endpoints covers both endpoint kinds",
			policy:   Policy{IncludeEndpoints: true},
			included: []string{"endpoints", "endpointslices.discovery.k8s.io"},
		},
		{
			name:     "leases",
			policy:   Policy{IncludeLeases: true},
			included: []string{"leases.coordination.k8s.io"},
		},
		{
			name:     "custom resources",
			policy:   Policy{IncludeCustomResources: true},
			included: []string{"widgets.example.com", "gadgets.example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(testCatalog(), tt.policy)
			for _, name := range tt.included {
				assert.True(t, got.Has(name), name)
			}
			// The opt-in never drags in another optional kind.
			defaults := Filter(testCatalog(), Policy{})
			assert.Len(t, got, len(defaults)+len(tt.included))
		})
	}
}

func TestFilterSpecificCRDsOverride(t *testing.T) {
	got := Filter(testCatalog(), Policy{
		IncludeCustomResources: false,
		SpecificCRDs:           sets.New("widgets.example.com"),
	})

	assert.True(t, got.Has("widgets.example.com"))
	assert.False(t, got.Has("gadgets.example.com"))

	// The override wins even when the general flag is set.
	got = Filter(testCatalog(), Policy{
		IncludeCustomResources: true,
		SpecificCRDs:           sets.New("widgets.example.com"),
	})
	assert.True(t, got.Has("widgets.example.com"))
	assert.False(t, got.Has("gadgets.example.com"))
}

func TestFilterSpecificCRDsMatchKindAndCase(t *testing.T) {
	got := Filter(testCatalog(), Policy{SpecificCRDs: sets.New("WIDGET")})
	assert.True(t, got.Has("widgets.example.com"))

	got = Filter(testCatalog(), Policy{SpecificCRDs: sets.New("Widgets.Example.COM")})
	assert.True(t, got.Has("widgets.example.com"))
}

func TestFilterIsPure(t *testing.T) {
	cat := testCatalog()
	before := len(cat)

	Filter(cat, Policy{IncludeSecrets: true})
	Filter(cat, Policy{})

	require.Len(t, cat, before, "filter must not mutate its input")
}
