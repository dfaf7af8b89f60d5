package catalog

import (
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Scope says whether a kind exists inside a namespace or cluster-wide.
type Scope string

const (
	ScopeCluster    Scope = "Cluster"
	ScopeNamespaced Scope = "Namespaced"
)

// ResourceKind describes one listable resource type served by the cluster.
type ResourceKind struct {
	Group   string
	Version string
	Kind    string
	Plural  string
	Scope   Scope

	// CustomResource marks kinds declared by a CustomResourceDefinition.
	CustomResource bool
}

// Name returns the fully qualified resource name, e.g. "widgets.example.com"
// for a CRD-declared kind or "pods" for a core kind. This is the catalog key
// and the name users pass via the specific-CRDs flag.
func (k ResourceKind) Name() string {
	if k.Group == "" {
		return k.Plural
	}
	return k.Plural + "." + k.Group
}

// GVR returns the group/version/resource used for dynamic list calls.
func (k ResourceKind) GVR() schema.GroupVersionResource {
	return schema.GroupVersionResource{
		Group:    k.Group,
		Version:  k.Version,
		Resource: k.Plural,
	}
}

// Namespaced reports whether instances of the kind live in a namespace.
func (k ResourceKind) Namespaced() bool {
	return k.Scope == ScopeNamespaced
}

// Catalog is the set of listable kinds keyed by ResourceKind.Name.
// Each kind occurs at most once; the preferred API version wins.
type Catalog map[string]ResourceKind

// Add inserts the kind unless an entry for its name already exists.
func (c Catalog) Add(k ResourceKind) {
	if _, ok := c[k.Name()]; !ok {
		c[k.Name()] = k
	}
}

// Has reports whether the catalog contains a kind with the given name.
func (c Catalog) Has(name string) bool {
	_, ok := c[name]
	return ok
}
