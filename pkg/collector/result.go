package collector

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/ketchup-sh/ketchup/pkg/catalog"
)

// Object is one collected resource instance. Namespace is empty exactly when
// the kind is cluster-scoped. Objects are immutable once created.
type Object struct {
	Kind      catalog.ResourceKind
	Namespace string
	Name      string
	Body      *unstructured.Unstructured
}

// ResourceError records the failure of a single (kind, namespace) list call.
type ResourceError struct {
	Kind      string `json:"kind" yaml:"kind"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Message   string `json:"message" yaml:"message"`
}

// Result is the terminal output of a collection run. A failed list call
// contributes exactly one entry to Errors and no Objects; a cancelled run
// still carries everything collected before cancellation.
type Result struct {
	Objects []Object
	Errors  []ResourceError

	// Namespaces are the namespaces visited for namespaced kinds, whether
	// or not they yielded objects.
	Namespaces []string

	Cancelled bool
}
