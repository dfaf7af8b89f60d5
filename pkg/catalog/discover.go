package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
)

// crdGVR is the group/version/resource of CustomResourceDefinitions.
var crdGVR = schema.GroupVersionResource{
	Group:    "apiextensions.k8s.io",
	Version:  "v1",
	Resource: "customresourcedefinitions",
}

// ResourceLister is the slice of the discovery client the resolver needs.
// *discovery.DiscoveryClient and the fake clientset's Discovery() satisfy it.
type ResourceLister interface {
	ServerPreferredResources() ([]*metav1.APIResourceList, error)
}

// Resolver queries the cluster's discovery surface and builds the catalog.
type Resolver struct {
	Discovery ResourceLister
	Dynamic   dynamic.Interface
}

// Discover builds the catalog of listable kinds from the server's preferred
// API versions, merged with the kinds declared by CustomResourceDefinitions.
// A total inability to reach the discovery endpoint returns a
// *FatalDiscoveryError; failure of an individual API group is logged and the
// group skipped, so the run proceeds with a partial catalog.
func (r *Resolver) Discover(ctx context.Context) (Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lists, err := r.Discovery.ServerPreferredResources()
	if err != nil {
		var groupErr *discovery.ErrGroupDiscoveryFailed
		switch {
		case errors.As(err, &groupErr):
			for gv, gerr := range groupErr.Groups {
				slog.Warn("skipping API group, discovery failed",
					slog.String("groupVersion", gv.String()),
					slog.String("error", gerr.Error()))
			}
		case len(lists) == 0:
			return nil, &FatalDiscoveryError{Err: err}
		default:
			slog.Warn("partial discovery result", slog.String("error", err.Error()))
		}
	}

	crds, crdsKnown := r.discoverCRDs(ctx)

	cat := Catalog{}
	for _, list := range lists {
		if list == nil {
			continue
		}

		gv, err := schema.ParseGroupVersion(list.GroupVersion)
		if err != nil {
			slog.Warn("skipping unparseable group version",
				slog.String("groupVersion", list.GroupVersion),
				slog.String("error", err.Error()))
			continue
		}

		for _, res := range list.APIResources {
			// Subresources show up as "pods/status" and are never listable
			// on their own.
			if res.Kind == "" || strings.Contains(res.Name, "/") {
				continue
			}
			if !hasVerb(res.Verbs, "list") {
				continue
			}

			scope := ScopeCluster
			if res.Namespaced {
				scope = ScopeNamespaced
			}

			k := ResourceKind{
				Group:   gv.Group,
				Version: gv.Version,
				Kind:    res.Kind,
				Plural:  res.Name,
				Scope:   scope,
			}
			if crdsKnown {
				_, k.CustomResource = crds[k.Name()]
			} else {
				k.CustomResource = looksCustom(gv.Group)
			}
			cat.Add(k)
		}
	}

	// A CRD whose group failed discovery above would otherwise be lost;
	// Add dedups against kinds the preferred lists already provided.
	for _, k := range crds {
		cat.Add(k)
	}

	slog.Debug("built resource catalog", slog.Int("kinds", len(cat)))
	return cat, nil
}

// discoverCRDs lists CustomResourceDefinitions and returns the kinds they
// declare, keyed by "plural.group". The second return is false when the CRD
// endpoint could not be listed; callers then fall back to group heuristics.
func (r *Resolver) discoverCRDs(ctx context.Context) (map[string]ResourceKind, bool) {
	kinds := make(map[string]ResourceKind)

	var cont string
	for {
		list, err := r.Dynamic.Resource(crdGVR).List(ctx, metav1.ListOptions{Continue: cont})
		if err != nil {
			slog.Warn("unable to list CustomResourceDefinitions, falling back to group heuristics",
				slog.String("error", err.Error()))
			return nil, false
		}

		for i := range list.Items {
			if k, ok := crdResourceKind(&list.Items[i]); ok {
				kinds[k.Name()] = k
			}
		}

		cont = list.GetContinue()
		if cont == "" {
			break
		}
	}

	slog.Debug("discovered custom resource definitions", slog.Int("count", len(kinds)))
	return kinds, true
}

// crdResourceKind builds a catalog entry from a CRD document, using the
// storage version as the canonical one.
func crdResourceKind(crd *unstructured.Unstructured) (ResourceKind, bool) {
	group, _, _ := unstructured.NestedString(crd.Object, "spec", "group")
	plural, _, _ := unstructured.NestedString(crd.Object, "spec", "names", "plural")
	kind, _, _ := unstructured.NestedString(crd.Object, "spec", "names", "kind")
	scope, _, _ := unstructured.NestedString(crd.Object, "spec", "scope")
	if group == "" || plural == "" || kind == "" {
		return ResourceKind{}, false
	}

	version := ""
	versions, _, _ := unstructured.NestedSlice(crd.Object, "spec", "versions")
	for _, v := range versions {
		m, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		name, _ := m["name"].(string)
		if version == "" {
			version = name
		}
		if storage, _ := m["storage"].(bool); storage {
			version = name
			break
		}
	}
	if version == "" {
		return ResourceKind{}, false
	}

	k := ResourceKind{
		Group:          group,
		Version:        version,
		Kind:           kind,
		Plural:         plural,
		Scope:          ScopeNamespaced,
		CustomResource: true,
	}
	if scope == "Cluster" {
		k.Scope = ScopeCluster
	}
	return k, true
}

// looksCustom is the heuristic used when the CRD endpoint is unreachable:
// aggregated and custom APIs carry a dotted group, built-in ones end in
// ".k8s.io" or are group-less.
func looksCustom(group string) bool {
	if group == "" || !strings.Contains(group, ".") {
		return false
	}
	return !strings.HasSuffix(group, ".k8s.io")
}

func hasVerb(verbs metav1.Verbs, verb string) bool {
	for _, v := range verbs {
		if v == verb {
			return true
		}
	}
	return false
}
