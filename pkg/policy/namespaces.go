package policy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agnivade/levenshtein"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// maxSuggestionDistance caps how far a "did you mean" candidate may be from
// the requested name.
const maxSuggestionDistance = 3

// ListNamespaces returns the names of all namespaces in the cluster.
func ListNamespaces(ctx context.Context, clientset kubernetes.Interface) ([]string, error) {
	list, err := clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list namespaces: %w", err)
	}

	names := make([]string, 0, len(list.Items))
	for i := range list.Items {
		names = append(names, list.Items[i].Name)
	}

	slog.Debug("listed cluster namespaces", slog.Int("count", len(names)))
	return names, nil
}

// VerifyNamespaces checks the requested namespaces against the cluster.
// Unknown names are skipped with a warning (and a closest-match hint when
// one is plausible); an empty verified set is an error because the run would
// collect nothing namespaced.
func VerifyNamespaces(ctx context.Context, clientset kubernetes.Interface, requested []string) ([]string, error) {
	available, err := ListNamespaces(ctx, clientset)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(available))
	for _, ns := range available {
		known[ns] = true
	}

	verified := make([]string, 0, len(requested))
	for _, ns := range requested {
		if known[ns] {
			verified = append(verified, ns)
			continue
		}

		if hint := closestMatch(ns, available); hint != "" {
			slog.Warn("namespace does not exist, skipping",
				slog.String("namespace", ns),
				slog.String("didYouMean", hint))
		} else {
			slog.Warn("namespace does not exist, skipping", slog.String("namespace", ns))
		}
	}

	if len(verified) == 0 {
		return nil, fmt.Errorf("none of the requested namespaces exist: %v", requested)
	}
	return verified, nil
}

// closestMatch returns the candidate with the smallest edit distance to
// name, or "" when nothing is close enough to be a likely typo.
func closestMatch(name string, candidates []string) string {
	best := ""
	bestDistance := maxSuggestionDistance + 1
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(name, c); d < bestDistance {
			best = c
			bestDistance = d
		}
	}
	return best
}
