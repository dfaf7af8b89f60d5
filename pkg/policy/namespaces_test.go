package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
)

func newClusterWithNamespaces(names ...string) *fake.Clientset {
	objs := make([]runtime.Object, 0, len(names))
	for _, name := range names {
		objs = append(objs, &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: name}})
	}
	return fake.NewClientset(objs...)
}

func TestListNamespaces(t *testing.T) {
	clientset := newClusterWithNamespaces("default", "kube-system", "prod")

	got, err := ListNamespaces(context.Background(), clientset)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"default", "kube-system", "prod"}, got)
}

func TestVerifyNamespacesSkipsUnknown(t *testing.T) {
	clientset := newClusterWithNamespaces("default", "kube-system", "prod")

	got, err := VerifyNamespaces(context.Background(), clientset, []string{"kube-system", "staging"})
	require.NoError(t, err)
	assert.Equal(t, []string{"kube-system"}, got)
}

func TestVerifyNamespacesAllUnknown(t *testing.T) {
	clientset := newClusterWithNamespaces("default")

	_, err := VerifyNamespaces(context.Background(), clientset, []string{"staging", "qa"})
	require.Error(t, err)
}

func TestClosestMatch(t *testing.T) {
	candidates := []string{"default", "kube-system", "prod"}

	assert.Equal(t, "kube-system", closestMatch("kube-systm", candidates))
	assert.Equal(t, "prod", closestMatch("prd", candidates))
	assert.Empty(t, closestMatch("monitoring", candidates), "nothing close enough")
}
