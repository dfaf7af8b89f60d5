package output

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/ketchup-sh/ketchup/pkg/catalog"
	"github.com/ketchup-sh/ketchup/pkg/collector"
	"github.com/ketchup-sh/ketchup/pkg/policy"
	"github.com/ketchup-sh/ketchup/pkg/serializer"
	"github.com/ketchup-sh/ketchup/pkg/summary"
)

var (
	nodeKind = catalog.ResourceKind{Version: "v1", Kind: "Node", Plural: "nodes", Scope: catalog.ScopeCluster}
	podKind  = catalog.ResourceKind{Version: "v1", Kind: "Pod", Plural: "pods", Scope: catalog.ScopeNamespaced}
)

func body(kind, name string) *unstructured.Unstructured {
	return &unstructured.Unstructured{
		Object: map[string]interface{}{
			"apiVersion": "v1",
			"kind":       kind,
			"metadata":   map[string]interface{}{"name": name},
		},
	}
}

func testRun() (*collector.Result, *summary.Stats) {
	res := &collector.Result{
		Objects: []collector.Object{
			{Kind: nodeKind, Name: "node-1", Body: body("Node", "node-1")},
			{Kind: podKind, Namespace: "default", Name: "web-1", Body: body("Pod", "web-1")},
		},
		Namespaces: []string{"default"},
	}
	return res, summary.Summarize(res, policy.Policy{})
}

func testManager(t *testing.T, format serializer.Format, compression Compression) *Manager {
	t.Helper()
	stamp := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	return &Manager{
		BaseDir:     t.TempDir(),
		Format:      format,
		Compression: compression,
		Clock:       clocktesting.NewFakeClock(stamp),
	}
}

func TestWriteLayout(t *testing.T) {
	m := testManager(t, serializer.FormatYAML, CompressionUncompressed)
	res, stats := testRun()

	paths, err := m.Write(res, stats, Metadata{Version: "1.2.3", Sanitized: true})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(m.BaseDir, "ketchup-2026-03-04-05-06-07"), paths.Dir)
	assert.Empty(t, paths.Archive)

	assert.FileExists(t, filepath.Join(paths.Dir, "cluster", "node", "node-1.yaml"))
	assert.FileExists(t, filepath.Join(paths.Dir, "default", "pod", "web-1.yaml"))
	assert.FileExists(t, filepath.Join(paths.Dir, "collection-summary.yaml"))
}

func TestWriteSummaryContents(t *testing.T) {
	m := testManager(t, serializer.FormatYAML, CompressionUncompressed)
	res, stats := testRun()
	res.Errors = []collector.ResourceError{{Kind: "secrets", Namespace: "default", Message: "forbidden"}}

	paths, err := m.Write(res, stats, Metadata{Version: "1.2.3", Sanitized: true})
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(paths.Dir, "collection-summary.yaml"))
	require.NoError(t, err)

	var doc struct {
		CollectionInfo struct {
			Timestamp string `yaml:"timestamp"`
			Tool      string `yaml:"tool"`
			Version   string `yaml:"version"`
			RunID     string `yaml:"run_id"`
			Sanitized bool   `yaml:"sanitized"`
			Cancelled bool   `yaml:"cancelled"`
		} `yaml:"collection_info"`
		ClusterSummary summary.Stats             `yaml:"cluster_summary"`
		Errors         []collector.ResourceError `yaml:"errors"`
	}
	require.NoError(t, yaml.Unmarshal(b, &doc))

	info := doc.CollectionInfo
	assert.Equal(t, "2026-03-04T05:06:07Z", info.Timestamp)
	assert.Equal(t, "ketchup", info.Tool)
	assert.Equal(t, "1.2.3", info.Version)
	assert.True(t, info.Sanitized)
	assert.False(t, info.Cancelled)
	_, err = uuid.Parse(info.RunID)
	assert.NoError(t, err, "run_id is a uuid")

	assert.Equal(t, 1, doc.ClusterSummary.TotalClusterResources)
	assert.Equal(t, 1, doc.ClusterSummary.TotalNamespacedResources)
	require.Len(t, doc.Errors, 1)
	assert.Equal(t, "secrets", doc.Errors[0].Kind)
}

func TestWriteBothFormats(t *testing.T) {
	m := testManager(t, serializer.FormatBoth, CompressionUncompressed)
	res, stats := testRun()

	paths, err := m.Write(res, stats, Metadata{})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(paths.Dir, "default", "pod", "web-1.yaml"))
	assert.FileExists(t, filepath.Join(paths.Dir, "default", "pod", "web-1.json"))
}

func TestWriteCompressed(t *testing.T) {
	m := testManager(t, serializer.FormatYAML, CompressionCompressed)
	res, stats := testRun()

	paths, err := m.Write(res, stats, Metadata{})
	require.NoError(t, err)

	require.Equal(t, paths.Dir+".tar.gz", paths.Archive)
	names := tarEntries(t, paths.Archive)
	assert.Contains(t, names, "ketchup-2026-03-04-05-06-07/collection-summary.yaml")
	assert.Contains(t, names, "ketchup-2026-03-04-05-06-07/cluster/node/node-1.yaml")
}

func TestCompressionIsUnknown(t *testing.T) {
	assert.False(t, CompressionCompressed.IsUnknown())
	assert.False(t, CompressionUncompressed.IsUnknown())
	assert.False(t, CompressionBoth.IsUnknown())
	assert.True(t, Compression("zip").IsUnknown())
}
