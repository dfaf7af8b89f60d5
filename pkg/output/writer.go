// Package output writes a collection run to disk: one file per object keyed
// by scope-or-namespace and kind, a summary file mirroring the run's stats,
// and optionally a compressed archive of the whole run directory.
package output

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"k8s.io/utils/clock"

	"github.com/ketchup-sh/ketchup/pkg/collector"
	"github.com/ketchup-sh/ketchup/pkg/serializer"
	"github.com/ketchup-sh/ketchup/pkg/summary"
)

// Compression selects what happens to the run directory after writing.
type Compression string

const (
	// CompressionCompressed archives the run directory into a tar.gz.
	CompressionCompressed Compression = "compressed"

	// CompressionUncompressed leaves the plain directory only.
	CompressionUncompressed Compression = "uncompressed"

	// CompressionBoth produces the archive and keeps the directory.
	CompressionBoth Compression = "both"
)

// IsUnknown reports whether c is not a supported compression mode.
func (c Compression) IsUnknown() bool {
	switch c {
	case CompressionCompressed, CompressionUncompressed, CompressionBoth:
		return false
	}
	return true
}

// clusterDir is the run subdirectory holding cluster-scoped objects.
const clusterDir = "cluster"

// summaryFile is the name of the per-run summary file.
const summaryFile = "collection-summary.yaml"

// Metadata describes the run for the summary's collection_info block.
type Metadata struct {
	Version   string
	Sanitized bool
	Cancelled bool
}

// Manager writes one collection run under BaseDir.
type Manager struct {
	BaseDir     string
	Format      serializer.Format
	Compression Compression

	// Clock stamps the run directory name; tests inject a fake.
	Clock clock.PassiveClock
}

// RunPaths reports where a run landed on disk.
type RunPaths struct {
	Dir     string
	Archive string
}

// Write persists the result, its stats, and the summary file, then applies
// the compression mode. Objects must already be sanitized (or not) as the
// policy demands; the writer never alters bodies.
func (m *Manager) Write(res *collector.Result, stats *summary.Stats, meta Metadata) (*RunPaths, error) {
	c := m.Clock
	if c == nil {
		c = clock.RealClock{}
	}

	now := c.Now().UTC()
	runDir := filepath.Join(m.BaseDir, "ketchup-"+now.Format("2006-01-02-15-04-05"))
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	slog.Info("created output directory", slog.String("dir", runDir))

	for i := range res.Objects {
		if err := m.writeObject(runDir, &res.Objects[i]); err != nil {
			return nil, err
		}
	}

	if err := m.writeSummary(runDir, now, res, stats, meta); err != nil {
		return nil, err
	}

	paths := &RunPaths{Dir: runDir}
	if m.Compression == CompressionCompressed || m.Compression == CompressionBoth {
		paths.Archive = runDir + ".tar.gz"
		slog.Info("creating compressed archive", slog.String("archive", paths.Archive))
		if err := Compress(runDir, paths.Archive); err != nil {
			return nil, err
		}
	}
	return paths, nil
}

// writeObject stores one object at <scope-or-namespace>/<kind>/<name>.<ext>
// for each requested encoding.
func (m *Manager) writeObject(runDir string, obj *collector.Object) error {
	scopeDir := clusterDir
	if obj.Kind.Namespaced() {
		scopeDir = obj.Namespace
	}

	dir := filepath.Join(runDir, scopeDir, strings.ToLower(obj.Kind.Kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", obj.Kind.Kind, err)
	}

	for _, enc := range m.Format.Encodings() {
		b, err := serializer.Encode(obj.Body.Object, enc)
		if err != nil {
			return fmt.Errorf("failed to encode %s/%s: %w", obj.Kind.Kind, obj.Name, err)
		}
		path := filepath.Join(dir, obj.Name+"."+enc.Extension())
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}

// summaryDocument is the on-disk shape of the summary file.
type summaryDocument struct {
	CollectionInfo collectionInfo            `yaml:"collection_info"`
	ClusterSummary *summary.Stats            `yaml:"cluster_summary"`
	Errors         []collector.ResourceError `yaml:"errors,omitempty"`
}

type collectionInfo struct {
	Timestamp string `yaml:"timestamp"`
	Tool      string `yaml:"tool"`
	Version   string `yaml:"version"`
	RunID     string `yaml:"run_id"`
	Sanitized bool   `yaml:"sanitized"`
	Cancelled bool   `yaml:"cancelled,omitempty"`
}

func (m *Manager) writeSummary(runDir string, now time.Time, res *collector.Result, stats *summary.Stats, meta Metadata) error {
	doc := summaryDocument{
		CollectionInfo: collectionInfo{
			Timestamp: now.Format(time.RFC3339),
			Tool:      "ketchup",
			Version:   meta.Version,
			RunID:     uuid.New().String(),
			Sanitized: meta.Sanitized,
			Cancelled: meta.Cancelled,
		},
		ClusterSummary: stats,
		Errors:         res.Errors,
	}

	b, err := serializer.Encode(doc, serializer.FormatYAML)
	if err != nil {
		return fmt.Errorf("failed to serialize summary: %w", err)
	}

	path := filepath.Join(runDir, summaryFile)
	slog.Info("writing collection summary", slog.String("file", path))
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write summary file: %w", err)
	}
	return nil
}
