// Package oci pushes a run archive to an OCI registry as a single-layer
// artifact, so backups can live next to other cluster artifacts.
package oci

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/distribution/reference"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/retry"
)

const (
	// artifactType identifies ketchup backups in a registry.
	artifactType = "application/vnd.ketchup.backup.v1"

	// layerMediaType is the media type of the tar.gz layer.
	layerMediaType = "application/vnd.ketchup.backup.layer.v1.tar+gzip"
)

// PushOptions configures where and how the archive is pushed.
type PushOptions struct {
	Registry    string
	Repository  string
	Tag         string
	PlainHTTP   bool
	InsecureTLS bool
}

// PushResult reports the pushed artifact's coordinates.
type PushResult struct {
	Reference string
	Digest    string
}

// ValidateRegistryReference checks that registry/repository form a valid
// reference before any collection work starts.
func ValidateRegistryReference(registry, repository string) error {
	if registry == "" || repository == "" {
		return fmt.Errorf("registry and repository must both be set")
	}
	if strings.Contains(registry, "/") {
		return fmt.Errorf("registry %q must not contain a path", registry)
	}
	if _, err := reference.ParseNormalizedNamed(registry + "/" + repository); err != nil {
		return fmt.Errorf("invalid reference %s/%s: %w", registry, repository, err)
	}
	return nil
}

// Push packages archivePath as a single-layer OCI artifact and pushes it to
// the remote repository.
func Push(ctx context.Context, archivePath string, opts PushOptions) (*PushResult, error) {
	tag := opts.Tag
	if tag == "" {
		tag = "latest"
	}

	store, err := file.New(filepath.Dir(archivePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open file store: %w", err)
	}
	defer store.Close()

	layer, err := store.Add(ctx, filepath.Base(archivePath), layerMediaType, "")
	if err != nil {
		return nil, fmt.Errorf("failed to stage archive: %w", err)
	}

	manifest, err := oras.PackManifest(ctx, store, oras.PackManifestVersion1_1, artifactType,
		oras.PackManifestOptions{Layers: []ocispec.Descriptor{layer}})
	if err != nil {
		return nil, fmt.Errorf("failed to pack manifest: %w", err)
	}
	if err := store.Tag(ctx, manifest, tag); err != nil {
		return nil, fmt.Errorf("failed to tag manifest: %w", err)
	}

	ref := fmt.Sprintf("%s/%s:%s", opts.Registry, opts.Repository, tag)
	repo, err := remote.NewRepository(ref)
	if err != nil {
		return nil, fmt.Errorf("invalid repository reference %s: %w", ref, err)
	}
	repo.PlainHTTP = opts.PlainHTTP
	repo.Client = httpClient(opts.InsecureTLS)

	if _, err := oras.Copy(ctx, store, tag, repo, tag, oras.DefaultCopyOptions); err != nil {
		return nil, fmt.Errorf("failed to push to %s: %w", ref, err)
	}

	return &PushResult{
		Reference: ref,
		Digest:    manifest.Digest.String(),
	}, nil
}

func httpClient(insecureTLS bool) *auth.Client {
	transport := http.DefaultTransport
	if insecureTLS {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return &auth.Client{
		Client: &http.Client{Transport: retry.NewTransport(transport)},
		Cache:  auth.NewCache(),
	}
}
