package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/ketchup-sh/ketchup/pkg/catalog"
	"github.com/ketchup-sh/ketchup/pkg/collector"
	"github.com/ketchup-sh/ketchup/pkg/k8s/client"
	"github.com/ketchup-sh/ketchup/pkg/logging"
	"github.com/ketchup-sh/ketchup/pkg/oci"
	"github.com/ketchup-sh/ketchup/pkg/output"
	"github.com/ketchup-sh/ketchup/pkg/policy"
	"github.com/ketchup-sh/ketchup/pkg/sanitize"
	"github.com/ketchup-sh/ketchup/pkg/serializer"
	"github.com/ketchup-sh/ketchup/pkg/summary"
)

const name = "ketchup"

// overridden during build with ldflags to reflect actual version info
var version = "dev"

// New constructs the root command.
func New() *cli.Command {
	return &cli.Command{
		Name:                  name,
		EnableShellCompletion: true,
		Usage:                 "Collect all Kubernetes resources needed to recreate a cluster setup",
		Description: `Collects every accessible configuration resource from a Kubernetes cluster
into a timestamped directory (one file per object plus a summary), optionally
wrapped in a tar.gz archive. By default, resources are sanitized for
kubectl apply readiness.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "kubeconfig",
				Aliases:  []string{"k"},
				Required: true,
				Usage:    "Path to kubeconfig file",
			},
			&cli.StringFlag{
				Name:    "namespaces",
				Aliases: []string{"n"},
				Usage:   "Namespaces to collect from (comma-separated, default: all namespaces)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "/tmp",
				Usage:   "Output directory for the collection run",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "yaml",
				Usage:   "Output format: yaml, json, or both",
			},
			&cli.StringFlag{
				Name:    "compression",
				Aliases: []string{"c"},
				Value:   "compressed",
				Usage:   "Compression: compressed, uncompressed, or both",
			},
			&cli.BoolFlag{
				Name:    "include-secrets",
				Aliases: []string{"s"},
				Usage:   "Include Secrets (disabled by default for security)",
			},
			&cli.BoolFlag{
				Name:    "include-custom-resources",
				Aliases: []string{"C"},
				Usage:   "Include Custom Resource instances (disabled by default, may show API errors)",
			},
			&cli.BoolFlag{
				Name:    "include-events",
				Aliases: []string{"E"},
				Usage:   "Include Events (disabled by default, high volume)",
			},
			&cli.BoolFlag{
				Name:    "include-replicasets",
				Aliases: []string{"R"},
				Usage:   "Include ReplicaSets (disabled by default, redundant with Deployments)",
			},
			&cli.BoolFlag{
				Name:    "include-endpoints",
				Aliases: []string{"P"},
				Usage:   "Include Endpoints/EndpointSlices (disabled by default, redundant with Services)",
			},
			&cli.BoolFlag{
				Name:    "include-leases",
				Aliases: []string{"L"},
				Usage:   "Include Leases (disabled by default, high churn)",
			},
			&cli.StringFlag{
				Name:  "crds",
				Usage: "Collect specific CRD instances only (comma-separated list of CRD names)",
			},
			&cli.BoolFlag{
				Name:    "raw",
				Aliases: []string{"r"},
				Usage:   "Collect raw unsanitized resources (default: sanitize for kubectl apply readiness)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Value: 4,
				Usage: "Number of concurrent list calls against the API server",
			},
			&cli.DurationFlag{
				Name:  "list-timeout",
				Value: 30 * time.Second,
				Usage: "Timeout for each individual list call",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Verbose logging (progress and summaries)",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "Debug logging (includes per-kind traces)",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "Output logs in JSON format",
			},
			&cli.BoolFlag{
				Name:  "push",
				Usage: "Push the archive to an OCI registry after collection",
			},
			&cli.StringFlag{
				Name:  "registry",
				Usage: "OCI registry host (required with --push)",
			},
			&cli.StringFlag{
				Name:  "repository",
				Usage: "OCI repository within the registry (required with --push)",
			},
			&cli.StringFlag{
				Name:  "tag",
				Usage: "Tag for the pushed artifact (default: latest)",
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "Use HTTP instead of HTTPS for the OCI registry (for local development)",
			},
			&cli.BoolFlag{
				Name:  "insecure-tls",
				Usage: "Skip TLS verification for the OCI registry",
			},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	logging.SetDefaultStructuredLogger(name, version, logging.Options{
		Level: logging.LevelFor(cmd.Bool("verbose"), cmd.Bool("debug")),
		JSON:  cmd.Bool("log-json"),
	})

	// Validate everything user-supplied before touching the network.
	format := serializer.Format(cmd.String("format"))
	if format.IsUnknown() {
		return fmt.Errorf("unknown output format: %q, valid formats are: yaml, json, both", format)
	}
	compression := output.Compression(cmd.String("compression"))
	if compression.IsUnknown() {
		return fmt.Errorf("unknown compression: %q, valid values are: compressed, uncompressed, both", compression)
	}

	pushEnabled := cmd.Bool("push")
	if pushEnabled {
		if compression == output.CompressionUncompressed {
			return fmt.Errorf("--push requires a compressed archive")
		}
		if err := oci.ValidateRegistryReference(cmd.String("registry"), cmd.String("repository")); err != nil {
			return fmt.Errorf("invalid OCI reference: %w", err)
		}
	}

	pol := policyFromFlags(cmd)

	slog.Info("starting collection", slog.String("kubeconfig", cmd.String("kubeconfig")))
	if pol.Sanitize {
		slog.Info("resources will be sanitized for kubectl apply readiness (use --raw to disable)")
	}
	logCollectionPlan(pol)

	clients, err := client.Build(cmd.String("kubeconfig"))
	if err != nil {
		return err
	}

	namespaces, err := resolveNamespaces(ctx, clients, pol)
	if err != nil {
		return err
	}
	slog.Info("namespaces to collect from", slog.Int("count", len(namespaces)))

	resolver := &catalog.Resolver{
		Discovery: clients.Clientset.Discovery(),
		Dynamic:   clients.Dynamic,
	}
	cat, err := resolver.Discover(ctx)
	if err != nil {
		return err
	}

	selected := policy.Filter(cat, pol)
	slog.Info("resolved resource catalog",
		slog.Int("discovered", len(cat)),
		slog.Int("selected", len(selected)))

	col := &collector.Collector{
		Client:      clients.Dynamic,
		Workers:     cmd.Int("workers"),
		ListTimeout: cmd.Duration("list-timeout"),
	}
	res := col.Collect(ctx, selected, namespaces)

	if pol.Sanitize {
		for i := range res.Objects {
			res.Objects[i].Body = sanitize.Object(res.Objects[i].Body)
		}
	}

	stats := summary.Summarize(res, pol)

	mgr := &output.Manager{
		BaseDir:     cmd.String("output"),
		Format:      format,
		Compression: compression,
	}
	paths, err := mgr.Write(res, stats, output.Metadata{
		Version:   version,
		Sanitized: pol.Sanitize,
		Cancelled: res.Cancelled,
	})
	if err != nil {
		return err
	}

	if pushEnabled {
		if res.Cancelled {
			slog.Warn("skipping OCI push, run was cancelled")
		} else if err := pushArchive(ctx, paths.Archive, cmd); err != nil {
			return err
		}
	}

	if res.Cancelled && len(res.Objects) == 0 {
		return fmt.Errorf("collection was cancelled before any resources were collected")
	}

	slog.Info("collection completed",
		slog.String("dir", paths.Dir),
		slog.String("archive", paths.Archive),
		slog.Int("objects", len(res.Objects)),
		slog.Int("errors", len(res.Errors)),
		slog.Bool("cancelled", res.Cancelled))
	return nil
}

// resolveNamespaces turns the policy's namespace filter into the set of
// namespaces to visit: the verified filter, or all cluster namespaces when
// no filter was given.
func resolveNamespaces(ctx context.Context, clients *client.Clients, pol policy.Policy) ([]string, error) {
	if pol.Namespaces.Len() > 0 {
		return policy.VerifyNamespaces(ctx, clients.Clientset, sets.List(pol.Namespaces))
	}
	slog.Info("no namespaces specified, collecting from all namespaces")
	return policy.ListNamespaces(ctx, clients.Clientset)
}

func pushArchive(ctx context.Context, archivePath string, cmd *cli.Command) error {
	slog.Info("pushing archive to OCI registry",
		slog.String("registry", cmd.String("registry")),
		slog.String("repository", cmd.String("repository")))

	result, err := oci.Push(ctx, archivePath, oci.PushOptions{
		Registry:    cmd.String("registry"),
		Repository:  cmd.String("repository"),
		Tag:         cmd.String("tag"),
		PlainHTTP:   cmd.Bool("plain-http"),
		InsecureTLS: cmd.Bool("insecure-tls"),
	})
	if err != nil {
		return fmt.Errorf("failed to push archive: %w", err)
	}

	slog.Info("archive pushed",
		slog.String("reference", result.Reference),
		slog.String("digest", result.Digest))
	return nil
}
