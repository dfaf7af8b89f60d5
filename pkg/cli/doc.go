// Package cli implements the ketchup command-line interface.
//
// # Overview
//
// ketchup collects every accessible configuration resource from a Kubernetes
// cluster and writes it to a timestamped directory, one file per object,
// plus a summary file, optionally wrapped in a tar.gz archive. By default
// objects are sanitized for kubectl apply readiness.
//
// # Usage
//
// Collect everything reachable with a kubeconfig:
//
//	ketchup --kubeconfig ~/.kube/config
//
// Restrict to namespaces and include Secrets:
//
//	ketchup --kubeconfig ~/.kube/config --namespaces kube-system,prod -s
//
// Collect only specific CRD instances:
//
//	ketchup --kubeconfig ~/.kube/config --crds widgets.example.com
//
// Push the archive to an OCI registry:
//
//	ketchup --kubeconfig ~/.kube/config --push \
//	    --registry ghcr.io --repository acme/cluster-backup --tag nightly
//
// # Opt-in resources
//
// Secrets (-s), Events (-E), ReplicaSets (-R), Endpoints/EndpointSlices
// (-P), Leases (-L) and custom resources (-C, or --crds for specific ones)
// are excluded unless requested: they are sensitive, high-volume, or
// redundant with their owning resources.
//
// # Exit codes
//
//	0  Success, including runs with per-resource errors
//	1  Fatal error (invalid flags, unreachable discovery endpoint)
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/ketchup-sh/ketchup/pkg/cli.version=1.0.0'"
package cli
