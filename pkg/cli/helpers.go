package cli

import (
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/ketchup-sh/ketchup/pkg/policy"
)

// policyFromFlags builds the immutable collection policy from CLI flags.
func policyFromFlags(cmd *cli.Command) policy.Policy {
	return policy.Policy{
		Namespaces:             sets.New(splitList(cmd.String("namespaces"))...),
		IncludeSecrets:         cmd.Bool("include-secrets"),
		IncludeCustomResources: cmd.Bool("include-custom-resources"),
		IncludeEvents:          cmd.Bool("include-events"),
		IncludeReplicaSets:     cmd.Bool("include-replicasets"),
		IncludeEndpoints:       cmd.Bool("include-endpoints"),
		IncludeLeases:          cmd.Bool("include-leases"),
		SpecificCRDs:           sets.New(splitList(cmd.String("crds"))...),
		Sanitize:               !cmd.Bool("raw"),
	}
}

// splitList parses a comma-separated flag value, dropping empty entries.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// logCollectionPlan reports which optional resource classes this run
// includes, so the scope of a backup is visible up front.
func logCollectionPlan(pol policy.Policy) {
	slog.Info("collection plan: core resources always collected")

	logOptional("secrets", pol.IncludeSecrets, "-s")
	if pol.SpecificCRDs.Len() > 0 {
		slog.Info("collection plan: specific CRDs enabled",
			slog.Any("crds", sets.List(pol.SpecificCRDs)))
	} else {
		logOptional("custom resources", pol.IncludeCustomResources, "-C")
	}
	logOptional("events", pol.IncludeEvents, "-E")
	logOptional("replicasets", pol.IncludeReplicaSets, "-R")
	logOptional("endpoints", pol.IncludeEndpoints, "-P")
	logOptional("leases", pol.IncludeLeases, "-L")
}

func logOptional(what string, enabled bool, flag string) {
	if enabled {
		slog.Info("collection plan: enabled", slog.String("resources", what))
	} else {
		slog.Debug("collection plan: skipped",
			slog.String("resources", what),
			slog.String("enableWith", flag))
	}
}
