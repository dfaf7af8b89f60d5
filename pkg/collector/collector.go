// Package collector executes paginated list calls against the filtered
// catalog. Calls are mutually independent: they run on a bounded worker
// pool, each with its own timeout, and a single call's failure never aborts
// the run.
package collector

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/dynamic"

	"github.com/ketchup-sh/ketchup/pkg/catalog"
)

const (
	defaultWorkers     = 4
	defaultListTimeout = 30 * time.Second
	defaultPageSize    = 500
	defaultQPS         = 20
)

// Collector lists resources through the dynamic client. The zero values of
// the tuning fields select sensible defaults.
type Collector struct {
	Client dynamic.Interface

	// Workers bounds how many list calls run in parallel. Unbounded
	// parallelism risks overwhelming the API server.
	Workers int

	// ListTimeout applies to each page request independently of the
	// overall run, so one unresponsive endpoint cannot stall the rest.
	ListTimeout time.Duration

	// PageSize is the limit passed on each list call.
	PageSize int64

	// QPS rate-limits page requests across all workers.
	QPS float64
}

// task is one unit of work: a cluster-scoped kind, or a (namespaced kind,
// namespace) pair.
type task struct {
	kind      catalog.ResourceKind
	namespace string
}

// taskResult is one worker's private output. The orchestrating owner merges
// these after the pool drains; workers never touch shared state.
type taskResult struct {
	objects []Object
	err     *ResourceError
	skipped bool
}

// Collect lists every kind in the filtered catalog, visiting each namespace
// in namespaces for namespaced kinds. Per-call failures are recorded in the
// result and never abort the run. When ctx is cancelled the pool stops
// issuing new calls, keeps what already finished, and marks the result
// cancelled.
func (c *Collector) Collect(ctx context.Context, kinds catalog.Catalog, namespaces []string) *Result {
	start := time.Now()
	defer func() {
		collectionDuration.Observe(time.Since(start).Seconds())
	}()

	var tasks []task
	for _, k := range kinds {
		if k.Namespaced() {
			for _, ns := range namespaces {
				tasks = append(tasks, task{kind: k, namespace: ns})
			}
		} else {
			tasks = append(tasks, task{kind: k})
		}
	}

	workers := c.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	qps := c.QPS
	if qps <= 0 {
		qps = defaultQPS
	}
	limiter := rate.NewLimiter(rate.Limit(qps), workers)

	results := make([]taskResult, len(tasks))

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i, t := range tasks {
		// Stop issuing new list calls once the run is cancelled.
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = c.list(ctx, t, limiter)
			return nil
		})
	}
	_ = g.Wait()

	res := &Result{Namespaces: namespaces}
	for _, r := range results {
		if r.skipped {
			continue
		}
		if r.err != nil {
			res.Errors = append(res.Errors, *r.err)
			continue
		}
		res.Objects = append(res.Objects, r.objects...)
	}
	res.Cancelled = ctx.Err() != nil

	slog.Info("collection finished",
		slog.Int("objects", len(res.Objects)),
		slog.Int("errors", len(res.Errors)),
		slog.Bool("cancelled", res.Cancelled))
	return res
}

// list follows continuation tokens until the kind's object set is complete
// for the task's scope. Either every page succeeds and all objects are
// returned, or the task yields exactly one error and zero objects.
func (c *Collector) list(ctx context.Context, t task, limiter *rate.Limiter) taskResult {
	timeout := c.ListTimeout
	if timeout <= 0 {
		timeout = defaultListTimeout
	}
	pageSize := c.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	ri := c.Client.Resource(t.kind.GVR()).Namespace(t.namespace)
	scope := "namespaced"
	if !t.kind.Namespaced() {
		scope = "cluster"
	}

	start := time.Now()
	var objects []Object
	var cont string
	for {
		if err := limiter.Wait(ctx); err != nil {
			return c.failed(ctx, t, err)
		}

		callCtx, cancel := context.WithTimeout(ctx, timeout)
		list, err := ri.List(callCtx, metav1.ListOptions{Limit: pageSize, Continue: cont})
		cancel()
		if err != nil {
			return c.failed(ctx, t, err)
		}

		for i := range list.Items {
			item := list.Items[i]
			objects = append(objects, Object{
				Kind:      t.kind,
				Namespace: t.namespace,
				Name:      item.GetName(),
				Body:      &item,
			})
		}

		cont = list.GetContinue()
		if cont == "" {
			break
		}
	}

	listDuration.WithLabelValues(scope).Observe(time.Since(start).Seconds())
	objectsCollected.Add(float64(len(objects)))

	slog.Debug("collected resource",
		slog.String("kind", t.kind.Name()),
		slog.String("namespace", t.namespace),
		slog.Int("count", len(objects)))
	return taskResult{objects: objects}
}

// failed turns a list error into a task result. A failure caused purely by
// run cancellation is not an error entry: the task simply did not run to
// completion and the partial result stays usable.
func (c *Collector) failed(ctx context.Context, t task, err error) taskResult {
	if ctx.Err() != nil && errors.Is(err, context.Canceled) {
		return taskResult{skipped: true}
	}

	listErrors.Inc()
	slog.Warn("failed to collect resource",
		slog.String("kind", t.kind.Name()),
		slog.String("namespace", t.namespace),
		slog.String("error", err.Error()))
	return taskResult{err: &ResourceError{
		Kind:      t.kind.Name(),
		Namespace: t.namespace,
		Message:   err.Error(),
	}}
}
