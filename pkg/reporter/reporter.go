package reporter

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dvega/portreport/pkg/collector"
	"github.com/dvega/portreport/pkg/defaults"
	"github.com/dvega/portreport/pkg/portainer"
	"github.com/dvega/portreport/pkg/report"
	"github.com/dvega/portreport/pkg/serializer"
)

// Client is the Portainer surface the reporter drives: endpoint discovery
// plus everything the per-endpoint collector needs.
type Client interface {
	collector.API
	BaseURL() string
	Endpoints(ctx context.Context) ([]portainer.Endpoint, error)
	RequestErrors() []portainer.RequestError
}

// Reporter runs one collection over a Portainer-managed fleet.
type Reporter struct {
	// Client is the authenticated Portainer client.
	Client Client

	// Workers bounds the group fan-out pool. Zero or negative uses
	// defaults.Workers.
	Workers int

	// Version is the tool version recorded in the report header.
	Version string

	// Serializer writes the finished report. If nil, the report is only
	// returned.
	Serializer serializer.Serializer
}

// Run discovers the fleet, collects every endpoint, and serializes the
// report. Only endpoint discovery is fatal; per-resource failures end up on
// the Request Errors sheet. A run over zero endpoints still produces a
// complete, empty export.
func (r *Reporter) Run(ctx context.Context) (*report.Report, error) {
	start := time.Now()
	defer func() {
		runDuration.Observe(time.Since(start).Seconds())
	}()

	endpoints, err := r.Client.Endpoints(ctx)
	if err != nil {
		runTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	rep := report.New(HostSlug(r.Client.BaseURL()), r.Version)
	ec := &collector.EndpointCollector{API: r.Client, Report: rep}

	workers := r.Workers
	if workers <= 0 {
		workers = defaults.Workers
	}

	groups := partitionByGroup(endpoints)
	slog.Info("starting collection",
		"endpoints", len(endpoints),
		"groups", len(groups),
		"workers", workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, group := range groups {
		g.Go(func() error {
			for _, ep := range group {
				r.collectOne(gctx, ec, ep)
			}
			return nil
		})
	}
	// Tasks never return errors; Wait only joins the pool.
	_ = g.Wait()

	rep.SetRequestErrors(r.Client.RequestErrors())
	runTotal.WithLabelValues("success").Inc()

	if r.Serializer != nil {
		if err := r.Serializer.Serialize(ctx, rep); err != nil {
			return nil, err
		}
	}
	return rep, nil
}

// collectOne isolates one endpoint's collection so a panic cannot take down
// sibling tasks.
func (r *Reporter) collectOne(ctx context.Context, ec *collector.EndpointCollector, ep portainer.Endpoint) {
	defer func() {
		if p := recover(); p != nil {
			slog.Error("endpoint collection panicked", "endpoint", ep.Name, "panic", p)
		}
	}()
	ec.Collect(ctx, ep)
}

// partitionByGroup splits endpoints by group id, preserving listing order
// within each group. Group order follows first appearance in the listing.
func partitionByGroup(endpoints []portainer.Endpoint) [][]portainer.Endpoint {
	index := make(map[int]int)
	var groups [][]portainer.Endpoint
	for _, ep := range endpoints {
		i, ok := index[ep.GroupID]
		if !ok {
			i = len(groups)
			index[ep.GroupID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], ep)
	}
	return groups
}

// HostSlug derives the artifact naming slug from the first DNS label of the
// base URL's host: "https://portainer.example.com:9443" yields "portainer".
func HostSlug(baseURL string) string {
	u, err := url.Parse(portainer.NormalizeBaseURL(baseURL))
	if err != nil || u.Hostname() == "" {
		return "portainer"
	}
	label, _, _ := strings.Cut(u.Hostname(), ".")
	return strings.ToLower(label)
}
