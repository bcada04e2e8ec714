package collector

import (
	"context"
	"log/slog"
	"time"

	"github.com/dvega/portreport/pkg/portainer"
	"github.com/dvega/portreport/pkg/report"
)

// API is the slice of the Portainer client the collector needs. Absent
// results (ok == false) mean the fetch failed and was already recorded in the
// client's request-error log.
type API interface {
	GroupName(ctx context.Context, groupID int) string
	Services(ctx context.Context, endpointID int) ([]portainer.Service, bool)
	Secrets(ctx context.Context, endpointID int) ([]portainer.Secret, bool)
	Nodes(ctx context.Context, endpointID int) ([]portainer.Node, bool)
	Containers(ctx context.Context, endpointID int) ([]portainer.Container, bool)
	ContainerStats(ctx context.Context, endpointID int, containerID string) (portainer.Stats, bool)
}

// EndpointCollector gathers and flattens the resources of endpoints into a
// shared report. Safe for concurrent use across endpoints.
type EndpointCollector struct {
	API    API
	Report *report.Report
}

// Collect processes one endpoint: resolves its group, records its metadata,
// and flattens its services, secrets, nodes, and container statistics into
// the report. Each resource fetch is independently absent-tolerant; Collect
// itself never fails.
func (c *EndpointCollector) Collect(ctx context.Context, ep portainer.Endpoint) {
	start := time.Now()
	defer func() {
		endpointCollectionDuration.Observe(time.Since(start).Seconds())
	}()

	groupName := c.API.GroupName(ctx, ep.GroupID)

	c.Report.AddEndpoint(report.EndpointRecord{
		EndpointID: ep.ID,
		Endpoint:   ep.Name,
		GroupID:    ep.GroupID,
		Group:      groupName,
	})

	slog.Info("processing endpoint", "name", ep.Name, "id", ep.ID, "group", groupName)

	c.collectServices(ctx, ep, groupName)
	c.collectSecrets(ctx, ep)
	c.collectNodes(ctx, ep)
	c.collectContainers(ctx, ep)
}

func (c *EndpointCollector) collectServices(ctx context.Context, ep portainer.Endpoint, groupName string) {
	services, ok := c.API.Services(ctx, ep.ID)
	observeFetch("services", ok)
	if !ok {
		return
	}
	for _, svc := range services {
		c.Report.AddService(flattenService(ep, groupName, svc))
	}
}

// collectSecrets collapses an endpoint's secrets into one summary record.
// Endpoints with zero secrets get no row.
func (c *EndpointCollector) collectSecrets(ctx context.Context, ep portainer.Endpoint) {
	secrets, ok := c.API.Secrets(ctx, ep.ID)
	observeFetch("secrets", ok)
	if !ok || len(secrets) == 0 {
		return
	}
	names := make([]string, 0, len(secrets))
	for _, s := range secrets {
		names = append(names, s.Spec.Name)
	}
	c.Report.AddSecretSummary(report.SecretRecord{
		Endpoint: ep.Name,
		Type:     "Secret",
		Names:    names,
	})
}

// collectNodes inserts each node under the process-wide hostname dedup; the
// same physical node visible from multiple endpoints yields a single row.
func (c *EndpointCollector) collectNodes(ctx context.Context, ep portainer.Endpoint) {
	nodes, ok := c.API.Nodes(ctx, ep.ID)
	observeFetch("nodes", ok)
	if !ok {
		return
	}
	for _, node := range nodes {
		if inserted := c.Report.AddNodeIfAbsent(flattenNode(ep, node)); !inserted {
			slog.Debug("node already recorded", "hostname", node.Description.Hostname, "endpoint", ep.Name)
		}
	}
}

func (c *EndpointCollector) collectContainers(ctx context.Context, ep portainer.Endpoint) {
	containers, ok := c.API.Containers(ctx, ep.ID)
	observeFetch("containers", ok)
	if !ok {
		return
	}
	for _, ctr := range containers {
		stats, ok := c.API.ContainerStats(ctx, ep.ID, ctr.ID)
		observeFetch("stats", ok)
		if !ok {
			continue
		}
		c.Report.AddContainerStats(report.StatsRecord{
			Endpoint: ep.Name,
			Stack:    ctr.StackName(unknownLabel),
			Service:  ctr.ServiceName(unknownLabel),
			Stats:    stats,
		})
	}
}
