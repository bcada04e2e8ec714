package portainer

import (
	"context"
	"fmt"

	apperrors "github.com/dvega/portreport/pkg/errors"
)

// UnknownGroupName is returned when a group id cannot be resolved, either
// because the groups listing failed or the id is not in it.
const UnknownGroupName = "Unknown Group"

// Endpoints lists all endpoints registered with the Portainer instance.
// A failure here is fatal: without endpoints there is nothing to collect.
func (c *Client) Endpoints(ctx context.Context) ([]Endpoint, error) {
	url := c.base + "/api/endpoints"
	var endpoints []Endpoint
	if err := c.get(ctx, url, &endpoints); err != nil {
		c.recordError(url, err)
		return nil, apperrors.WrapWithContext(
			apperrors.ErrCodeUnavailable,
			"failed to list endpoints",
			err,
			map[string]any{"url": url},
		)
	}
	return endpoints, nil
}

// EndpointGroups lists all endpoint groups. Absent on failure.
func (c *Client) EndpointGroups(ctx context.Context) ([]EndpointGroup, bool) {
	var groups []EndpointGroup
	ok := c.safeGet(ctx, c.base+"/api/endpoint_groups", &groups)
	return groups, ok
}

// GroupName resolves a group id to its name. The groups listing is fetched at
// most once per run and cached; unknown ids and lookup failures resolve to
// UnknownGroupName rather than erroring.
func (c *Client) GroupName(ctx context.Context, groupID int) string {
	c.groupMu.Lock()
	defer c.groupMu.Unlock()

	if !c.groupsReady {
		c.groupsReady = true
		c.groups = make(map[int]string)
		if groups, ok := c.EndpointGroups(ctx); ok {
			for _, g := range groups {
				c.groups[g.ID] = g.Name
			}
		}
	}

	if name, ok := c.groups[groupID]; ok {
		return name
	}
	return UnknownGroupName
}

// Services lists the swarm services of one endpoint. Absent on failure.
func (c *Client) Services(ctx context.Context, endpointID int) ([]Service, bool) {
	var services []Service
	ok := c.safeGet(ctx, c.dockerURL(endpointID, "services"), &services)
	return services, ok
}

// Secrets lists the swarm secrets of one endpoint. Absent on failure.
func (c *Client) Secrets(ctx context.Context, endpointID int) ([]Secret, bool) {
	var secrets []Secret
	ok := c.safeGet(ctx, c.dockerURL(endpointID, "secrets"), &secrets)
	return secrets, ok
}

// Nodes lists the swarm nodes of one endpoint. Absent on failure.
func (c *Client) Nodes(ctx context.Context, endpointID int) ([]Node, bool) {
	var nodes []Node
	ok := c.safeGet(ctx, c.dockerURL(endpointID, "nodes"), &nodes)
	return nodes, ok
}

// Containers lists the containers of one endpoint. Absent on failure.
func (c *Client) Containers(ctx context.Context, endpointID int) ([]Container, bool) {
	var containers []Container
	ok := c.safeGet(ctx, c.dockerURL(endpointID, "containers/json"), &containers)
	return containers, ok
}

// ContainerStats fetches one non-streaming statistics snapshot for a
// container. Absent on failure.
func (c *Client) ContainerStats(ctx context.Context, endpointID int, containerID string) (Stats, bool) {
	url := fmt.Sprintf("%s/api/endpoints/%d/docker/containers/%s/stats?stream=false", c.base, endpointID, containerID)
	var stats Stats
	ok := c.safeGet(ctx, url, &stats)
	return stats, ok
}

// dockerURL builds the proxied Docker API URL for one endpoint resource.
func (c *Client) dockerURL(endpointID int, resource string) string {
	return fmt.Sprintf("%s/api/endpoints/%d/docker/%s", c.base, endpointID, resource)
}
