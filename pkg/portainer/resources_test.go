package portainer

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpoints(t *testing.T) {
	srv := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/endpoints", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"Id": 1, "Name": "prod-01", "GroupId": 2},
			{"Id": 2, "Name": "staging", "GroupId": 1}
		]`))
	})
	defer srv.Close()

	c := newTestClient(t, srv)
	endpoints, err := c.Endpoints(context.Background())
	require.NoError(t, err)
	require.Len(t, endpoints, 2)
	assert.Equal(t, Endpoint{ID: 1, Name: "prod-01", GroupID: 2}, endpoints[0])
}

func TestEndpointsFailureIsError(t *testing.T) {
	srv := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})
	defer srv.Close()

	c := newTestClient(t, srv)
	_, err := c.Endpoints(context.Background())
	require.Error(t, err)
	// failure is also visible on the request-error log
	require.Len(t, c.RequestErrors(), 1)
}

func TestGroupNameCachesListing(t *testing.T) {
	var calls atomic.Int32
	srv := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/endpoint_groups", r.URL.Path)
		calls.Add(1)
		_, _ = w.Write([]byte(`[{"Id": 1, "Name": "Production"}, {"Id": 2, "Name": "Edge"}]`))
	})
	defer srv.Close()

	c := newTestClient(t, srv)
	ctx := context.Background()

	assert.Equal(t, "Production", c.GroupName(ctx, 1))
	assert.Equal(t, "Edge", c.GroupName(ctx, 2))
	assert.Equal(t, UnknownGroupName, c.GroupName(ctx, 99))
	assert.Equal(t, int32(1), calls.Load(), "groups listed at most once per run")
}

func TestGroupNameListingFailure(t *testing.T) {
	srv := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})
	defer srv.Close()

	c := newTestClient(t, srv)
	assert.Equal(t, UnknownGroupName, c.GroupName(context.Background(), 1))
	// the failed listing is recorded once, not per lookup
	assert.Equal(t, UnknownGroupName, c.GroupName(context.Background(), 2))
	assert.Len(t, c.RequestErrors(), 1)
}

func TestContainerStatsURL(t *testing.T) {
	var gotURL string
	srv := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		_, _ = w.Write([]byte(`{"cpu_stats": {"online_cpus": 4}}`))
	})
	defer srv.Close()

	c := newTestClient(t, srv)
	stats, ok := c.ContainerStats(context.Background(), 5, "abc123")
	require.True(t, ok)
	assert.Equal(t, "/api/endpoints/5/docker/containers/abc123/stats?stream=false", gotURL)
	assert.Contains(t, stats, "cpu_stats")
}

func TestServiceDecoding(t *testing.T) {
	payload := `{
		"ID": "svc1",
		"Spec": {
			"Name": "web",
			"Mode": {"Replicated": {"Replicas": 3}},
			"TaskTemplate": {
				"ContainerSpec": {
					"Image": "nginx:1.25@sha256:abcd",
					"Env": ["PORT=8080", "DEBUG=true"],
					"Labels": {"com.docker.stack.namespace": "shop"},
					"Configs": [{"ConfigName": "web-config", "File": {"Name": "/etc/web.conf"}}],
					"Mounts": [{"Type": "volume", "Source": "data", "Target": "/data"}]
				}
			}
		}
	}`

	var svc Service
	require.NoError(t, json.Unmarshal([]byte(payload), &svc))

	assert.Equal(t, "web", svc.Spec.Name)
	require.NotNil(t, svc.Spec.Mode.Replicated)
	assert.Equal(t, uint64(3), svc.Spec.Mode.Replicas())
	assert.Equal(t, "nginx:1.25@sha256:abcd", svc.Spec.TaskTemplate.ContainerSpec.Image)
	assert.Equal(t, "shop", svc.Spec.TaskTemplate.ContainerSpec.Labels[LabelStackNamespace])
	require.Len(t, svc.Spec.TaskTemplate.ContainerSpec.Configs, 1)
	assert.Equal(t, "/etc/web.conf", svc.Spec.TaskTemplate.ContainerSpec.Configs[0].File.Name)
}

func TestServiceModeReplicas(t *testing.T) {
	tests := []struct {
		name string
		mode ServiceMode
		want uint64
	}{
		{name: "replicated", mode: ServiceMode{Replicated: &ReplicatedMode{Replicas: 5}}, want: 5},
		{name: "replicated zero", mode: ServiceMode{Replicated: &ReplicatedMode{}}, want: 0},
		{name: "global", mode: ServiceMode{Global: &GlobalMode{}}, want: 0},
		{name: "unknown mode", mode: ServiceMode{}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mode.Replicas())
		})
	}
}

func TestContainerLabelFallbacks(t *testing.T) {
	labeled := Container{Labels: map[string]string{
		LabelStackNamespace: "shop",
		LabelServiceName:    "shop_web",
	}}
	assert.Equal(t, "shop", labeled.StackName("Unknown"))
	assert.Equal(t, "shop_web", labeled.ServiceName("Unknown"))

	bare := Container{}
	assert.Equal(t, "Unknown", bare.StackName("Unknown"))
	assert.Equal(t, "Unknown", bare.ServiceName("Unknown"))

	empty := Container{Labels: map[string]string{LabelStackNamespace: ""}}
	assert.Equal(t, "Unknown", empty.StackName("Unknown"))
}
