package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dvega/portreport/pkg/errors"
	"github.com/dvega/portreport/pkg/portainer"
	"github.com/dvega/portreport/pkg/serializer"
)

// newFleetServer simulates a Portainer install with two endpoints in one
// group. Endpoint 1 is healthy; endpoint 2 reports the same node hostname as
// endpoint 1 and fails its containers listing.
func newFleetServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	writeJSON := func(w http.ResponseWriter, body string) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}

	mux.HandleFunc("POST /api/auth", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"jwt":"tok"}`)
	})
	mux.HandleFunc("GET /api/endpoints", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[
			{"Id": 1, "Name": "alpha", "GroupId": 1},
			{"Id": 2, "Name": "beta", "GroupId": 1}
		]`)
	})
	mux.HandleFunc("GET /api/endpoint_groups", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[{"Id": 1, "Name": "Datacenter"}]`)
	})

	mux.HandleFunc("GET /api/endpoints/1/docker/services", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[{
			"ID": "svc1",
			"Spec": {
				"Name": "web",
				"Mode": {"Replicated": {"Replicas": 2}},
				"TaskTemplate": {"ContainerSpec": {
					"Image": "nginx:1.25@sha256:abc",
					"Env": ["PORT=8080"],
					"Labels": {"com.docker.stack.namespace": "shop"}
				}}
			}
		}]`)
	})
	mux.HandleFunc("GET /api/endpoints/2/docker/services", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[]`)
	})

	mux.HandleFunc("GET /api/endpoints/1/docker/secrets", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[{"ID": "x", "Spec": {"Name": "s1"}}, {"ID": "y", "Spec": {"Name": "s2"}}]`)
	})
	mux.HandleFunc("GET /api/endpoints/2/docker/secrets", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[]`)
	})

	nodePayload := `[{
		"Description": {"Hostname": "shared-host", "Resources": {"NanoCPUs": 4000000000, "MemoryBytes": 8000000000}},
		"Spec": {"Role": "manager", "Availability": "active"},
		"Status": {"State": "ready"}
	}]`
	mux.HandleFunc("GET /api/endpoints/1/docker/nodes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, nodePayload)
	})
	mux.HandleFunc("GET /api/endpoints/2/docker/nodes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, nodePayload)
	})

	mux.HandleFunc("GET /api/endpoints/1/docker/containers/json", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[{"Id": "c1", "Labels": {"com.docker.stack.namespace": "shop", "com.docker.swarm.service.name": "shop_web"}}]`)
	})
	mux.HandleFunc("GET /api/endpoints/1/docker/containers/c1/stats", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "false", r.URL.Query().Get("stream"))
		writeJSON(w, `{"cpu_stats": {"online_cpus": 4}}`)
	})
	mux.HandleFunc("GET /api/endpoints/2/docker/containers/json", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "docker unreachable", http.StatusInternalServerError)
	})

	return httptest.NewServer(mux)
}

func newClient(t *testing.T, baseURL string) *portainer.Client {
	t.Helper()
	c, err := portainer.New(context.Background(), portainer.Config{
		BaseURL:  baseURL,
		Username: "admin",
		Password: "secret",
	})
	require.NoError(t, err)
	return c
}

func TestRunCollectsFleet(t *testing.T) {
	srv := newFleetServer(t)
	defer srv.Close()

	var buf bytes.Buffer
	r := &Reporter{
		Client:     newClient(t, srv.URL),
		Workers:    1, // deterministic node-dedup winner
		Version:    "test",
		Serializer: serializer.NewWriter(serializer.FormatJSON, &buf),
	}

	rep, err := r.Run(context.Background())
	require.NoError(t, err)

	endpoints := rep.Endpoints()
	require.Len(t, endpoints, 2)
	assert.Equal(t, "Datacenter", endpoints[0].Group)

	services := rep.Services()
	require.Len(t, services, 1)
	assert.Equal(t, "alpha", services[0].Endpoint)
	assert.Equal(t, "nginx:1.25", services[0].Image)
	assert.Equal(t, uint64(2), services[0].Replicas)
	require.NotNil(t, services[0].Stack)
	assert.Equal(t, "shop", *services[0].Stack)

	secrets := rep.Secrets()
	require.Len(t, secrets, 1, "beta has no secrets and gets no row")
	assert.Equal(t, "alpha", secrets[0].Endpoint)
	assert.Equal(t, []string{"s1", "s2"}, secrets[0].Names)

	nodes := rep.Nodes()
	require.Len(t, nodes, 1, "shared hostname collapses to one row")
	assert.Equal(t, "alpha", nodes[0].Endpoint, "first sighting wins under one worker")

	stats := rep.ContainerStats()
	require.Len(t, stats, 1)
	assert.Equal(t, "shop", stats[0].Stack)
	assert.Equal(t, "shop_web", stats[0].Service)

	reqErrors := rep.RequestErrors()
	require.Len(t, reqErrors, 1, "betas failing containers listing is the only error")
	assert.Contains(t, reqErrors[0].URL, "/api/endpoints/2/docker/containers/json")

	// serializer handoff produced a decodable export
	var export map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &export))
	assert.Contains(t, export, "services")
	assert.Contains(t, export, "request_errors")
}

func TestRunZeroEndpoints(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jwt":"tok"}`))
	})
	mux.HandleFunc("GET /api/endpoints", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	r := &Reporter{Client: newClient(t, srv.URL), Version: "test"}
	rep, err := r.Run(context.Background())
	require.NoError(t, err, "an empty fleet is not an error")

	for _, table := range rep.Tables() {
		assert.Empty(t, table.Rows, "sheet %q should be empty", table.Name)
	}
}

func TestRunEndpointListingFailureIsFatal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jwt":"tok"}`))
	})
	mux.HandleFunc("GET /api/endpoints", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	r := &Reporter{Client: newClient(t, srv.URL), Version: "test"}
	_, err := r.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUnavailable, apperrors.CodeOf(err))
}

func TestPartitionByGroup(t *testing.T) {
	endpoints := []portainer.Endpoint{
		{ID: 1, GroupID: 1},
		{ID: 2, GroupID: 2},
		{ID: 3, GroupID: 1},
		{ID: 4, GroupID: 3},
		{ID: 5, GroupID: 2},
	}

	groups := partitionByGroup(endpoints)
	require.Len(t, groups, 3)
	assert.Equal(t, []int{1, 3}, ids(groups[0]))
	assert.Equal(t, []int{2, 5}, ids(groups[1]), "listing order preserved within a group")
	assert.Equal(t, []int{4}, ids(groups[2]))

	assert.Empty(t, partitionByGroup(nil))
}

func ids(endpoints []portainer.Endpoint) []int {
	out := make([]int, len(endpoints))
	for i, ep := range endpoints {
		out[i] = ep.ID
	}
	return out
}

func TestHostSlug(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "full url", url: "https://portainer.example.com", want: "portainer"},
		{name: "bare host", url: "fleet.internal.corp", want: "fleet"},
		{name: "host with port", url: "https://Portainer.example.com:9443", want: "portainer"},
		{name: "single label", url: "localhost", want: "localhost"},
		{name: "empty falls back", url: "", want: "portainer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HostSlug(tt.url))
		})
	}
}

func TestRunWideWorkerPool(t *testing.T) {
	srv := newFleetServer(t)
	defer srv.Close()

	// more workers than groups must not deadlock or race
	r := &Reporter{Client: newClient(t, srv.URL), Workers: 64, Version: "test"}
	rep, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, rep.Endpoints(), 2)
}

func ExampleHostSlug() {
	fmt.Println(HostSlug("https://portainer.example.com:9443"))
	// Output: portainer
}
