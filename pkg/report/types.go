package report

import (
	"time"

	"github.com/dvega/portreport/pkg/portainer"
)

// Sheet names in the exported workbook.
const (
	SheetServices      = "Services"
	SheetSecrets       = "Secrets"
	SheetNodes         = "Nodes"
	SheetStats         = "Container Statistics"
	SheetRequestErrors = "Request Errors"
	SheetEndpoints     = "Endpoints"
)

// Header identifies one collection run.
type Header struct {
	ID          string    `json:"id" yaml:"id"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Source      string    `json:"source" yaml:"source"`
	Version     string    `json:"version" yaml:"version"`
}

// EndpointRecord is one row of the Endpoints sheet.
type EndpointRecord struct {
	EndpointID int    `json:"endpoint_id" yaml:"endpoint_id"`
	Endpoint   string `json:"endpoint" yaml:"endpoint"`
	GroupID    int    `json:"group_id" yaml:"group_id"`
	Group      string `json:"group" yaml:"group"`
}

// Columns implements Record.
func (r EndpointRecord) Columns() []string {
	return []string{"endpoint_id", "endpoint", "group_id", "group"}
}

// Values implements Record.
func (r EndpointRecord) Values() []any {
	return []any{r.EndpointID, r.Endpoint, r.GroupID, r.Group}
}

// ConfigAttachment is a swarm config attached to a service, flattened to the
// fields the report cares about.
type ConfigAttachment struct {
	ConfigName string `json:"config_name" yaml:"config_name"`
	FilePath   string `json:"file_path" yaml:"file_path"`
}

// MountAttachment is a volume or bind mount attached to a service.
type MountAttachment struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Type   string `json:"type" yaml:"type"`
}

// ServiceRecord is one row of the Services sheet: a denormalized view of one
// swarm service on one endpoint.
type ServiceRecord struct {
	EndpointID int    `json:"endpoint_id" yaml:"endpoint_id"`
	Endpoint   string `json:"endpoint" yaml:"endpoint"`
	Group      string `json:"group" yaml:"group"`
	// Stack is nil for services deployed outside a stack.
	Stack                *string            `json:"stack" yaml:"stack"`
	Name                 string             `json:"name" yaml:"name"`
	Replicas             uint64             `json:"replicas" yaml:"replicas"`
	Image                string             `json:"image" yaml:"image"`
	EnvironmentVariables []string           `json:"environment_variables" yaml:"environment_variables"`
	Configurations       []ConfigAttachment `json:"configurations" yaml:"configurations"`
	Mounts               []MountAttachment  `json:"mounts" yaml:"mounts"`
}

// Columns implements Record.
func (r ServiceRecord) Columns() []string {
	return []string{
		"endpoint_id", "endpoint", "group", "stack", "name",
		"replicas", "image", "environment_variables", "configurations", "mounts",
	}
}

// Values implements Record.
func (r ServiceRecord) Values() []any {
	var stack any
	if r.Stack != nil {
		stack = *r.Stack
	}
	return []any{
		r.EndpointID, r.Endpoint, r.Group, stack, r.Name,
		r.Replicas, r.Image, r.EnvironmentVariables, r.Configurations, r.Mounts,
	}
}

// SecretRecord is one row of the Secrets sheet: the names of all secrets on
// one endpoint. Endpoints without secrets get no row.
type SecretRecord struct {
	Endpoint string   `json:"endpoint" yaml:"endpoint"`
	Type     string   `json:"type" yaml:"type"`
	Names    []string `json:"names" yaml:"names"`
}

// Columns implements Record.
func (r SecretRecord) Columns() []string {
	return []string{"endpoint", "type", "names"}
}

// Values implements Record.
func (r SecretRecord) Values() []any {
	return []any{r.Endpoint, r.Type, r.Names}
}

// NodeRecord is one row of the Nodes sheet. Hostname is the process-wide
// dedup key; Endpoint names the endpoint that saw the node first.
type NodeRecord struct {
	Endpoint     string `json:"endpoint" yaml:"endpoint"`
	Hostname     string `json:"hostname" yaml:"hostname"`
	Role         string `json:"role" yaml:"role"`
	Availability string `json:"availability" yaml:"availability"`
	NanoCPUs     int64  `json:"nano_cpus" yaml:"nano_cpus"`
	MemoryBytes  int64  `json:"memory_bytes" yaml:"memory_bytes"`
	State        string `json:"state" yaml:"state"`
}

// Columns implements Record.
func (r NodeRecord) Columns() []string {
	return []string{"endpoint", "hostname", "role", "availability", "nano_cpus", "memory_bytes", "state"}
}

// Values implements Record.
func (r NodeRecord) Values() []any {
	return []any{r.Endpoint, r.Hostname, r.Role, r.Availability, r.NanoCPUs, r.MemoryBytes, r.State}
}

// StatsRecord is one row of the Container Statistics sheet: a single
// unaggregated runtime snapshot for one container.
type StatsRecord struct {
	Endpoint string          `json:"endpoint" yaml:"endpoint"`
	Stack    string          `json:"stack" yaml:"stack"`
	Service  string          `json:"service" yaml:"service"`
	Stats    portainer.Stats `json:"stats" yaml:"stats"`
}

// Columns implements Record.
func (r StatsRecord) Columns() []string {
	return []string{"endpoint", "stack", "service", "stats"}
}

// Values implements Record.
func (r StatsRecord) Values() []any {
	return []any{r.Endpoint, r.Stack, r.Service, r.Stats}
}

// errorRecord adapts portainer.RequestError to the Record interface.
type errorRecord portainer.RequestError

func (r errorRecord) Columns() []string {
	return []string{"url", "error"}
}

func (r errorRecord) Values() []any {
	return []any{r.URL, r.Message}
}
