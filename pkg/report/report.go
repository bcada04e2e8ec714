package report

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dvega/portreport/pkg/portainer"
)

// Report accumulates flattened records during a collection run. All append
// methods are safe for concurrent use; reads are intended for after the
// dispatcher has joined.
type Report struct {
	Header Header

	mu        sync.Mutex
	endpoints []EndpointRecord
	services  []ServiceRecord
	secrets   []SecretRecord
	nodes     []NodeRecord
	nodeSeen  map[string]struct{}
	stats     []StatsRecord
	reqErrors []portainer.RequestError
}

// New creates an empty report for the given source host and tool version.
func New(source, version string) *Report {
	return &Report{
		Header: Header{
			ID:          uuid.New().String(),
			GeneratedAt: time.Now().UTC(),
			Source:      source,
			Version:     version,
		},
		nodeSeen: make(map[string]struct{}),
	}
}

// AddEndpoint appends one endpoint metadata record.
func (r *Report) AddEndpoint(rec EndpointRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endpoints = append(r.endpoints, rec)
}

// AddService appends one service record.
func (r *Report) AddService(rec ServiceRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services = append(r.services, rec)
}

// AddSecretSummary appends one per-endpoint secret summary.
func (r *Report) AddSecretSummary(rec SecretRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.secrets = append(r.secrets, rec)
}

// AddNodeIfAbsent inserts a node record unless its hostname was already seen
// anywhere in the run. The first writer for a hostname wins; under concurrent
// workers the winner is decided by scheduling order. Reports whether the
// record was inserted.
func (r *Report) AddNodeIfAbsent(rec NodeRecord) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, seen := r.nodeSeen[rec.Hostname]; seen {
		return false
	}
	r.nodeSeen[rec.Hostname] = struct{}{}
	r.nodes = append(r.nodes, rec)
	return true
}

// AddContainerStats appends one container statistics record.
func (r *Report) AddContainerStats(rec StatsRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats = append(r.stats, rec)
}

// SetRequestErrors installs the request-error log collected by the client.
// Called once after the dispatcher joins.
func (r *Report) SetRequestErrors(errs []portainer.RequestError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqErrors = errs
}

// Endpoints returns a copy of the accumulated endpoint records.
func (r *Report) Endpoints() []EndpointRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]EndpointRecord(nil), r.endpoints...)
}

// Services returns a copy of the accumulated service records.
func (r *Report) Services() []ServiceRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceRecord(nil), r.services...)
}

// Secrets returns a copy of the accumulated secret summaries.
func (r *Report) Secrets() []SecretRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]SecretRecord(nil), r.secrets...)
}

// Nodes returns a copy of the deduplicated node records in insertion order.
func (r *Report) Nodes() []NodeRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]NodeRecord(nil), r.nodes...)
}

// ContainerStats returns a copy of the accumulated statistics records.
func (r *Report) ContainerStats() []StatsRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]StatsRecord(nil), r.stats...)
}

// RequestErrors returns a copy of the recorded fetch failures.
func (r *Report) RequestErrors() []portainer.RequestError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]portainer.RequestError(nil), r.reqErrors...)
}

// Export is the serializable view of a completed report, used by the JSON and
// YAML output formats.
type Export struct {
	Header         Header                   `json:"header" yaml:"header"`
	Endpoints      []EndpointRecord         `json:"endpoints" yaml:"endpoints"`
	Services       []ServiceRecord          `json:"services" yaml:"services"`
	Secrets        []SecretRecord           `json:"secrets" yaml:"secrets"`
	Nodes          []NodeRecord             `json:"nodes" yaml:"nodes"`
	ContainerStats []StatsRecord            `json:"container_stats" yaml:"container_stats"`
	RequestErrors  []portainer.RequestError `json:"request_errors" yaml:"request_errors"`
}

// Export snapshots the report into its serializable view.
func (r *Report) Export() *Export {
	return &Export{
		Header:         r.Header,
		Endpoints:      r.Endpoints(),
		Services:       r.Services(),
		Secrets:        r.Secrets(),
		Nodes:          r.Nodes(),
		ContainerStats: r.ContainerStats(),
		RequestErrors:  r.RequestErrors(),
	}
}

// Tables shapes the report into export tables, one per sheet, in workbook
// order.
func (r *Report) Tables() []*Table {
	services := r.Services()
	secrets := r.Secrets()
	nodes := r.Nodes()
	stats := r.ContainerStats()
	reqErrors := r.RequestErrors()
	endpoints := r.Endpoints()

	return []*Table{
		Build(SheetServices, asRecords(services)),
		Build(SheetSecrets, asRecords(secrets)),
		Build(SheetNodes, asRecords(nodes)),
		Build(SheetStats, asRecords(stats)),
		Build(SheetRequestErrors, errorRecords(reqErrors)),
		Build(SheetEndpoints, asRecords(endpoints)),
	}
}

func asRecords[T Record](in []T) []Record {
	out := make([]Record, len(in))
	for i, rec := range in {
		out[i] = rec
	}
	return out
}

func errorRecords(in []portainer.RequestError) []Record {
	out := make([]Record, len(in))
	for i, rec := range in {
		out[i] = errorRecord(rec)
	}
	return out
}
