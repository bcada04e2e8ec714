// Package collector turns the raw resources of one Portainer endpoint into
// flattened report records.
//
// For each endpoint the collector fetches services, secrets, nodes, and
// containers independently; a failed fetch leaves that resource absent from
// the report without affecting the others. Containers additionally trigger
// one statistics fetch each, and a stats record is appended only when that
// call succeeds.
//
// Service flattening extracts environment variable keys (values are
// discarded), strips image references of their digest suffix, collects config
// and mount attachments, reads the replica count only for replicated-mode
// services, and derives the stack name from the swarm namespace label.
package collector
