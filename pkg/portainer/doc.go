// Package portainer implements a read-only client for the Portainer
// management API.
//
// The client authenticates once with username and password, then attaches the
// returned JWT as a bearer token to every request. Resource fetches go through
// a containment boundary: a transport failure or non-2xx status is recorded in
// the client's request-error log and reported to the caller as an absent
// result rather than an error. Only authentication and the initial endpoint
// listing are treated as fatal, since nothing can be collected without them.
//
// Resources are decoded into typed structures at the fetch boundary so that
// downstream flattening operates on checked fields. Optional upstream fields
// (service mode variants, config and mount attachments) are modeled as
// pointers and nilable slices.
//
// Requests are paced by an optional client-side token-bucket limiter: a fleet
// with many containers issues one stats call per container, and an unbounded
// burst can overwhelm smaller Portainer installs.
package portainer
