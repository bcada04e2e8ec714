// Package reporter orchestrates a full collection run: endpoint discovery,
// concurrent per-group collection, and export serialization.
//
// Endpoints are partitioned by group id and each group is submitted as one
// task to a bounded worker pool; within a group, endpoints are processed
// sequentially in listing order. Grouping is purely a scheduling convenience,
// there is no ordering contract between groups. A panic inside one endpoint's
// collection is caught and logged at the task boundary so sibling tasks keep
// running.
package reporter
