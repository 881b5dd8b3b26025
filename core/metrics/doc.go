// Package metrics counts what a run compared and found, per job.
//
// Counters live in a private Prometheus registry and are written once at the
// end of the run as a textfile for the node_exporter textfile collector, which
// suits a batch tool that has no scrape endpoint.
package metrics
