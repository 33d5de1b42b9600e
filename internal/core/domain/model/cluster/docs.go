// Package cluster contains the Cluster aggregate: one pickup-to-dropoff
// delivery leg, optionally bound to a source business location, with its
// courier assignment and the lightweight tracking sub-record. Splitting a
// long leg replaces one cluster with a pickup leg and a delivery leg joined
// at a handover midpoint.
package cluster
