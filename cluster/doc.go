// Package cluster partitions the feature matrix with Lloyd's k-means.
//
// Training is deterministic: a fixed seed drives every restart, restarts run
// independently, and the lowest-inertia restart wins with ties broken by
// restart index. Re-running on identical input yields the identical partition.
package cluster
