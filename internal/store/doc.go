// Package store holds the aggregate state built from the message stream:
// per-endpoint identity, latest message records, parameters, arrival
// frequency, and a bounded status log.
//
// Locking is split so writers on different endpoints never contend. The
// store-level lock guards only the endpoint index, each endpoint has its own
// lock, and the status log has another. No path holds two at once, so there
// is no lock ordering to get wrong. Readers take a Snapshot, which copies one
// endpoint at a time; records are replaced wholesale rather than mutated, so
// a snapshot never contains a half-written record.
package store
