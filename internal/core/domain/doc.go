// Package domain contains the core business entities and rules for the
// showroom catalog: canonical product records, sources, the canonical
// catalog snapshot, and search types.
//
// The domain layer has no dependencies on adapters or infrastructure.
// Normalisation of raw source records into ProductRecords lives here because
// it is pure data reconciliation; everything that talks to the outside world
// (files, vector index, embedding service) lives behind ports.
package domain
