// Package services contains the application service layer between the
// HTTP transport and the analytics core.
//
// DataService owns the master dataset lifecycle: built once per process
// from the storage extracts, cached read-only, and recomputed only on
// explicit invalidation. Every downstream product (Power Score ranking,
// market flow, brand performance) is a pure function over slices of the
// cached dataset, recomputed per request.
package services
