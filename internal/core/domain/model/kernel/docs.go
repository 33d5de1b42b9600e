// Package kernel contains the shared value objects of the dispatch domain:
// UUID identifiers and geographic coordinates.
//
// Both types follow the constructor-guard pattern: the zero value is invalid
// and fails Validate, so identifiers and coordinates flowing through the
// engine are guaranteed to have passed construction-time validation. GeoPoint
// additionally provides the geometric operations the engine needs:
// great-circle distance for nearest-courier matching and the arithmetic
// midpoint used as the handover location when a delivery leg is split.
package kernel
