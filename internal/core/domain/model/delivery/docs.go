// Package delivery contains the Delivery aggregate: one record per order,
// owning the dispatch lifecycle (Pending, Assigned, PickedUp, Delivered,
// Cancelled), the assigned courier and the bounded reassignment retry
// budget. Deliveries are never physically removed; cancellation is a status
// transition.
package delivery
