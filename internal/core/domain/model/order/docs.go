// Package order holds the Order aggregate of the order pipeline.
//
// The package includes:
//   - Order: identity, owner, opaque items, price, status and creation time
//   - Status: the PENDING/PAID/SHIPPED/CANCELED enumeration
//   - TransitionPolicy: which status changes are accepted (Unrestricted or Strict)
//   - Snapshot: the externally visible view used by the cache and the HTTP API
//
// Key business rules:
//   - id and created_at are server generated and immutable
//   - total_price is positive with two fractional digits and has no update path
//   - a new order without a status starts as PENDING
//   - orders are never deleted
package order
