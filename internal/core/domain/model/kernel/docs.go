// Package kernel provides the value objects shared by the order domain:
//   - UUID: identifier of orders, wrapping github.com/google/uuid
//   - Price: a positive fixed-point amount with two fractional digits,
//     backed by github.com/shopspring/decimal
//
// Both reject their zero values and are immutable once constructed.
package kernel
