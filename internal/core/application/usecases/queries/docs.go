// Package queries contains the read operations of the order pipeline.
//
// GetOrderQueryHandler reads through the order cache, falling back to the
// store on a miss. ListOrdersQueryHandler always reads the store.
package queries
