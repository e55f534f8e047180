// Package models contains GORM persistence models that map to database tables.
// Domain entities carry no ORM tags; repositories convert between the two.
//
// Structure:
//   - base.go: shared columns (BaseModel, AggregateModel)
//   - catalog.go: products
//   - cart.go: draft orders, cart lines and billing addresses
package models
