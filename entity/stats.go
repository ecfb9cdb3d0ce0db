package entity

import "go.mongodb.org/mongo-driver/bson/primitive"

// PrestationStats is a per-line-item-title aggregation over the
// requester's invoices, computed by the store, never persisted.
type PrestationStats struct {
	Title              string  `json:"title" bson:"_id"`
	TotalUnit          float64 `json:"total_unit" bson:"total_unit"`
	TotalWithoutCharge float64 `json:"total_without_charge" bson:"total_without_charge"`
	MinPrice           float64 `json:"min_price" bson:"min_price"`
	MaxPrice           float64 `json:"max_price" bson:"max_price"`
}

// CustomerStats is a per-customer aggregation over the requester's
// invoices.
type CustomerStats struct {
	Customer      primitive.ObjectID `json:"customer" bson:"_id"`
	TotalInvoices int64              `json:"total_invoices" bson:"total_invoices"`
	TotalSpent    float64            `json:"total_spent" bson:"total_spent"`
}
