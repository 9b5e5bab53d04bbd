// api/models/purchase.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RawEvent is a single entity from the "RECENT PURCHASE" widget of the
// intercepted page API response. Only the fields the pipeline consumes
// are declared; the rest of the payload is ignored.
type RawEvent struct {
	ProductName    string `json:"product_name"`
	ProductShortID string `json:"product_short_id"`
	Title          string `json:"title"`    // customer location label
	TimeCta        string `json:"time_cta"` // relative time, e.g. "12 minutes ago"
}

// PagePayload is the envelope of the page API response. The body carries
// its own status code in addition to the HTTP status.
type PagePayload struct {
	Code int `json:"code"`
	Data struct {
		Widgets []PageWidget `json:"widgets"`
	} `json:"data"`
}

// PageWidget is one named section of the page payload.
type PageWidget struct {
	Title    string     `json:"title"`
	Entities []RawEvent `json:"entities"`
}

// PurchaseRecord is the durable purchase entity stored in MongoDB.
// (product_id, customer_location, purchase_date, purchase_time) is the
// natural key: at most one record exists per distinct value.
type PurchaseRecord struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ProductName      string             `bson:"product_name" json:"product_name"`
	ProductID        string             `bson:"product_id" json:"product_id"`
	CustomerLocation string             `bson:"customer_location" json:"customer_location"`
	PurchaseDate     string             `bson:"purchase_date" json:"purchase_date"` // YYYY-MM-DD
	PurchaseTime     string             `bson:"purchase_time" json:"purchase_time"` // HH:MM
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
}
