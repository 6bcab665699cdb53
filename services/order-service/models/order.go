package models

import (
	"time"

	"github.com/shopswift/marketplace/services/common/money"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// transitions lists the statuses each status may move to. Missing keys are terminal.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return st, true
	}
	return "", false
}

// CanTransitionTo reports whether s may move to next. Re-setting the same status is not allowed.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem freezes the unit price the catalog reported when stock was reserved.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Price     money.Money        `bson:"price" json:"price"`
}

type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID      string             `bson:"userId" json:"userId"`
	Products    []OrderItem        `bson:"products" json:"products"`
	TotalAmount money.Money        `bson:"totalAmount" json:"totalAmount"`
	Status      Status             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Total sums quantity times unit price over items.
func Total(items []OrderItem) money.Money {
	total := money.Zero
	for _, it := range items {
		total = total.Add(it.Price.Times(it.Quantity))
	}
	return total
}
