package models

import (
	"testing"

	"github.com/shopswift/marketplace/services/common/money"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	legal := map[Status][]Status{
		StatusPending:    {StatusProcessing, StatusCancelled},
		StatusProcessing: {StatusShipped, StatusCancelled},
		StatusShipped:    {StatusDelivered},
	}
	all := []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, ok := range legal[from] {
				if ok == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("shipped")
	assert.True(t, ok)
	assert.Equal(t, StatusShipped, s)

	_, ok = ParseStatus("lost")
	assert.False(t, ok)
}

func TestTotal(t *testing.T) {
	items := []OrderItem{
		{Quantity: 3, Price: money.MustParse("0.10")},
		{Quantity: 1, Price: money.MustParse("19.99")},
	}
	assert.True(t, Total(items).Equals(money.MustParse("20.29")))
	assert.True(t, Total(nil).Equals(money.Zero))
}
