// Package money carries decimal amounts between services and MongoDB.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Money is a decimal amount. It is stored as Decimal128 and rendered in JSON as a number.
type Money struct {
	decimal.Decimal
}

var Zero = Money{decimal.Zero}

func New(d decimal.Decimal) Money {
	return Money{d}
}

func FromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// MustParse is FromString for literals.
func MustParse(s string) Money {
	return Money{decimal.RequireFromString(s)}
}

func (m Money) Add(o Money) Money {
	return Money{m.Decimal.Add(o.Decimal)}
}

// Times multiplies by a quantity.
func (m Money) Times(qty int) Money {
	return Money{m.Decimal.Mul(decimal.NewFromInt(int64(qty)))}
}

func (m Money) Equals(o Money) bool {
	return m.Decimal.Equal(o.Decimal)
}

func (m Money) MarshalBSONValue() (bsontype.Type, []byte, error) {
	d, err := primitive.ParseDecimal128(m.Decimal.String())
	if err != nil {
		return 0, nil, fmt.Errorf("money: encode %s: %w", m.Decimal.String(), err)
	}
	return bson.MarshalValue(d)
}

func (m *Money) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}

	switch t {
	case bsontype.Decimal128:
		d, err := decimal.NewFromString(raw.Decimal128().String())
		if err != nil {
			return fmt.Errorf("money: decode decimal128: %w", err)
		}
		m.Decimal = d
	case bsontype.Double:
		m.Decimal = decimal.NewFromFloat(raw.Double())
	case bsontype.Int32:
		m.Decimal = decimal.NewFromInt32(raw.Int32())
	case bsontype.Int64:
		m.Decimal = decimal.NewFromInt(raw.Int64())
	case bsontype.String:
		d, err := decimal.NewFromString(raw.StringValue())
		if err != nil {
			return fmt.Errorf("money: decode string: %w", err)
		}
		m.Decimal = d
	case bsontype.Null:
		m.Decimal = decimal.Zero
	default:
		return fmt.Errorf("money: cannot decode bson type %s", t)
	}
	return nil
}
