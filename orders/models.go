package orders

import (
	"time"

	"github.com/zeptools/tablet-core/nullable"
	"github.com/zeptools/tablet-core/orm"
)

type Order struct {
	ID           int64           `json:"id"`
	Name         nullable.String `json:"name"`
	Email        nullable.String `json:"email"`
	CustomerName nullable.String `json:"customer_name"`
	MemberName   nullable.String `json:"member_name"`
	Phone        nullable.String `json:"phone"`
	CreatedAt    time.Time       `json:"created_at"`
	Version      string          `json:"version"`

	Items *orm.Collection[*OrderItem, int64] `json:"items,omitzero"`
}

func (o *Order) GetID() int64 {
	return o.ID
}

// TargetFields - scan targets in select column order
func (o *Order) TargetFields() []any {
	return []any{
		&o.ID,
		&o.Name,
		&o.Email,
		&o.CustomerName,
		&o.MemberName,
		&o.Phone,
		&o.CreatedAt,
		&o.Version,
	}
}

type OrderItem struct {
	ID       int64   `json:"id"`
	OrderID  int64   `json:"order_id"`
	Code     string  `json:"code"`
	ItemName string  `json:"item_name"`
	Price    float64 `json:"price"`

	Order       *Order                              `json:"-"`
	FieldValues *orm.Collection[*FieldValue, int64] `json:"field_values,omitzero"`
}

func (i *OrderItem) GetID() int64 {
	return i.ID
}

// TargetFields - scan targets in select column order
func (i *OrderItem) TargetFields() []any {
	return []any{
		&i.ID,
		&i.OrderID,
		&i.Code,
		&i.ItemName,
		&i.Price,
	}
}

type FieldValue struct {
	ID         int64           `json:"id"`
	ItemID     int64           `json:"item_id"`
	FieldName  string          `json:"field_name"`
	FieldValue nullable.String `json:"field_value"`
}

func (v *FieldValue) GetID() int64 {
	return v.ID
}

// TargetFields - scan targets in select column order
func (v *FieldValue) TargetFields() []any {
	return []any{
		&v.ID,
		&v.ItemID,
		&v.FieldName,
		&v.FieldValue,
	}
}
