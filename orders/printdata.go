package orders

import (
	"strconv"
	"strings"
)

// FormData - folded view of an item's form fields. A field entered once
// holds a single value; repeated field names fold into a value list in
// field-value id order.
type FormData map[string][]string

func (f FormData) Has(key string) bool {
	return len(f[key]) > 0
}

// First returns the first value of a field, or "" when absent.
func (f FormData) First(key string) string {
	vals := f[key]
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

func (f FormData) Values(key string) []string {
	return f[key]
}

func (f FormData) Add(key string, value string) {
	f[key] = append(f[key], value)
}

// Pop removes a field and returns its values.
func (f FormData) Pop(key string) ([]string, bool) {
	vals, ok := f[key]
	if ok {
		delete(f, key)
	}
	return vals, ok
}

// Joined returns all values of a field joined by a single space.
func (f FormData) Joined(key string) string {
	return strings.Join(f[key], " ")
}

// ItemPrintData - one item flattened for slot rendering.
type ItemPrintData struct {
	ItemID  int64
	OrderID int64
	Code    string
	Name    string
	Price   int64
	Form    FormData
}

const donationCode = "D"

// PrintData folds the item's field values into an ItemPrintData.
// Donation items take their price from the `price` form field
// when present; any unparsable price becomes 0.
func (i *OrderItem) PrintData() *ItemPrintData {
	form := make(FormData)
	if i.FieldValues != nil {
		i.FieldValues.ForEach(func(fv *FieldValue) {
			form.Add(fv.FieldName, fv.FieldValue.ForceValue())
		})
	}

	priceText := strconv.FormatFloat(i.Price, 'f', -1, 64)
	if i.Code == donationCode {
		if v := form.First("price"); v != "" {
			priceText = v
		}
	}
	price, err := strconv.ParseFloat(priceText, 64)
	if err != nil {
		price = 0
	}

	return &ItemPrintData{
		ItemID:  i.ID,
		OrderID: i.OrderID,
		Code:    i.Code,
		Name:    i.ItemName,
		Price:   int64(price),
		Form:    form,
	}
}
