package backend

import (
	"encoding/json"
)

// The store API grew out of a Mongo schema, so records arrive loosely typed:
// identifiers show up as "_id" or "id", references may be either a scalar id
// or a populated sub-document, and optional fields are simply absent. All of
// that is normalized here, at the decoding boundary, so the aggregation code
// only ever sees canonical fields.

// OrderItem is a single line item on an order.
// Products are referenced by name; that name is the join key used by sales
// aggregation.
type OrderItem struct {
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// Order is a store order snapshot.
type Order struct {
	ID            string      `json:"-"`
	OrderNumber   string      `json:"orderNumber"`
	CustomerID    string      `json:"-"`
	CustomerPhone string      `json:"customerPhone"`
	Items         []OrderItem `json:"items"`
	TotalAmount   float64     `json:"totalAmount"`
	Status        string      `json:"status"`
	PaymentStatus string      `json:"paymentStatus"`
	// CreatedAt is kept as the raw string the backend sends. Recency ordering
	// compares these lexicographically, which is correct for ISO timestamps
	// and matches the behavior reports were built on.
	CreatedAt string `json:"-"`
}

// UnmarshalJSON normalizes alternate identifier keys and reference shapes.
func (o *Order) UnmarshalJSON(data []byte) error {
	type alias Order
	aux := struct {
		*alias
		MongoID    string          `json:"_id"`
		PlainID    string          `json:"id"`
		CustomerID json.RawMessage `json:"customerId"`
		CreatedAt  json.RawMessage `json:"createdAt"`
	}{alias: (*alias)(o)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	o.ID = firstNonEmpty(aux.MongoID, aux.PlainID)
	o.CustomerID = decodeReference(aux.CustomerID)
	o.CreatedAt = decodeString(aux.CreatedAt)
	return nil
}

// Customer is a store customer snapshot.
type Customer struct {
	ID    string `json:"-"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// UnmarshalJSON normalizes alternate identifier keys.
func (c *Customer) UnmarshalJSON(data []byte) error {
	type alias Customer
	aux := struct {
		*alias
		MongoID string `json:"_id"`
		PlainID string `json:"id"`
	}{alias: (*alias)(c)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	c.ID = firstNonEmpty(aux.MongoID, aux.PlainID)
	return nil
}

// Product is a store product snapshot.
type Product struct {
	ID    string  `json:"-"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
	// Active is nil when the backend omits the flag. Only an explicit false
	// marks a product inactive.
	Active *bool `json:"active"`
}

// UnmarshalJSON normalizes alternate identifier keys.
func (p *Product) UnmarshalJSON(data []byte) error {
	type alias Product
	aux := struct {
		*alias
		MongoID string `json:"_id"`
		PlainID string `json:"id"`
	}{alias: (*alias)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	p.ID = firstNonEmpty(aux.MongoID, aux.PlainID)
	return nil
}

// IsActive reports whether the product is considered active.
// A missing flag counts as active.
func (p Product) IsActive() bool {
	return p.Active == nil || *p.Active
}

// Payment is a payment snapshot.
type Payment struct {
	ID          string  `json:"-"`
	OrderNumber string  `json:"orderNumber"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
	Method      string  `json:"method"`
}

// UnmarshalJSON normalizes alternate identifier keys.
func (p *Payment) UnmarshalJSON(data []byte) error {
	type alias Payment
	aux := struct {
		*alias
		MongoID string `json:"_id"`
		PlainID string `json:"id"`
	}{alias: (*alias)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	p.ID = firstNonEmpty(aux.MongoID, aux.PlainID)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// decodeReference extracts a canonical id from a reference field that may be
// a scalar id string or a populated sub-document carrying "_id"/"id".
func decodeReference(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var doc struct {
		MongoID string `json:"_id"`
		PlainID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &doc); err == nil {
		return firstNonEmpty(doc.MongoID, doc.PlainID)
	}
	return ""
}

// decodeString tolerates absent or non-string values, returning "".
func decodeString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
