package foodorder

import (
	"fmt"
	"strings"

	catalogx "github.com/naruebet/voiceline/agent/catalog"
)

// CartLine is one distinct item in the cart. At most one line exists per
// item id; re-adding an item increments the quantity instead of appending
// a duplicate.
type CartLine struct {
	ItemID   string  `json:"item_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Total    float64 `json:"total"`
}

// OrderSession is the mutable per-conversation state for the ordering
// persona. It is exclusively owned by one conversation; tool calls mutate
// it sequentially.
type OrderSession struct {
	Cart []CartLine `json:"cart"`
}

func NewOrderSession() *OrderSession {
	return &OrderSession{}
}

// AddItem merges into an existing line or appends a new one, keeping the
// cached line total consistent. Reports whether the line was merged.
func (s *OrderSession) AddItem(item catalogx.Item, quantity int) (CartLine, bool) {
	for i := range s.Cart {
		if s.Cart[i].ItemID == item.ID {
			s.Cart[i].Quantity += quantity
			s.Cart[i].Total = s.Cart[i].Price * float64(s.Cart[i].Quantity)
			return s.Cart[i], true
		}
	}

	line := CartLine{
		ItemID:   item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: quantity,
		Total:    item.Price * float64(quantity),
	}
	s.Cart = append(s.Cart, line)
	return line, false
}

// FindLine resolves a spoken item name against cart lines with a
// case-insensitive substring match in either direction. First match wins;
// cart order is insertion order.
func (s *OrderSession) FindLine(name string) (int, bool) {
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return 0, false
	}
	for i := range s.Cart {
		lower := strings.ToLower(s.Cart[i].Name)
		if strings.Contains(lower, q) || strings.Contains(q, lower) {
			return i, true
		}
	}
	return 0, false
}

// SetQuantity updates a line in place; quantity zero removes the line.
func (s *OrderSession) SetQuantity(index, quantity int) {
	if index < 0 || index >= len(s.Cart) {
		return
	}
	if quantity <= 0 {
		s.RemoveLine(index)
		return
	}
	s.Cart[index].Quantity = quantity
	s.Cart[index].Total = s.Cart[index].Price * float64(quantity)
}

func (s *OrderSession) RemoveLine(index int) {
	if index < 0 || index >= len(s.Cart) {
		return
	}
	s.Cart = append(s.Cart[:index], s.Cart[index+1:]...)
}

func (s *OrderSession) GrandTotal() float64 {
	var total float64
	for _, line := range s.Cart {
		total += line.Total
	}
	return total
}

func (s *OrderSession) IsEmpty() bool {
	return len(s.Cart) == 0
}

// ListContents renders the cart for confirmation strings and recovery
// messages.
func (s *OrderSession) ListContents() string {
	if s.IsEmpty() {
		return "Your cart is empty."
	}

	var b strings.Builder
	b.WriteString("Your cart has: ")
	for i, line := range s.Cart {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s x%d (Rs. %.0f)", line.Name, line.Quantity, line.Total)
	}
	fmt.Fprintf(&b, ". Total: Rs. %.0f.", s.GrandTotal())
	return b.String()
}
