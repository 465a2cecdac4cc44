package services

import "tableorder/entity"

// CartLine is one menu item in a cart, priced at the time it was added.
type CartLine struct {
	MenuItemID          uint   `json:"menuItemId"`
	Name                string `json:"name"`
	Price               int64  `json:"price"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`
}

func (l CartLine) LineTotal() int64 { return l.Price * int64(l.Quantity) }

// Cart is the diner-side basket for one table. It is not persisted; the
// server reprices it from the catalog when it becomes an order.
type Cart struct {
	TableNumber   int        `json:"tableNumber"`
	Items         []CartLine `json:"items"`
	CustomerNotes string     `json:"customerNotes,omitempty"`
}

func NewCart(tableNumber int) *Cart {
	return &Cart{TableNumber: tableNumber, Items: []CartLine{}}
}

func (c *Cart) find(id uint) int {
	for i, l := range c.Items {
		if l.MenuItemID == id {
			return i
		}
	}
	return -1
}

// Add puts qty of m into the cart, merging with an existing line for the
// same item. Non-positive quantities are ignored.
func (c *Cart) Add(m *entity.MenuItem, qty int, instructions string) {
	if m == nil || qty <= 0 {
		return
	}
	if i := c.find(m.ID); i >= 0 {
		c.Items[i].Quantity += qty
		return
	}
	c.Items = append(c.Items, CartLine{
		MenuItemID:          m.ID,
		Name:                m.Name,
		Price:               m.Price,
		Quantity:            qty,
		SpecialInstructions: instructions,
	})
}

func (c *Cart) Remove(id uint) {
	if i := c.find(id); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

// UpdateQuantity sets the quantity of a line; q <= 0 removes it.
func (c *Cart) UpdateQuantity(id uint, q int) {
	if q <= 0 {
		c.Remove(id)
		return
	}
	if i := c.find(id); i >= 0 {
		c.Items[i].Quantity = q
	}
}

func (c *Cart) SetInstructions(id uint, instructions string) {
	if i := c.find(id); i >= 0 {
		c.Items[i].SpecialInstructions = instructions
	}
}

func (c *Cart) Clear() { c.Items = []CartLine{} }

// ItemCount is the number of units across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Items {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Totals() Totals {
	var sub int64
	for _, l := range c.Items {
		sub += l.LineTotal()
	}
	return TotalsFor(sub)
}

func (c *Cart) Subtotal() int64 { return c.Totals().Subtotal }
func (c *Cart) Tax() int64      { return c.Totals().Tax }
func (c *Cart) Total() int64    { return c.Totals().Total }

// OrderRequest converts the cart into an intake request. Prices are not
// carried over.
func (c *Cart) OrderRequest(method entity.PaymentMethod) *CreateOrderReq {
	req := &CreateOrderReq{
		TableNumber:   c.TableNumber,
		CustomerNotes: c.CustomerNotes,
		PaymentMethod: method,
		Items:         make([]OrderItemIn, 0, len(c.Items)),
	}
	for _, l := range c.Items {
		req.Items = append(req.Items, OrderItemIn{
			MenuItem:            l.MenuItemID,
			Quantity:            l.Quantity,
			SpecialInstructions: l.SpecialInstructions,
		})
	}
	return req
}
