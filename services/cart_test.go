package services

import (
	"testing"

	"tableorder/entity"
)

func TestCart(t *testing.T) {
	burger := &entity.MenuItem{ID: 1, Name: "Burger", Price: 1250}
	fries := &entity.MenuItem{ID: 2, Name: "Fries", Price: 399}

	c := NewCart(5)
	c.Add(burger, 1, "no onions")
	c.Add(fries, 2, "")
	c.Add(burger, 1, "ignored")
	c.Add(fries, 0, "")

	if len(c.Items) != 2 || c.Items[0].Quantity != 2 || c.Items[0].SpecialInstructions != "no onions" {
		t.Fatalf("items = %+v", c.Items)
	}
	if c.ItemCount() != 4 {
		t.Fatalf("itemCount = %d", c.ItemCount())
	}
	// 2*1250 + 2*399 = 3298; tax 329.8 -> 330
	if c.Subtotal() != 3298 || c.Tax() != 330 || c.Total() != 3628 {
		t.Fatalf("totals = %+v", c.Totals())
	}

	c.SetInstructions(2, "extra salt")
	c.UpdateQuantity(1, 3)
	req := c.OrderRequest(entity.PaymentCard)
	if req.TableNumber != 5 || req.PaymentMethod != entity.PaymentCard || len(req.Items) != 2 {
		t.Fatalf("request = %+v", req)
	}
	if req.Items[0] != (OrderItemIn{MenuItem: 1, Quantity: 3, SpecialInstructions: "no onions"}) ||
		req.Items[1] != (OrderItemIn{MenuItem: 2, Quantity: 2, SpecialInstructions: "extra salt"}) {
		t.Fatalf("request items = %+v", req.Items)
	}

	c.UpdateQuantity(1, 0)
	if len(c.Items) != 1 || c.Items[0].MenuItemID != 2 {
		t.Fatalf("after zero quantity = %+v", c.Items)
	}
	c.Remove(2)
	c.Remove(42)
	if c.ItemCount() != 0 || c.Total() != 0 {
		t.Fatalf("not empty: %+v", c.Items)
	}

	c.Add(fries, 1, "")
	c.Clear()
	if len(c.Items) != 0 {
		t.Fatal("clear left items")
	}
}
