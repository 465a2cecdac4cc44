package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tableorder/entity"
	"tableorder/repository"

	"gorm.io/gorm"
)

func TestCreateOrderPricesAndClaimsTable(t *testing.T) {
	f := newFixture(t)

	o := f.place(t, 5, OrderItemIn{MenuItem: f.burger.ID, Quantity: 2, SpecialInstructions: "no onions"})

	if o.Subtotal != 2500 || o.Tax != 250 || o.Total != 2750 {
		t.Fatalf("totals = %d/%d/%d, want 2500/250/2750", o.Subtotal, o.Tax, o.Total)
	}
	if o.Status != entity.OrderPending || o.PaymentStatus != entity.PaymentPending {
		t.Fatalf("status = %s/%s", o.Status, o.PaymentStatus)
	}
	if o.PaymentMethod != entity.PaymentCash {
		t.Fatalf("payment method = %s, want cash", o.PaymentMethod)
	}
	if !strings.HasPrefix(o.OrderNumber, "ORD-") {
		t.Fatalf("order number = %q", o.OrderNumber)
	}
	if len(o.Items) != 1 || o.Items[0].Price != 1250 || o.Items[0].SpecialInstructions != "no onions" {
		t.Fatalf("items = %+v", o.Items)
	}
	if o.Items[0].MenuItem == nil || o.Items[0].MenuItem.Name != "Burger" {
		t.Fatalf("menu item not loaded: %+v", o.Items[0])
	}
	if o.EstimatedReadyTime == nil || !o.EstimatedReadyTime.Equal(fixedNow.Add(20*time.Minute)) {
		t.Fatalf("eta = %v, want %v", o.EstimatedReadyTime, fixedNow.Add(20*time.Minute))
	}

	tbl := f.table(t, 5)
	if tbl.Status != entity.TableOccupied {
		t.Fatalf("table status = %s, want occupied", tbl.Status)
	}
	if tbl.CurrentOrderID == nil || *tbl.CurrentOrderID != o.ID {
		t.Fatalf("table current order = %v, want %d", tbl.CurrentOrderID, o.ID)
	}

	ev := f.rec.last(t)
	if ev.channel != StaffChannel || ev.event.Type != EventNewOrder {
		t.Fatalf("event = %s on %s", ev.event.Type, ev.channel)
	}
	payload, ok := ev.event.Payload.(NewOrderEvent)
	if !ok || payload.Message != "New order received from Table 5" || payload.Order.ID != o.ID {
		t.Fatalf("payload = %+v", ev.event.Payload)
	}
}

func TestCreateOrderAveragesPrepTimePerLine(t *testing.T) {
	f := newFixture(t)

	o := f.place(t, 5,
		OrderItemIn{MenuItem: f.burger.ID, Quantity: 3},
		OrderItemIn{MenuItem: f.salad.ID, Quantity: 1},
	)

	// (20 + 10) / 2 lines
	want := fixedNow.Add(15 * time.Minute)
	if !o.EstimatedReadyTime.Equal(want) {
		t.Fatalf("eta = %v, want %v", o.EstimatedReadyTime, want)
	}
	if o.Subtotal != 4750 || o.Tax != 475 || o.Total != 5225 {
		t.Fatalf("totals = %d/%d/%d", o.Subtotal, o.Tax, o.Total)
	}
}

func TestCreateOrderRejections(t *testing.T) {
	tests := []struct {
		name string
		req  func(f *fixture) *CreateOrderReq
		kind Kind
	}{
		{"unknown table", func(f *fixture) *CreateOrderReq {
			return &CreateOrderReq{TableNumber: 99, Items: []OrderItemIn{{MenuItem: f.burger.ID, Quantity: 1}}}
		}, KindNotFound},
		{"unavailable item", func(f *fixture) *CreateOrderReq {
			return &CreateOrderReq{TableNumber: 5, Items: []OrderItemIn{{MenuItem: f.soup.ID, Quantity: 1}}}
		}, KindValidation},
		{"missing item", func(f *fixture) *CreateOrderReq {
			return &CreateOrderReq{TableNumber: 5, Items: []OrderItemIn{{MenuItem: 9999, Quantity: 1}}}
		}, KindValidation},
		{"no items", func(f *fixture) *CreateOrderReq {
			return &CreateOrderReq{TableNumber: 5}
		}, KindValidation},
		{"zero quantity", func(f *fixture) *CreateOrderReq {
			return &CreateOrderReq{TableNumber: 5, Items: []OrderItemIn{{MenuItem: f.burger.ID, Quantity: 0}}}
		}, KindValidation},
		{"quantity over limit", func(f *fixture) *CreateOrderReq {
			return &CreateOrderReq{TableNumber: 5, Items: []OrderItemIn{{MenuItem: f.burger.ID, Quantity: MaxItemQuantity + 1}}}
		}, KindValidation},
		{"overflowing quantity", func(f *fixture) *CreateOrderReq {
			return &CreateOrderReq{TableNumber: 5, Items: []OrderItemIn{{MenuItem: f.burger.ID, Quantity: 8_000_000_000_000_000}}}
		}, KindValidation},
		{"bad payment method", func(f *fixture) *CreateOrderReq {
			return &CreateOrderReq{TableNumber: 5, PaymentMethod: "bitcoin", Items: []OrderItemIn{{MenuItem: f.burger.ID, Quantity: 1}}}
		}, KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.orders.Create(context.Background(), tt.req(f))
			wantKind(t, err, tt.kind)

			if n := f.count(t, &entity.Order{}); n != 0 {
				t.Fatalf("orders = %d, want 0", n)
			}
			if tbl := f.table(t, 5); tbl.Status != entity.TableAvailable || tbl.CurrentOrderID != nil {
				t.Fatalf("table changed: %+v", tbl)
			}
			if evs := f.rec.all(); len(evs) != 0 {
				t.Fatalf("events = %+v", evs)
			}
		})
	}
}

func TestCreateOrderRejectsTotalOverCeiling(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	caviar := entity.MenuItem{Name: "Caviar", Description: "tin", Price: MaxOrderSubtotal / 2, Category: entity.CategorySpecials, Available: true}
	if err := f.db.Create(&caviar).Error; err != nil {
		t.Fatal(err)
	}

	q, err := f.orders.Quote(ctx, &CreateOrderReq{TableNumber: 5, Items: []OrderItemIn{{MenuItem: caviar.ID, Quantity: 2}}})
	if err != nil {
		t.Fatalf("quote at the ceiling: %v", err)
	}
	if q.Subtotal != MaxOrderSubtotal || q.Tax != MaxOrderSubtotal/10 {
		t.Fatalf("totals = %+v", q.Totals)
	}

	_, err = f.orders.Create(ctx, &CreateOrderReq{TableNumber: 5, Items: []OrderItemIn{
		{MenuItem: caviar.ID, Quantity: 2},
		{MenuItem: f.salad.ID, Quantity: 1},
	}})
	wantKind(t, err, KindValidation)
	if n := f.count(t, &entity.Order{}); n != 0 {
		t.Fatalf("orders = %d, want 0", n)
	}
	if tbl := f.table(t, 5); tbl.CurrentOrderID != nil {
		t.Fatalf("table claimed: %+v", tbl)
	}
}

func TestCreateOrderOneOpenOrderPerTable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.place(t, 5, OrderItemIn{MenuItem: f.burger.ID, Quantity: 1})

	_, err := f.orders.Create(ctx, &CreateOrderReq{TableNumber: 5, Items: []OrderItemIn{{MenuItem: f.salad.ID, Quantity: 1}}})
	wantKind(t, err, KindValidation)

	if _, err := f.orders.SetStatus(ctx, first.ID, entity.OrderCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}
	second := f.place(t, 5, OrderItemIn{MenuItem: f.salad.ID, Quantity: 1})
	if tbl := f.table(t, 5); tbl.CurrentOrderID == nil || *tbl.CurrentOrderID != second.ID {
		t.Fatalf("table current order = %v, want %d", tbl.CurrentOrderID, second.ID)
	}
}

func TestCreateOrderDetachesStaleReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.place(t, 5, OrderItemIn{MenuItem: f.burger.ID, Quantity: 1})
	// close the order behind the service's back, leaving the table pointing at it
	if err := f.db.Model(&entity.Order{}).Where("id = ?", first.ID).Update("status", entity.OrderCompleted).Error; err != nil {
		t.Fatal(err)
	}

	second, err := f.orders.Create(ctx, &CreateOrderReq{TableNumber: 5, Items: []OrderItemIn{{MenuItem: f.salad.ID, Quantity: 1}}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tbl := f.table(t, 5); *tbl.CurrentOrderID != second.ID {
		t.Fatalf("table current order = %d, want %d", *tbl.CurrentOrderID, second.ID)
	}
}

func TestCreateOrderRollsBackWhenTableClaimFails(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("boom")
	err := f.db.Callback().Update().Before("gorm:update").Register("test:fail_tables", func(tx *gorm.DB) {
		if tx.Statement.Table == "tables" {
			tx.AddError(boom)
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = f.orders.Create(context.Background(), &CreateOrderReq{
		TableNumber: 5,
		Items:       []OrderItemIn{{MenuItem: f.burger.ID, Quantity: 1}},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if KindOf(err) != KindInternal {
		t.Fatalf("kind = %v, want internal", KindOf(err))
	}
	if n := f.count(t, &entity.Order{}); n != 0 {
		t.Fatalf("orders = %d, want 0", n)
	}
	if n := f.count(t, &entity.OrderItem{}); n != 0 {
		t.Fatalf("order items = %d, want 0", n)
	}
	if len(f.rec.all()) != 0 {
		t.Fatal("event published for a failed order")
	}
}

func TestSetStatusRollsBackWhenReleaseFails(t *testing.T) {
	for _, status := range []entity.OrderStatus{entity.OrderCompleted, entity.OrderCancelled} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			o := f.place(t, 5, OrderItemIn{MenuItem: f.burger.ID, Quantity: 1})
			before := len(f.rec.all())

			boom := errors.New("boom")
			err := f.db.Callback().Update().Before("gorm:update").Register("test:fail_release", func(tx *gorm.DB) {
				if tx.Statement.Table == "tables" {
					tx.AddError(boom)
				}
			})
			if err != nil {
				t.Fatal(err)
			}

			_, err = f.orders.SetStatus(ctx, o.ID, status)
			if !errors.Is(err, boom) {
				t.Fatalf("err = %v, want boom", err)
			}

			cur, err := f.orders.Get(ctx, o.ID)
			if err != nil {
				t.Fatal(err)
			}
			if cur.Status != entity.OrderPending || cur.CompletedAt != nil {
				t.Fatalf("order changed: status=%s completedAt=%v", cur.Status, cur.CompletedAt)
			}
			if tbl := f.table(t, 5); tbl.Status != entity.TableOccupied || tbl.CurrentOrderID == nil || *tbl.CurrentOrderID != o.ID {
				t.Fatalf("table changed: %+v", tbl)
			}
			if len(f.rec.all()) != before {
				t.Fatal("event published for a rolled back transition")
			}
		})
	}
}

func TestCreateOrderRedrawsCollidingNumber(t *testing.T) {
	f := newFixture(t, 1, 2)
	draws := []string{"ORD-20261018-AAAAAA", "ORD-20261018-AAAAAA", "ORD-20261018-BBBBBB"}
	f.orders.NewNumber = func(time.Time) string {
		n := draws[0]
		if len(draws) > 1 {
			draws = draws[1:]
		}
		return n
	}

	a := f.place(t, 1, OrderItemIn{MenuItem: f.burger.ID, Quantity: 1})
	b := f.place(t, 2, OrderItemIn{MenuItem: f.burger.ID, Quantity: 1})
	if a.OrderNumber != "ORD-20261018-AAAAAA" || b.OrderNumber != "ORD-20261018-BBBBBB" {
		t.Fatalf("numbers = %s, %s", a.OrderNumber, b.OrderNumber)
	}
}

func TestCreateOrderGivesUpOnPersistentCollision(t *testing.T) {
	f := newFixture(t, 1, 2)
	f.orders.NewNumber = func(time.Time) string { return "ORD-20261018-AAAAAA" }

	f.place(t, 1, OrderItemIn{MenuItem: f.burger.ID, Quantity: 1})
	_, err := f.orders.Create(context.Background(), &CreateOrderReq{TableNumber: 2, Items: []OrderItemIn{{MenuItem: f.burger.ID, Quantity: 1}}})
	wantKind(t, err, KindInternal)
	if tbl := f.table(t, 2); tbl.CurrentOrderID != nil {
		t.Fatal("table 2 claimed by a failed order")
	}
}

func TestQuoteDoesNotPersist(t *testing.T) {
	f := newFixture(t)

	q, err := f.orders.Quote(context.Background(), &CreateOrderReq{
		TableNumber: 5,
		Items:       []OrderItemIn{{MenuItem: f.salad.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if q.Subtotal != 3000 || q.Tax != 300 || q.Total != 3300 {
		t.Fatalf("quote = %+v", q.Totals)
	}
	if n := f.count(t, &entity.Order{}); n != 0 {
		t.Fatalf("orders = %d, want 0", n)
	}
}

func TestSetStatusLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.place(t, 5, OrderItemIn{MenuItem: f.burger.ID, Quantity: 1})

	for _, st := range []entity.OrderStatus{entity.OrderConfirmed, entity.OrderPreparing, entity.OrderReady, entity.OrderServed} {
		got, err := f.orders.SetStatus(ctx, o.ID, st)
		if err != nil {
			t.Fatalf("set %s: %v", st, err)
		}
		if got.Status != st {
			t.Fatalf("status = %s, want %s", got.Status, st)
		}
		if tbl := f.table(t, 5); tbl.Status != entity.TableOccupied {
			t.Fatalf("table released at %s", st)
		}
	}

	ev := f.rec.last(t)
	if ev.channel != TableChannel(5) || ev.event.Type != EventOrderStatusUpdated {
		t.Fatalf("event = %s on %s", ev.event.Type, ev.channel)
	}
	if p := ev.event.Payload.(OrderStatusEvent); p.EstimatedReadyTime != nil {
		t.Fatal("served update should not carry an eta")
	}

	done, err := f.orders.SetStatus(ctx, o.ID, entity.OrderCompleted)
	if err != nil {
		t.Fatal(err)
	}
	if done.CompletedAt == nil {
		t.Fatal("completedAt not set")
	}
	tbl := f.table(t, 5)
	if tbl.Status != entity.TableAvailable || tbl.CurrentOrderID != nil {
		t.Fatalf("table not released: %+v", tbl)
	}
}

func TestSetStatusCarriesEtaWhileCooking(t *testing.T) {
	f := newFixture(t)
	o := f.place(t, 5, OrderItemIn{MenuItem: f.burger.ID, Quantity: 1})

	if _, err := f.orders.SetStatus(context.Background(), o.ID, entity.OrderConfirmed); err != nil {
		t.Fatal(err)
	}
	p := f.rec.last(t).event.Payload.(OrderStatusEvent)
	if p.Status != entity.OrderConfirmed || p.EstimatedReadyTime == nil {
		t.Fatalf("payload = %+v", p)
	}
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name    string
		from    entity.OrderStatus
		wantErr string
	}{
		{"pending", entity.OrderPending, ""},
		{"confirmed", entity.OrderConfirmed, ""},
		{"served", entity.OrderServed, ""},
		{"preparing", entity.OrderPreparing, "cannot cancel order that is being prepared"},
		{"ready", entity.OrderReady, "cannot cancel order that is being prepared"},
		{"completed", entity.OrderCompleted, "cannot cancel order that is completed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			o := f.place(t, 5, OrderItemIn{MenuItem: f.burger.ID, Quantity: 1})
			if tt.from != entity.OrderPending {
				if _, err := f.orders.SetStatus(ctx, o.ID, tt.from); err != nil {
					t.Fatal(err)
				}
			}
			before := len(f.rec.all())

			got, err := f.orders.Cancel(ctx, o.ID)
			if tt.wantErr != "" {
				wantKind(t, err, KindValidation)
				if err.Error() != tt.wantErr {
					t.Fatalf("err = %q, want %q", err, tt.wantErr)
				}
				cur, _ := f.orders.Get(ctx, o.ID)
				if cur.Status != tt.from {
					t.Fatalf("status = %s, want unchanged %s", cur.Status, tt.from)
				}
				if len(f.rec.all()) != before {
					t.Fatal("event published for a refused cancel")
				}
				return
			}

			if err != nil {
				t.Fatal(err)
			}
			if got.Status != entity.OrderCancelled {
				t.Fatalf("status = %s", got.Status)
			}
			if tbl := f.table(t, 5); tbl.Status != entity.TableAvailable || tbl.CurrentOrderID != nil {
				t.Fatalf("table not released: %+v", tbl)
			}
			evs := f.rec.all()[before:]
			if len(evs) != 2 {
				t.Fatalf("events = %+v, want status update then cancellation", evs)
			}
			upd, ok := evs[0].event.Payload.(OrderStatusEvent)
			if evs[0].channel != TableChannel(5) || evs[0].event.Type != EventOrderStatusUpdated || !ok ||
				upd.Status != entity.OrderCancelled || upd.EstimatedReadyTime != nil {
				t.Fatalf("first event = %+v on %s", evs[0].event, evs[0].channel)
			}
			if evs[1].channel != TableChannel(5) || evs[1].event.Type != EventOrderCancelled {
				t.Fatalf("second event = %s on %s", evs[1].event.Type, evs[1].channel)
			}
		})
	}
}

func TestSetStatusErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.place(t, 5, OrderItemIn{MenuItem: f.burger.ID, Quantity: 1})

	_, err := f.orders.SetStatus(ctx, o.ID, "bogus")
	wantKind(t, err, KindValidation)

	_, err = f.orders.SetStatus(ctx, 4242, entity.OrderConfirmed)
	wantKind(t, err, KindNotFound)

	_, err = f.orders.Get(ctx, 4242)
	wantKind(t, err, KindNotFound)
}

func TestCompletingDoesNotReleaseAnotherOrdersTable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.place(t, 5, OrderItemIn{MenuItem: f.burger.ID, Quantity: 1})
	if _, err := f.orders.SetStatus(ctx, first.ID, entity.OrderCompleted); err != nil {
		t.Fatal(err)
	}
	second := f.place(t, 5, OrderItemIn{MenuItem: f.salad.ID, Quantity: 1})

	// a late overwrite of the old order must leave the new claim alone
	if _, err := f.orders.SetStatus(ctx, first.ID, entity.OrderCompleted); err != nil {
		t.Fatal(err)
	}
	if tbl := f.table(t, 5); tbl.CurrentOrderID == nil || *tbl.CurrentOrderID != second.ID {
		t.Fatalf("table current order = %v, want %d", tbl.CurrentOrderID, second.ID)
	}
}

func TestListOrders(t *testing.T) {
	f := newFixture(t, 1, 2, 3)
	ctx := context.Background()
	for _, n := range []int{1, 2, 3} {
		f.place(t, n, OrderItemIn{MenuItem: f.burger.ID, Quantity: 1})
	}

	page, err := f.orders.List(ctx, repository.OrderFilter{Page: 1, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalOrders != 3 || page.TotalPages != 2 || len(page.Orders) != 2 {
		t.Fatalf("page = total %d pages %d len %d", page.TotalOrders, page.TotalPages, len(page.Orders))
	}
	if page.Orders[0].TableNumber != 3 {
		t.Fatalf("newest first: got table %d", page.Orders[0].TableNumber)
	}

	byTable, err := f.orders.List(ctx, repository.OrderFilter{TableNumber: 2})
	if err != nil {
		t.Fatal(err)
	}
	if byTable.TotalOrders != 1 || byTable.Orders[0].TableNumber != 2 {
		t.Fatalf("table filter = %+v", byTable)
	}

	_, err = f.orders.List(ctx, repository.OrderFilter{Status: "bogus"})
	wantKind(t, err, KindValidation)

	history, err := f.orders.ListByTable(ctx, 1)
	if err != nil || len(history) != 1 {
		t.Fatalf("history = %v, %v", history, err)
	}
}
