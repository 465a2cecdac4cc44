package services

import (
	"context"
	"strings"
	"testing"

	"tableorder/entity"
)

func TestCallServicePublishesToStaff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	call, err := f.tables.CallService(ctx, 5, "  ")
	if err != nil {
		t.Fatal(err)
	}
	if call.Message != entity.DefaultServiceMessage || call.Resolved {
		t.Fatalf("call = %+v", call)
	}

	ev := f.rec.last(t)
	if ev.channel != StaffChannel || ev.event.Type != EventServiceCalled {
		t.Fatalf("event = %s on %s", ev.event.Type, ev.channel)
	}
	p := ev.event.Payload.(ServiceCalledEvent)
	if p.TableNumber != 5 || p.ServiceCallID != call.ID || !p.Timestamp.Equal(fixedNow) {
		t.Fatalf("payload = %+v", p)
	}

	_, err = f.tables.CallService(ctx, 77, "water")
	wantKind(t, err, KindNotFound)
}

func TestResolveServiceCall(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	call, err := f.tables.CallService(ctx, 5, "water please")
	if err != nil {
		t.Fatal(err)
	}
	pending, err := f.tables.Repo.PendingServiceCalls(ctx)
	if err != nil || len(pending) != 1 || pending[0].TableNumber != 5 {
		t.Fatalf("pending = %+v, %v", pending, err)
	}

	tbl, err := f.tables.ResolveServiceCall(ctx, 5, call.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(tbl.ServiceCalls) != 1 || !tbl.ServiceCalls[0].Resolved {
		t.Fatalf("calls = %+v", tbl.ServiceCalls)
	}
	pending, _ = f.tables.Repo.PendingServiceCalls(ctx)
	if len(pending) != 0 {
		t.Fatalf("still pending: %+v", pending)
	}

	_, err = f.tables.ResolveServiceCall(ctx, 5, 9999)
	wantKind(t, err, KindNotFound)
}

func TestCreateAndUpdateTable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tbl, err := f.tables.Create(ctx, &CreateTableReq{Number: 7, Capacity: 2, Location: " Terrace "})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.QRCode != "http://localhost:3000/table/7" || tbl.Status != entity.TableAvailable || tbl.Location != "Terrace" {
		t.Fatalf("table = %+v", tbl)
	}

	_, err = f.tables.Create(ctx, &CreateTableReq{Number: 7, Capacity: 2})
	wantKind(t, err, KindValidation)
	_, err = f.tables.Create(ctx, &CreateTableReq{Number: 8, Capacity: 0})
	wantKind(t, err, KindValidation)

	num := 5
	_, err = f.tables.Update(ctx, tbl.ID, &UpdateTableReq{Number: &num})
	wantKind(t, err, KindValidation)

	num = 9
	updated, err := f.tables.Update(ctx, tbl.ID, &UpdateTableReq{Number: &num})
	if err != nil {
		t.Fatal(err)
	}
	if updated.QRCode != "http://localhost:3000/table/9" {
		t.Fatalf("qr = %s", updated.QRCode)
	}

	_, err = f.tables.Update(ctx, 9999, &UpdateTableReq{})
	wantKind(t, err, KindNotFound)

	if err := f.tables.Delete(ctx, tbl.ID); err != nil {
		t.Fatal(err)
	}
	wantKind(t, f.tables.Delete(ctx, tbl.ID), KindNotFound)
}

func TestRenumberRefusedWhileOrderOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.place(t, 5, OrderItemIn{MenuItem: f.burger.ID, Quantity: 1})
	held := f.table(t, 5)

	num := 6
	_, err := f.tables.Update(ctx, held.ID, &UpdateTableReq{Number: &num})
	wantKind(t, err, KindValidation)
	if tbl := f.table(t, 5); tbl.CurrentOrderID == nil || *tbl.CurrentOrderID != o.ID {
		t.Fatalf("table = %+v", tbl)
	}

	// completing the order still finds and frees the table
	if _, err := f.orders.SetStatus(ctx, o.ID, entity.OrderCompleted); err != nil {
		t.Fatal(err)
	}
	if _, err := f.tables.Update(ctx, held.ID, &UpdateTableReq{Number: &num}); err != nil {
		t.Fatalf("renumber free table: %v", err)
	}
	if tbl := f.table(t, 6); tbl.Status != entity.TableAvailable || tbl.CurrentOrderID != nil {
		t.Fatalf("table = %+v", tbl)
	}
}

func TestSetTableStatusAvailableClearsOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.place(t, 5, OrderItemIn{MenuItem: f.burger.ID, Quantity: 1})

	tbl, err := f.tables.SetStatus(ctx, 5, entity.TableAvailable)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Status != entity.TableAvailable || tbl.CurrentOrderID != nil {
		t.Fatalf("table = %+v", tbl)
	}

	_, err = f.tables.SetStatus(ctx, 5, "flooded")
	wantKind(t, err, KindValidation)
}

func TestTableViewAndQR(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.place(t, 5, OrderItemIn{MenuItem: f.salad.ID, Quantity: 2})

	view, err := f.tables.View(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if view.CurrentOrder == nil || view.CurrentOrder.ID != o.ID || len(view.CurrentOrder.Items) != 1 {
		t.Fatalf("view = %+v", view)
	}

	qr, err := f.tables.QR(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if qr.URL != "http://localhost:3000/table/5" || !strings.HasPrefix(qr.QRCode, "data:image/png;base64,") {
		t.Fatalf("qr = %s %.40s", qr.URL, qr.QRCode)
	}

	_, err = f.tables.View(ctx, 404)
	wantKind(t, err, KindNotFound)
}
