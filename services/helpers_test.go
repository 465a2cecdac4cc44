package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"tableorder/configs"
	"tableorder/entity"
	"tableorder/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := configs.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), true)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := configs.SetupDatabase(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type published struct {
	channel string
	event   Event
}

type recorder struct {
	mu     sync.Mutex
	events []published
}

func (r *recorder) Publish(channel string, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{channel, ev})
}

func (r *recorder) all() []published {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]published(nil), r.events...)
}

func (r *recorder) last(t *testing.T) published {
	t.Helper()
	evs := r.all()
	if len(evs) == 0 {
		t.Fatal("no events published")
	}
	return evs[len(evs)-1]
}

var fixedNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.Local)

type fixture struct {
	db     *gorm.DB
	rec    *recorder
	orders *OrderService
	tables *TableService

	burger, salad, soup entity.MenuItem
}

func newFixture(t *testing.T, tableNumbers ...int) *fixture {
	t.Helper()
	db := newTestDB(t)
	rec := &recorder{}

	f := &fixture{
		db:     db,
		rec:    rec,
		burger: entity.MenuItem{Name: "Burger", Description: "beef", Price: 1250, Category: entity.CategoryMainCourses, Available: true, PreparationTime: 20},
		salad:  entity.MenuItem{Name: "Salad", Description: "greens", Price: 1000, Category: entity.CategoryAppetizers, Available: true, PreparationTime: 10},
		soup:   entity.MenuItem{Name: "Soup", Description: "off today", Price: 800, Category: entity.CategoryAppetizers, Available: false, PreparationTime: 5},
	}
	for _, m := range []*entity.MenuItem{&f.burger, &f.salad, &f.soup} {
		if err := db.Create(m).Error; err != nil {
			t.Fatalf("create menu item: %v", err)
		}
	}
	if len(tableNumbers) == 0 {
		tableNumbers = []int{5}
	}
	for _, n := range tableNumbers {
		tbl := entity.Table{
			Number:   n,
			QRCode:   entity.TableURL("http://localhost:3000", n),
			Capacity: 4,
			Status:   entity.TableAvailable,
		}
		if err := db.Create(&tbl).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}

	menuRepo := repository.NewMenuRepository(db)
	tableRepo := repository.NewTableRepository(db)
	f.orders = NewOrderService(db, repository.NewOrderRepository(db), menuRepo, tableRepo, rec)
	f.orders.Now = func() time.Time { return fixedNow }
	f.tables = NewTableService(tableRepo, rec, "http://localhost:3000")
	f.tables.Now = func() time.Time { return fixedNow }
	return f
}

func (f *fixture) table(t *testing.T, number int) entity.Table {
	t.Helper()
	var tbl entity.Table
	if err := f.db.Where("number = ?", number).First(&tbl).Error; err != nil {
		t.Fatalf("load table %d: %v", number, err)
	}
	return tbl
}

func (f *fixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func (f *fixture) place(t *testing.T, table int, items ...OrderItemIn) *entity.Order {
	t.Helper()
	o, err := f.orders.Create(context.Background(), &CreateOrderReq{TableNumber: table, Items: items})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return o
}

func wantKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", kind)
	}
	if got := KindOf(err); got != kind {
		t.Fatalf("error kind = %v, want %v (%v)", got, kind, err)
	}
}
