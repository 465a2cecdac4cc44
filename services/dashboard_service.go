package services

import (
	"context"
	"sort"
	"time"

	"tableorder/entity"
	"tableorder/repository"

	"golang.org/x/sync/errgroup"
)

const (
	recentOrdersLimit = 10
	topMenuItemsLimit = 5
)

type DashboardService struct {
	Orders *repository.OrderRepository
	Tables *repository.TableRepository
	Now    func() time.Time
}

func NewDashboardService(orders *repository.OrderRepository, tables *repository.TableRepository) *DashboardService {
	return &DashboardService{Orders: orders, Tables: tables, Now: time.Now}
}

type Dashboard struct {
	TodayOrders         int                             `json:"todayOrders"`
	TodayRevenue        int64                           `json:"todayRevenue"`
	ActiveOrders        int64                           `json:"activeOrders"`
	TableStats          repository.TableStats           `json:"tableStats"`
	RecentOrders        []entity.Order                  `json:"recentOrders"`
	TopMenuItems        []repository.TopMenuItem        `json:"topMenuItems"`
	PendingServiceCalls []repository.PendingServiceCall `json:"pendingServiceCalls"`
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Dashboard runs the sub-queries concurrently; the first failure fails the
// whole aggregate.
func (s *DashboardService) Dashboard(ctx context.Context) (*Dashboard, error) {
	out := &Dashboard{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		today, err := s.Orders.Since(ctx, startOfDay(s.Now()), false)
		if err != nil {
			return err
		}
		out.TodayOrders = len(today)
		for _, o := range today {
			if o.Status != entity.OrderCancelled {
				out.TodayRevenue += o.Total
			}
		}
		return nil
	})
	g.Go(func() (err error) {
		out.ActiveOrders, err = s.Orders.CountActive(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.TableStats, err = s.Tables.Stats(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.RecentOrders, err = s.Orders.Recent(ctx, recentOrdersLimit)
		return err
	})
	g.Go(func() (err error) {
		out.TopMenuItems, err = s.Orders.TopItems(ctx, topMenuItemsLimit)
		return err
	})
	g.Go(func() (err error) {
		out.PendingServiceCalls, err = s.Tables.PendingServiceCalls(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *DashboardService) PendingServiceCalls(ctx context.Context) ([]repository.PendingServiceCall, error) {
	return s.Tables.PendingServiceCalls(ctx)
}

// ----- analytics -----

var analyticsPeriods = map[string]int{"7d": 7, "30d": 30, "90d": 90}

type DayRevenue struct {
	Date    string `json:"date"`
	Revenue int64  `json:"revenue"`
	Orders  int    `json:"orders"`
}

type CategoryRevenue struct {
	Category string `json:"category"`
	Revenue  int64  `json:"revenue"`
	Quantity int    `json:"quantity"`
}

type HourCount struct {
	Hour   int `json:"hour"`
	Orders int `json:"orders"`
}

type Analytics struct {
	Period          string            `json:"period"`
	RevenueByDay    []DayRevenue      `json:"revenueByDay"`
	CategoryRevenue []CategoryRevenue `json:"categoryRevenue"`
	OrdersByHour    []HourCount       `json:"ordersByHour"`
}

func (s *DashboardService) Analytics(ctx context.Context, period string) (*Analytics, error) {
	if period == "" {
		period = "7d"
	}
	days, ok := analyticsPeriods[period]
	if !ok {
		return nil, Invalid("invalid period: %s", period)
	}

	start := startOfDay(s.Now()).AddDate(0, 0, -(days - 1))
	orders, err := s.Orders.Since(ctx, start, true)
	if err != nil {
		return nil, err
	}

	byDay := map[string]*DayRevenue{}
	byCat := map[string]*CategoryRevenue{}
	var hours [24]int
	var dayKeys, catKeys []string

	for _, o := range orders {
		hours[o.CreatedAt.Hour()]++
		if o.Status == entity.OrderCancelled {
			continue
		}

		key := o.CreatedAt.Format("2006-01-02")
		d, ok := byDay[key]
		if !ok {
			d = &DayRevenue{Date: key}
			byDay[key] = d
			dayKeys = append(dayKeys, key)
		}
		d.Revenue += o.Total
		d.Orders++

		for _, it := range o.Items {
			cat := "unknown"
			if it.MenuItem != nil {
				cat = string(it.MenuItem.Category)
			}
			c, ok := byCat[cat]
			if !ok {
				c = &CategoryRevenue{Category: cat}
				byCat[cat] = c
				catKeys = append(catKeys, cat)
			}
			c.Revenue += it.LineTotal()
			c.Quantity += it.Quantity
		}
	}

	out := &Analytics{
		Period:          period,
		RevenueByDay:    make([]DayRevenue, 0, len(dayKeys)),
		CategoryRevenue: make([]CategoryRevenue, 0, len(catKeys)),
		OrdersByHour:    []HourCount{},
	}
	sort.Strings(dayKeys)
	for _, k := range dayKeys {
		out.RevenueByDay = append(out.RevenueByDay, *byDay[k])
	}
	for _, k := range catKeys {
		out.CategoryRevenue = append(out.CategoryRevenue, *byCat[k])
	}
	sort.Slice(out.CategoryRevenue, func(i, j int) bool {
		return out.CategoryRevenue[i].Revenue > out.CategoryRevenue[j].Revenue
	})
	for h, n := range hours {
		if n > 0 {
			out.OrdersByHour = append(out.OrdersByHour, HourCount{Hour: h, Orders: n})
		}
	}
	return out, nil
}
