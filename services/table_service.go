package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"tableorder/entity"
	"tableorder/repository"
	"tableorder/utils"
)

type TableService struct {
	Repo      *repository.TableRepository
	Notify    Notifier
	ClientURL string
	Now       func() time.Time
}

func NewTableService(repo *repository.TableRepository, notify Notifier, clientURL string) *TableService {
	return &TableService{Repo: repo, Notify: notify, ClientURL: clientURL, Now: time.Now}
}

type CreateTableReq struct {
	Number   int    `json:"number" binding:"required"`
	Capacity int    `json:"capacity" binding:"required"`
	Location string `json:"location"`
}

type UpdateTableReq struct {
	Number   *int                `json:"number"`
	Capacity *int                `json:"capacity"`
	Location *string             `json:"location"`
	Status   *entity.TableStatus `json:"status"`
}

// TableView is what customers see for their table.
type TableView struct {
	Number       int                `json:"number"`
	Capacity     int                `json:"capacity"`
	Status       entity.TableStatus `json:"status"`
	CurrentOrder *entity.Order      `json:"currentOrder"`
}

type QRCode struct {
	QRCode string `json:"qrCode"`
	URL    string `json:"url"`
}

type ServiceCalledEvent struct {
	ServiceCallID uint      `json:"serviceCallId"`
	TableNumber   int       `json:"tableNumber"`
	Message       string    `json:"message"`
	Timestamp     time.Time `json:"timestamp"`
}

func (s *TableService) byNumber(ctx context.Context, number int, withOrder bool) (*entity.Table, error) {
	t, err := s.Repo.FindByNumber(ctx, number, withOrder)
	if err != nil {
		return nil, notFoundOr(err, "table")
	}
	return t, nil
}

func (s *TableService) View(ctx context.Context, number int) (*TableView, error) {
	t, err := s.byNumber(ctx, number, true)
	if err != nil {
		return nil, err
	}
	return &TableView{Number: t.Number, Capacity: t.Capacity, Status: t.Status, CurrentOrder: t.CurrentOrder}, nil
}

func (s *TableService) List(ctx context.Context) ([]entity.Table, error) {
	return s.Repo.List(ctx)
}

func (s *TableService) Create(ctx context.Context, req *CreateTableReq) (*entity.Table, error) {
	if req.Number < 1 {
		return nil, Invalid("table number must be positive")
	}
	if req.Capacity < 1 {
		return nil, Invalid("capacity must be at least 1")
	}
	taken, err := s.Repo.NumberTaken(ctx, req.Number, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, Invalid("table number already exists")
	}

	t := &entity.Table{
		Number:   req.Number,
		QRCode:   entity.TableURL(s.ClientURL, req.Number),
		Capacity: req.Capacity,
		Status:   entity.TableAvailable,
		Location: strings.TrimSpace(req.Location),
	}
	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TableService) Update(ctx context.Context, id uint, req *UpdateTableReq) (*entity.Table, error) {
	t, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "table")
	}

	if req.Number != nil && *req.Number != t.Number {
		if *req.Number < 1 {
			return nil, Invalid("table number must be positive")
		}
		if t.CurrentOrderID != nil {
			return nil, Invalid("cannot renumber a table with an active order")
		}
		taken, err := s.Repo.NumberTaken(ctx, *req.Number, t.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, Invalid("table number already exists")
		}
		t.Number = *req.Number
		t.QRCode = entity.TableURL(s.ClientURL, t.Number)
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			return nil, Invalid("capacity must be at least 1")
		}
		t.Capacity = *req.Capacity
	}
	if req.Location != nil {
		t.Location = strings.TrimSpace(*req.Location)
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, Invalid("invalid table status: %s", *req.Status)
		}
		t.Status = *req.Status
		if t.Status == entity.TableAvailable {
			t.CurrentOrderID = nil
		}
	}

	if err := s.Repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TableService) Delete(ctx context.Context, id uint) error {
	ok, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return NotFound("table not found")
	}
	return nil
}

// QR renders the table's QR code URL as a PNG data URL.
func (s *TableService) QR(ctx context.Context, number int) (*QRCode, error) {
	t, err := s.byNumber(ctx, number, false)
	if err != nil {
		return nil, err
	}
	img, err := utils.QRDataURL(t.QRCode)
	if err != nil {
		return nil, err
	}
	return &QRCode{QRCode: img, URL: t.QRCode}, nil
}

// SetStatus is the staff override of a table's status.
func (s *TableService) SetStatus(ctx context.Context, number int, status entity.TableStatus) (*entity.Table, error) {
	if !status.Valid() {
		return nil, Invalid("invalid table status: %s", status)
	}
	t, err := s.byNumber(ctx, number, false)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SetStatus(ctx, t.ID, status); err != nil {
		return nil, err
	}
	return s.byNumber(ctx, number, false)
}

// CallService records a request for staff attention and alerts the staff channel.
func (s *TableService) CallService(ctx context.Context, number int, message string) (*entity.ServiceCall, error) {
	t, err := s.byNumber(ctx, number, false)
	if err != nil {
		return nil, err
	}
	message = strings.TrimSpace(message)
	if message == "" {
		message = entity.DefaultServiceMessage
	}

	call := &entity.ServiceCall{TableID: t.ID, Message: message, Timestamp: s.Now()}
	if err := s.Repo.AddServiceCall(ctx, call); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "service called", "table", t.Number, "call", call.ID)

	publish(s.Notify, StaffChannel, Event{Type: EventServiceCalled, Payload: ServiceCalledEvent{
		ServiceCallID: call.ID,
		TableNumber:   t.Number,
		Message:       call.Message,
		Timestamp:     call.Timestamp,
	}})
	return call, nil
}

// ResolveServiceCall marks one of the table's calls resolved and returns the
// table with its calls.
func (s *TableService) ResolveServiceCall(ctx context.Context, number int, callID uint) (*entity.Table, error) {
	t, err := s.byNumber(ctx, number, false)
	if err != nil {
		return nil, err
	}
	ok, err := s.Repo.ResolveServiceCall(ctx, t.ID, callID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NotFound("service call not found")
	}
	calls, err := s.Repo.ServiceCalls(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.ServiceCalls = calls
	return t, nil
}
