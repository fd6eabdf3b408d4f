package booking

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Alijeyrad/clinicdesk_backend/pkg/authorize"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/observability"
	"github.com/Alijeyrad/clinicdesk_backend/pkg/phone"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateOnlineRequest struct {
	Name   string
	Phone  string
	Date   string
	Email  string
	Amount *decimal.Decimal
	Notes  string
}

type CreateClinicRequest struct {
	Name       string
	Phone      string
	Date       string
	Email      string
	AmountPaid *decimal.Decimal
	VisitType  VisitType
	Status     Status
	Notes      string
}

type UpdateRequest struct {
	Name       *string
	Phone      *string
	Email      *string
	Date       *string
	AmountPaid *decimal.Decimal
	VisitType  *VisitType
	Status     *Status
	Notes      *string
}

type ListRequest struct {
	Type              string
	Status            string
	ExaminationStatus string
	Date              string // YYYY-MM-DD in the clinic timezone
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	CreateOnline(ctx context.Context, req CreateOnlineRequest) (*Booking, error)
	CreateClinic(ctx context.Context, access authorize.Access, req CreateClinicRequest) (*Booking, error)
	Get(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, req ListRequest) ([]Booking, error)
	Update(ctx context.Context, access authorize.Access, id string, req UpdateRequest) (*Booking, error)
	SetStatus(ctx context.Context, access authorize.Access, id string, status Status) (*Booking, error)
	SetExaminationStatus(ctx context.Context, access authorize.Access, id string, status ExaminationStatus) (*Booking, error)
	// Cancel removes the booking permanently. Use SetStatus with
	// StatusCancelled to keep the record.
	Cancel(ctx context.Context, access authorize.Access, id string) error

	History(ctx context.Context, id string) (*HistoryResponse, error)

	GetReport(ctx context.Context, id string) (*Report, error)
	CreateReport(ctx context.Context, access authorize.Access, id string, in ReportInput) (*Report, error)
	UpdateReport(ctx context.Context, access authorize.Access, id string, in ReportInput) (*Report, error)

	IncomeByCustomer(ctx context.Context, from, to time.Time) ([]CustomerIncome, error)
}

// Gate is the permission check the service consults before writes.
type Gate interface {
	Require(ctx context.Context, access authorize.Access, object authorize.Resource, action authorize.Action) error
}

// Publisher receives booking events after a successful write. Implementations
// must not block the caller on delivery.
type Publisher interface {
	Created(ctx context.Context, b *Booking)
	StatusChanged(ctx context.Context, b *Booking, previous Status)
}

type nopPublisher struct{}

func (nopPublisher) Created(context.Context, *Booking)               {}
func (nopPublisher) StatusChanged(context.Context, *Booking, Status) {}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type Deps struct {
	Store     Store
	Gate      Gate
	Publisher Publisher
	Metrics   *observability.BookingMetrics
	Phones    *phone.Normalizer
	Location  *time.Location
	Now       func() time.Time
}

type service struct {
	store   Store
	gate    Gate
	events  Publisher
	metrics *observability.BookingMetrics
	phones  *phone.Normalizer
	loc     *time.Location
	now     func() time.Time
}

func New(d Deps) Service {
	s := &service{
		store:   d.Store,
		gate:    d.Gate,
		events:  d.Publisher,
		metrics: d.Metrics,
		phones:  d.Phones,
		loc:     d.Location,
		now:     d.Now,
	}
	if s.events == nil {
		s.events = nopPublisher{}
	}
	if s.phones == nil {
		s.phones = phone.NewNormalizer("")
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func resourceFor(t Type) authorize.Resource {
	if t == TypeOnline {
		return authorize.ResourceOnlineBooking
	}
	return authorize.ResourceClinicBooking
}

func (s *service) CreateOnline(ctx context.Context, req CreateOnlineRequest) (*Booking, error) {
	name, phoneRaw := strings.TrimSpace(req.Name), strings.TrimSpace(req.Phone)
	if name == "" || phoneRaw == "" || strings.TrimSpace(req.Date) == "" {
		return nil, ErrMissingFields
	}
	date, err := ParseAppointmentDate(req.Date, s.loc)
	if err != nil {
		return nil, err
	}
	amount := decimal.Zero
	if req.Amount != nil {
		if amount, err = checkAmount(*req.Amount); err != nil {
			return nil, err
		}
	}
	email, notes := strings.TrimSpace(req.Email), strings.TrimSpace(req.Notes)
	if err := checkContact(name, email, notes); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	b := &Booking{
		CustomerName:    name,
		CustomerPhone:   phoneRaw,
		PhoneKey:        s.phones.Key(phoneRaw),
		Email:           email,
		AppointmentDate: date,
		Type:            TypeOnline,
		AmountPaid:      amount,
		Status:          StatusPending,
		Notes:           notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return s.insert(ctx, b)
}

func (s *service) CreateClinic(ctx context.Context, access authorize.Access, req CreateClinicRequest) (*Booking, error) {
	if err := s.gate.Require(ctx, access, authorize.ResourceClinicBooking, authorize.ActionCreate); err != nil {
		return nil, err
	}
	name, phoneRaw := strings.TrimSpace(req.Name), strings.TrimSpace(req.Phone)
	if name == "" || phoneRaw == "" || strings.TrimSpace(req.Date) == "" {
		return nil, ErrMissingFields
	}
	date, err := ParseAppointmentDate(req.Date, s.loc)
	if err != nil {
		return nil, err
	}
	amount := decimal.Zero
	if req.AmountPaid != nil {
		if amount, err = checkAmount(*req.AmountPaid); err != nil {
			return nil, err
		}
	}
	visit := req.VisitType
	if visit == "" {
		visit = VisitCheckup
	}
	if !visit.Valid() {
		return nil, ErrInvalidVisitType
	}
	status := req.Status
	if status == "" {
		status = StatusConfirmed
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	email, notes := strings.TrimSpace(req.Email), strings.TrimSpace(req.Notes)
	if err := checkContact(name, email, notes); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	b := &Booking{
		CustomerName:    name,
		CustomerPhone:   phoneRaw,
		PhoneKey:        s.phones.Key(phoneRaw),
		Email:           email,
		AppointmentDate: date,
		Type:            TypeClinic,
		VisitType:       visit,
		AmountPaid:      amount,
		Status:          status,
		Notes:           notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return s.insert(ctx, b)
}

func (s *service) insert(ctx context.Context, b *Booking) (*Booking, error) {
	if err := s.store.Insert(ctx, b); err != nil {
		return nil, err
	}
	s.metrics.Created(ctx, string(b.Type))
	s.events.Created(ctx, b)
	slog.InfoContext(ctx, "booking created",
		"booking_id", b.ID, "type", b.Type, "status", b.Status)
	return b, nil
}

func (s *service) Get(ctx context.Context, id string) (*Booking, error) {
	return s.store.Get(ctx, id)
}

func (s *service) List(ctx context.Context, req ListRequest) ([]Booking, error) {
	var f Filter
	if v := strings.TrimSpace(req.Type); v != "" && v != "all" {
		t := Type(v)
		if !t.Valid() {
			return nil, ErrInvalidType
		}
		f.Type = &t
	}
	if v := strings.TrimSpace(req.Status); v != "" && v != "all" {
		st := Status(v)
		if !st.Valid() {
			return nil, ErrInvalidStatus
		}
		f.Status = &st
	}
	if v := strings.TrimSpace(req.ExaminationStatus); v != "" && v != "all" {
		var es ExaminationStatus
		switch v {
		case "unset", "none":
			es = ExamUnset
		default:
			es = ExaminationStatus(v)
			if !es.Settable() {
				return nil, ErrInvalidExaminationStatus
			}
		}
		f.ExaminationStatus = &es
	}
	if v := strings.TrimSpace(req.Date); v != "" {
		from, to, err := DayWindow(v, s.loc)
		if err != nil {
			return nil, err
		}
		f.From, f.To = from, to
	}
	return s.store.List(ctx, f)
}

func (s *service) Update(ctx context.Context, access authorize.Access, id string, req UpdateRequest) (*Booking, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Require(ctx, access, resourceFor(current.Type), authorize.ActionUpdate); err != nil {
		return nil, err
	}

	var p Patch
	if req.Name != nil {
		v := strings.TrimSpace(*req.Name)
		if v == "" {
			return nil, ErrBlankName
		}
		p.CustomerName = &v
	}
	if req.Phone != nil {
		v := strings.TrimSpace(*req.Phone)
		if v == "" {
			return nil, ErrBlankPhone
		}
		key := s.phones.Key(v)
		p.CustomerPhone, p.PhoneKey = &v, &key
	}
	if req.Email != nil {
		v := strings.TrimSpace(*req.Email)
		p.Email = &v
	}
	if req.Date != nil {
		d, err := ParseAppointmentDate(*req.Date, s.loc)
		if err != nil {
			return nil, err
		}
		p.AppointmentDate = &d
	}
	if req.AmountPaid != nil {
		amount, err := checkAmount(*req.AmountPaid)
		if err != nil {
			return nil, err
		}
		p.AmountPaid = &amount
	}
	if req.VisitType != nil {
		if !req.VisitType.Valid() {
			return nil, ErrInvalidVisitType
		}
		p.VisitType = req.VisitType
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		if !canTransition(current.Status, *req.Status) {
			return nil, ErrTransitionNotAllowed
		}
		p.Status = req.Status
	}
	if req.Notes != nil {
		v := strings.TrimSpace(*req.Notes)
		p.Notes = &v
	}
	if p.Empty() {
		return current, nil
	}
	if err := checkContact(deref(p.CustomerName), deref(p.Email), deref(p.Notes)); err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, id, p, s.now().UTC())
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "booking updated", "booking_id", id)
	if p.Status != nil && *p.Status != current.Status {
		s.statusChanged(ctx, updated, current.Status)
	}
	return updated, nil
}

func (s *service) SetStatus(ctx context.Context, access authorize.Access, id string, status Status) (*Booking, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Require(ctx, access, resourceFor(current.Type), authorize.ActionUpdate); err != nil {
		return nil, err
	}
	if !canTransition(current.Status, status) {
		return nil, ErrTransitionNotAllowed
	}

	updated, err := s.store.Update(ctx, id, Patch{Status: &status}, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.statusChanged(ctx, updated, current.Status)
	return updated, nil
}

func (s *service) statusChanged(ctx context.Context, b *Booking, previous Status) {
	s.metrics.StatusChanged(ctx, string(b.Status))
	s.events.StatusChanged(ctx, b, previous)
	slog.InfoContext(ctx, "booking status changed",
		"booking_id", b.ID, "from", previous, "status", b.Status)
}

func (s *service) SetExaminationStatus(ctx context.Context, access authorize.Access, id string, status ExaminationStatus) (*Booking, error) {
	if err := s.gate.Require(ctx, access, authorize.ResourceExamination, authorize.ActionUpdate); err != nil {
		return nil, err
	}
	if !status.Settable() {
		return nil, ErrInvalidExaminationStatus
	}
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canExamine(current.ExaminationStatus, status) {
		return nil, ErrTransitionNotAllowed
	}

	updated, err := s.store.SetExaminationStatus(ctx, id, status, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.metrics.ExaminationChanged(ctx, string(status))
	slog.InfoContext(ctx, "examination status changed",
		"booking_id", id, "from", current.ExaminationStatus.Label(), "status", status)
	return updated, nil
}

func (s *service) Cancel(ctx context.Context, access authorize.Access, id string) error {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.gate.Require(ctx, access, resourceFor(current.Type), authorize.ActionDelete); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "booking deleted", "booking_id", id, "type", current.Type)
	return nil
}

func (s *service) IncomeByCustomer(ctx context.Context, from, to time.Time) ([]CustomerIncome, error) {
	return s.store.IncomeByCustomer(ctx, from, to)
}
