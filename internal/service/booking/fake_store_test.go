package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// memStore is an in-memory Store for service tests.
type memStore struct {
	mu   sync.Mutex
	seq  int
	rows map[string]Booking
}

func newMemStore() *memStore {
	return &memStore{rows: map[string]Booking{}}
}

func (m *memStore) Insert(_ context.Context, b *Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	b.ID = fmt.Sprintf("%024x", m.seq)
	m.rows[b.ID] = *b
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (m *memStore) List(_ context.Context, f Filter) ([]Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Booking
	for _, b := range m.rows {
		if f.Type != nil && b.Type != *f.Type {
			continue
		}
		if f.Status != nil && b.Status != *f.Status {
			continue
		}
		if f.ExaminationStatus != nil && b.ExaminationStatus != *f.ExaminationStatus {
			continue
		}
		if !f.From.IsZero() && b.AppointmentDate.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !b.AppointmentDate.Before(f.To) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppointmentDate.Before(out[j].AppointmentDate) })
	return out, nil
}

func (m *memStore) Update(_ context.Context, id string, p Patch, at time.Time) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	if p.CustomerName != nil {
		b.CustomerName = *p.CustomerName
	}
	if p.CustomerPhone != nil {
		b.CustomerPhone = *p.CustomerPhone
	}
	if p.PhoneKey != nil {
		b.PhoneKey = *p.PhoneKey
	}
	if p.Email != nil {
		b.Email = *p.Email
	}
	if p.AppointmentDate != nil {
		b.AppointmentDate = *p.AppointmentDate
	}
	if p.AmountPaid != nil {
		b.AmountPaid = *p.AmountPaid
	}
	if p.VisitType != nil {
		b.VisitType = *p.VisitType
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.Notes != nil {
		b.Notes = *p.Notes
	}
	b.UpdatedAt = at
	m.rows[id] = b
	return &b, nil
}

func (m *memStore) SetExaminationStatus(_ context.Context, id string, s ExaminationStatus, at time.Time) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	b.ExaminationStatus = s
	b.UpdatedAt = at
	m.rows[id] = b
	return &b, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memStore) ListByPhoneKey(_ context.Context, key, excludeID string) ([]Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Booking
	for _, b := range m.rows {
		if b.PhoneKey == key && b.ID != excludeID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppointmentDate.After(out[j].AppointmentDate) })
	return out, nil
}

func (m *memStore) IncomeByCustomer(_ context.Context, from, to time.Time) ([]CustomerIncome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byName := map[string]CustomerIncome{}
	for _, b := range m.rows {
		if b.AppointmentDate.Before(from) || !b.AppointmentDate.Before(to) {
			continue
		}
		ci := byName[b.CustomerName]
		ci.CustomerName = b.CustomerName
		ci.Amount = ci.Amount.Add(b.AmountPaid)
		byName[b.CustomerName] = ci
	}
	out := make([]CustomerIncome, 0, len(byName))
	for _, ci := range byName {
		out = append(out, ci)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerName < out[j].CustomerName })
	return out, nil
}

func (m *memStore) CreateReport(_ context.Context, id string, r Report) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	if b.Report != nil {
		return nil, ErrReportExists
	}
	b.Report = &r
	m.rows[id] = b
	return &b, nil
}

func (m *memStore) ReplaceReport(_ context.Context, id string, r Report) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	if b.Report == nil {
		return nil, ErrReportNotFound
	}
	r.CreatedAt = b.Report.CreatedAt
	b.Report = &r
	m.rows[id] = b
	return &b, nil
}

type recordedEvent struct {
	kind     string
	id       string
	status   Status
	previous Status
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Created(_ context.Context, b *Booking) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{kind: "created", id: b.ID, status: b.Status})
}

func (p *recordingPublisher) StatusChanged(_ context.Context, b *Booking, prev Status) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{kind: "status", id: b.ID, status: b.Status, previous: prev})
}
