package booking

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type LastVisit struct {
	Date       time.Time       `json:"date"`
	VisitType  VisitType       `json:"visitType,omitempty"`
	AmountPaid decimal.Decimal `json:"amountPaid"`
	Status     Status          `json:"status"`
}

type PatientHistory struct {
	TotalPastVisits int             `json:"totalPastVisits"`
	TotalAmountPaid decimal.Decimal `json:"totalAmountPaid"`
	LastVisit       *LastVisit      `json:"lastVisit"`
	PastBookings    []Booking       `json:"pastBookings"`
}

type HistoryResponse struct {
	CurrentBooking Booking        `json:"currentBooking"`
	PatientHistory PatientHistory `json:"patientHistory"`
}

// History recomputes the customer's visit history on every call.
func (s *service) History(ctx context.Context, id string) (*HistoryResponse, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	key := current.PhoneKey
	if key == "" {
		key = s.phones.Key(current.CustomerPhone)
	}

	var others []Booking
	if key != "" {
		others, err = s.store.ListByPhoneKey(ctx, key, current.ID)
		if err != nil {
			return nil, err
		}
	}
	return &HistoryResponse{
		CurrentBooking: *current,
		PatientHistory: buildHistory(*current, others),
	}, nil
}

// buildHistory summarises others (the customer's other bookings) around current.
func buildHistory(current Booking, others []Booking) PatientHistory {
	past := make([]Booking, 0, len(others))
	for _, b := range others {
		if b.ID != current.ID {
			past = append(past, b)
		}
	}
	sort.SliceStable(past, func(i, j int) bool {
		if past[i].AppointmentDate.Equal(past[j].AppointmentDate) {
			return past[i].CreatedAt.After(past[j].CreatedAt)
		}
		return past[i].AppointmentDate.After(past[j].AppointmentDate)
	})

	total := current.AmountPaid
	for _, b := range past {
		total = total.Add(b.AmountPaid)
	}

	h := PatientHistory{
		TotalPastVisits: len(past),
		TotalAmountPaid: total,
		PastBookings:    past,
	}
	if len(past) > 0 {
		last := past[0]
		h.LastVisit = &LastVisit{
			Date:       last.AppointmentDate,
			VisitType:  last.VisitType,
			AmountPaid: last.AmountPaid,
			Status:     last.Status,
		}
	}
	return h
}
