package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeOnline Type = "online"
	TypeClinic Type = "clinic"
)

func (t Type) Valid() bool { return t == TypeOnline || t == TypeClinic }

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusRejected  Status = "rejected"
)

var AllStatuses = []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusRejected}

func (s Status) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type VisitType string

const (
	VisitCheckup  VisitType = "checkup"
	VisitFollowup VisitType = "followup"
)

func (v VisitType) Valid() bool { return v == VisitCheckup || v == VisitFollowup }

// ExaminationStatus is empty until the doctor's workflow starts.
type ExaminationStatus string

const (
	ExamUnset   ExaminationStatus = ""
	ExamWaiting ExaminationStatus = "waiting"
	ExamDone    ExaminationStatus = "done"
)

// Settable reports whether s may be written. Unset is only ever the initial state.
func (s ExaminationStatus) Settable() bool { return s == ExamWaiting || s == ExamDone }

// Label is what dashboards show for the examination badge.
func (s ExaminationStatus) Label() string {
	if s == ExamUnset {
		return "not set"
	}
	return string(s)
}

type Booking struct {
	ID                string            `json:"id"`
	CustomerName      string            `json:"customerName"`
	CustomerPhone     string            `json:"customerPhone"`
	PhoneKey          string            `json:"-"`
	Email             string            `json:"email,omitempty"`
	AppointmentDate   time.Time         `json:"appointmentDate"`
	Type              Type              `json:"bookingType"`
	VisitType         VisitType         `json:"visitType,omitempty"`
	AmountPaid        decimal.Decimal   `json:"amountPaid"`
	Status            Status            `json:"status"`
	ExaminationStatus ExaminationStatus `json:"examinationStatus,omitempty"`
	Notes             string            `json:"notes,omitempty"`
	Report            *Report           `json:"report"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

type Medication struct {
	Name      string `json:"medicationName"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type Report struct {
	MedicalCondition string       `json:"medicalCondition"`
	Notes            string       `json:"notes,omitempty"`
	Medications      []Medication `json:"medications"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// CustomerIncome is the paid total of one customer inside a window.
type CustomerIncome struct {
	CustomerName string          `json:"customerName"`
	Amount       decimal.Decimal `json:"amount"`
}

// Filter narrows List. Nil fields match everything; a zero window matches
// every appointment date.
type Filter struct {
	Type              *Type
	Status            *Status
	ExaminationStatus *ExaminationStatus
	From, To          time.Time // [From, To)
}

// Patch is a partial update applied atomically. Nil fields are left alone.
type Patch struct {
	CustomerName    *string
	CustomerPhone   *string
	PhoneKey        *string
	Email           *string
	AppointmentDate *time.Time
	AmountPaid      *decimal.Decimal
	VisitType       *VisitType
	Status          *Status
	Notes           *string
}

func (p Patch) Empty() bool {
	return p.CustomerName == nil && p.CustomerPhone == nil && p.Email == nil &&
		p.AppointmentDate == nil && p.AmountPaid == nil && p.VisitType == nil &&
		p.Status == nil && p.Notes == nil
}
