package booking

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Alijeyrad/clinicdesk_backend/pkg/authorize"
)

type ReportInput struct {
	MedicalCondition string
	Notes            string
	Medications      []Medication
}

// normalizeMedications trims every field and drops rows left entirely blank
// by the form. A dosage without a medication name is rejected.
func normalizeMedications(in []Medication) ([]Medication, error) {
	out := make([]Medication, 0, len(in))
	for _, m := range in {
		m = Medication{
			Name:      strings.TrimSpace(m.Name),
			Dosage:    strings.TrimSpace(m.Dosage),
			Frequency: strings.TrimSpace(m.Frequency),
			Notes:     strings.TrimSpace(m.Notes),
		}
		if m.Name == "" && m.Dosage == "" {
			continue
		}
		if m.Name == "" {
			return nil, ErrMedicationName
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *service) buildReport(in ReportInput) (Report, error) {
	cond := strings.TrimSpace(in.MedicalCondition)
	if cond == "" {
		return Report{}, ErrMissingCondition
	}
	meds, err := normalizeMedications(in.Medications)
	if err != nil {
		return Report{}, err
	}
	now := s.now().UTC()
	return Report{
		MedicalCondition: cond,
		Notes:            strings.TrimSpace(in.Notes),
		Medications:      meds,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

func (s *service) GetReport(ctx context.Context, id string) (*Report, error) {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Report == nil {
		return nil, ErrReportNotFound
	}
	return b.Report, nil
}

func (s *service) CreateReport(ctx context.Context, access authorize.Access, id string, in ReportInput) (*Report, error) {
	if err := s.gate.Require(ctx, access, authorize.ResourcePatientReport, authorize.ActionCreate); err != nil {
		return nil, err
	}
	r, err := s.buildReport(in)
	if err != nil {
		return nil, err
	}
	b, err := s.store.CreateReport(ctx, id, r)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "patient report created", "booking_id", id, "medications", len(r.Medications))
	return b.Report, nil
}

func (s *service) UpdateReport(ctx context.Context, access authorize.Access, id string, in ReportInput) (*Report, error) {
	if err := s.gate.Require(ctx, access, authorize.ResourcePatientReport, authorize.ActionUpdate); err != nil {
		return nil, err
	}
	r, err := s.buildReport(in)
	if err != nil {
		return nil, err
	}
	b, err := s.store.ReplaceReport(ctx, id, r)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "patient report updated", "booking_id", id, "medications", len(r.Medications))
	return b.Report, nil
}
