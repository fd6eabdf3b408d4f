package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Alijeyrad/clinicdesk_backend/pkg/apperr"
)

const CollectionName = "bookings"

type medicationDoc struct {
	Name      string `bson:"medication_name"`
	Dosage    string `bson:"dosage"`
	Frequency string `bson:"frequency,omitempty"`
	Notes     string `bson:"notes,omitempty"`
}

type reportDoc struct {
	MedicalCondition string          `bson:"medical_condition"`
	Notes            string          `bson:"notes,omitempty"`
	Medications      []medicationDoc `bson:"medications"`
	CreatedAt        time.Time       `bson:"created_at"`
	UpdatedAt        time.Time       `bson:"updated_at"`
}

type bookingDoc struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty"`
	CustomerName      string               `bson:"customer_name"`
	CustomerPhone     string               `bson:"customer_phone"`
	PhoneKey          string               `bson:"phone_key"`
	Email             string               `bson:"email,omitempty"`
	AppointmentDate   time.Time            `bson:"appointment_date"`
	Type              string               `bson:"booking_type"`
	VisitType         string               `bson:"visit_type,omitempty"`
	AmountPaid        primitive.Decimal128 `bson:"amount_paid"`
	Status            string               `bson:"status"`
	ExaminationStatus string               `bson:"examination_status,omitempty"`
	Notes             string               `bson:"notes,omitempty"`
	Report            *reportDoc           `bson:"report,omitempty"`
	CreatedAt         time.Time            `bson:"created_at"`
	UpdatedAt         time.Time            `bson:"updated_at"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

func fromDecimal128(d primitive.Decimal128) decimal.Decimal {
	v, err := decimal.NewFromString(d.String())
	if err != nil {
		return decimal.Zero
	}
	return v
}

func toReportDoc(r *Report) *reportDoc {
	if r == nil {
		return nil
	}
	meds := make([]medicationDoc, 0, len(r.Medications))
	for _, m := range r.Medications {
		meds = append(meds, medicationDoc(m))
	}
	return &reportDoc{
		MedicalCondition: r.MedicalCondition,
		Notes:            r.Notes,
		Medications:      meds,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func (d *reportDoc) toReport() *Report {
	if d == nil {
		return nil
	}
	meds := make([]Medication, 0, len(d.Medications))
	for _, m := range d.Medications {
		meds = append(meds, Medication(m))
	}
	return &Report{
		MedicalCondition: d.MedicalCondition,
		Notes:            d.Notes,
		Medications:      meds,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func (d *bookingDoc) toBooking() Booking {
	return Booking{
		ID:                d.ID.Hex(),
		CustomerName:      d.CustomerName,
		CustomerPhone:     d.CustomerPhone,
		PhoneKey:          d.PhoneKey,
		Email:             d.Email,
		AppointmentDate:   d.AppointmentDate,
		Type:              Type(d.Type),
		VisitType:         VisitType(d.VisitType),
		AmountPaid:        fromDecimal128(d.AmountPaid),
		Status:            Status(d.Status),
		ExaminationStatus: ExaminationStatus(d.ExaminationStatus),
		Notes:             d.Notes,
		Report:            d.Report.toReport(),
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

// ---------------------------------------------------------------------------
// Store implementation
// ---------------------------------------------------------------------------

type mongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{coll: db.Collection(CollectionName)}
}

// EnsureIndexes creates the indexes the store queries rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(CollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "phone_key", Value: 1}, {Key: "appointment_date", Value: -1}},
			Options: options.Index().SetName("phone_key_date")},
		{Keys: bson.D{{Key: "appointment_date", Value: 1}},
			Options: options.Index().SetName("appointment_date")},
		{Keys: bson.D{{Key: "booking_type", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("type_status")},
	})
	if err != nil {
		return apperr.Store("create booking indexes", err)
	}
	return nil
}

// objectID maps malformed ids to ErrNotFound; they can never match a document.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

func (s *mongoStore) Insert(ctx context.Context, b *Booking) error {
	amount, err := toDecimal128(b.AmountPaid)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAmountTooLarge, err)
	}
	doc := bookingDoc{
		ID:                primitive.NewObjectID(),
		CustomerName:      b.CustomerName,
		CustomerPhone:     b.CustomerPhone,
		PhoneKey:          b.PhoneKey,
		Email:             b.Email,
		AppointmentDate:   b.AppointmentDate,
		Type:              string(b.Type),
		VisitType:         string(b.VisitType),
		AmountPaid:        amount,
		Status:            string(b.Status),
		ExaminationStatus: string(b.ExaminationStatus),
		Notes:             b.Notes,
		Report:            toReportDoc(b.Report),
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return apperr.Store("insert booking", err)
	}
	b.ID = doc.ID.Hex()
	return nil
}

func (s *mongoStore) Get(ctx context.Context, id string) (*Booking, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc bookingDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, apperr.Store("get booking", err)
	}
	b := doc.toBooking()
	return &b, nil
}

func (s *mongoStore) find(ctx context.Context, op string, filter any, opts *options.FindOptions) ([]Booking, error) {
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Store(op, err)
	}
	var docs []bookingDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, apperr.Store(op, err)
	}
	out := make([]Booking, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toBooking())
	}
	return out, nil
}

func (s *mongoStore) List(ctx context.Context, f Filter) ([]Booking, error) {
	filter, order := listFilter(f)
	opts := options.Find().SetSort(bson.D{
		{Key: "appointment_date", Value: order},
		{Key: "created_at", Value: order},
	})
	return s.find(ctx, "list bookings", filter, opts)
}

// listFilter builds the find filter for f and the sort direction: a day view
// reads in schedule order (1), everything else newest first (-1).
func listFilter(f Filter) (bson.M, int) {
	filter := bson.M{}
	if f.Type != nil {
		filter["booking_type"] = string(*f.Type)
	}
	if f.Status != nil {
		filter["status"] = string(*f.Status)
	}
	if f.ExaminationStatus != nil {
		if *f.ExaminationStatus == ExamUnset {
			filter["examination_status"] = bson.M{"$exists": false}
		} else {
			filter["examination_status"] = string(*f.ExaminationStatus)
		}
	}

	order := -1
	if !f.From.IsZero() || !f.To.IsZero() {
		window := bson.M{}
		if !f.From.IsZero() {
			window["$gte"] = f.From
		}
		if !f.To.IsZero() {
			window["$lt"] = f.To
		}
		filter["appointment_date"] = window
		order = 1
	}
	return filter, order
}

func (s *mongoStore) findAndSet(ctx context.Context, op string, filter bson.M, set bson.M) (*Booking, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc bookingDoc
	err := s.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, apperr.Store(op, err)
	}
	b := doc.toBooking()
	return &b, nil
}

func (s *mongoStore) Update(ctx context.Context, id string, p Patch, at time.Time) (*Booking, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	set := bson.M{"updated_at": at}
	if p.CustomerName != nil {
		set["customer_name"] = *p.CustomerName
	}
	if p.CustomerPhone != nil {
		set["customer_phone"] = *p.CustomerPhone
	}
	if p.PhoneKey != nil {
		set["phone_key"] = *p.PhoneKey
	}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	if p.AppointmentDate != nil {
		set["appointment_date"] = *p.AppointmentDate
	}
	if p.AmountPaid != nil {
		amount, err := toDecimal128(*p.AmountPaid)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAmountTooLarge, err)
		}
		set["amount_paid"] = amount
	}
	if p.VisitType != nil {
		set["visit_type"] = string(*p.VisitType)
	}
	if p.Status != nil {
		set["status"] = string(*p.Status)
	}
	if p.Notes != nil {
		set["notes"] = *p.Notes
	}
	return s.findAndSet(ctx, "update booking", bson.M{"_id": oid}, set)
}

func (s *mongoStore) SetExaminationStatus(ctx context.Context, id string, es ExaminationStatus, at time.Time) (*Booking, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return s.findAndSet(ctx, "set examination status", bson.M{"_id": oid},
		bson.M{"examination_status": string(es), "updated_at": at})
}

func (s *mongoStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return apperr.Store("delete booking", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoStore) ListByPhoneKey(ctx context.Context, phoneKey, excludeID string) ([]Booking, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "appointment_date", Value: -1},
		{Key: "created_at", Value: -1},
	})
	return s.find(ctx, "list bookings by phone", phoneFilter(phoneKey, excludeID), opts)
}

// phoneFilter matches bookings under phoneKey. A malformed excludeID excludes
// nothing since it cannot name a stored booking.
func phoneFilter(phoneKey, excludeID string) bson.M {
	filter := bson.M{"phone_key": phoneKey}
	if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
		filter["_id"] = bson.M{"$ne": oid}
	}
	return filter
}

func (s *mongoStore) IncomeByCustomer(ctx context.Context, from, to time.Time) ([]CustomerIncome, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"appointment_date": bson.M{"$gte": from, "$lt": to}}}},
		{{Key: "$group", Value: bson.M{"_id": "$customer_name", "amount": bson.M{"$sum": "$amount_paid"}}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Store("aggregate booking income", err)
	}
	var rows []struct {
		Name   string               `bson:"_id"`
		Amount primitive.Decimal128 `bson:"amount"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, apperr.Store("aggregate booking income", err)
	}
	out := make([]CustomerIncome, 0, len(rows))
	for _, r := range rows {
		out = append(out, CustomerIncome{CustomerName: r.Name, Amount: fromDecimal128(r.Amount)})
	}
	return out, nil
}

func (s *mongoStore) CreateReport(ctx context.Context, id string, r Report) (*Booking, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"_id": oid, "report": bson.M{"$exists": false}}
	b, err := s.findAndSet(ctx, "create report", filter,
		bson.M{"report": toReportDoc(&r), "updated_at": r.UpdatedAt})
	if errors.Is(err, ErrNotFound) {
		return nil, s.missingReason(ctx, oid, ErrReportExists)
	}
	return b, err
}

// ReplaceReport keeps the original report creation time.
func (s *mongoStore) ReplaceReport(ctx context.Context, id string, r Report) (*Booking, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	doc := toReportDoc(&r)
	filter := bson.M{"_id": oid, "report": bson.M{"$exists": true}}
	b, err := s.findAndSet(ctx, "update report", filter, bson.M{
		"report.medical_condition": doc.MedicalCondition,
		"report.notes":             doc.Notes,
		"report.medications":       doc.Medications,
		"report.updated_at":        doc.UpdatedAt,
		"updated_at":               doc.UpdatedAt,
	})
	if errors.Is(err, ErrNotFound) {
		return nil, s.missingReason(ctx, oid, ErrReportNotFound)
	}
	return b, err
}

// missingReason tells a missing booking apart from a report precondition
// that did not hold.
func (s *mongoStore) missingReason(ctx context.Context, oid primitive.ObjectID, precondition error) error {
	n, err := s.coll.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return apperr.Store("count bookings", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return precondition
}
