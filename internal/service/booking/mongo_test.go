package booking

import (
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestListFilter(t *testing.T) {
	clinic, confirmed := TypeClinic, StatusConfirmed
	unset, waiting := ExamUnset, ExamWaiting
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	next := day.AddDate(0, 0, 1)

	tests := []struct {
		name      string
		f         Filter
		want      bson.M
		wantOrder int
	}{
		{
			name:      "no filter lists newest first",
			f:         Filter{},
			want:      bson.M{},
			wantOrder: -1,
		},
		{
			name:      "type and status",
			f:         Filter{Type: &clinic, Status: &confirmed},
			want:      bson.M{"booking_type": "clinic", "status": "confirmed"},
			wantOrder: -1,
		},
		{
			name:      "examination unset matches missing field",
			f:         Filter{ExaminationStatus: &unset},
			want:      bson.M{"examination_status": bson.M{"$exists": false}},
			wantOrder: -1,
		},
		{
			name:      "examination waiting",
			f:         Filter{ExaminationStatus: &waiting},
			want:      bson.M{"examination_status": "waiting"},
			wantOrder: -1,
		},
		{
			name:      "day window in schedule order",
			f:         Filter{From: day, To: next},
			want:      bson.M{"appointment_date": bson.M{"$gte": day, "$lt": next}},
			wantOrder: 1,
		},
		{
			name:      "open-ended window",
			f:         Filter{From: day},
			want:      bson.M{"appointment_date": bson.M{"$gte": day}},
			wantOrder: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, order := listFilter(tt.f)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("filter = %v, want %v", got, tt.want)
			}
			if order != tt.wantOrder {
				t.Errorf("order = %d, want %d", order, tt.wantOrder)
			}
		})
	}
}

func TestPhoneFilter(t *testing.T) {
	oid := primitive.NewObjectID()

	tests := []struct {
		name      string
		excludeID string
		want      bson.M
	}{
		{"excludes current booking", oid.Hex(), bson.M{"phone_key": "+201001234567", "_id": bson.M{"$ne": oid}}},
		{"no exclusion", "", bson.M{"phone_key": "+201001234567"}},
		{"malformed id excludes nothing", "not-an-id", bson.M{"phone_key": "+201001234567"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := phoneFilter("+201001234567", tt.excludeID); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("filter = %v, want %v", got, tt.want)
			}
		})
	}
}
