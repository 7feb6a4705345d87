package schema

import (
	"context"
	"errors"
	"testing"
)

type fakeSource struct {
	cols map[string]bool
	err  error

	gotSchema, gotTable string
}

func (f *fakeSource) Columns(_ context.Context, dbSchema, table string) (map[string]bool, error) {
	f.gotSchema, f.gotTable = dbSchema, table
	return f.cols, f.err
}

func TestProber_Probe(t *testing.T) {
	src := &fakeSource{cols: map[string]bool{
		"id": true, "department": true, "stage": true,
		"semester": true, "gender": true, "phone": true,
	}}
	p := NewProber(src)

	caps, err := p.Probe(context.Background(), StudentEntity("", "students", nil))
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if src.gotSchema != "public" || src.gotTable != "students" {
		t.Errorf("probed %s.%s, want public.students", src.gotSchema, src.gotTable)
	}

	for _, a := range []Attribute{AttrSemester, AttrGender, AttrPhone} {
		if !caps.Has(a) {
			t.Errorf("Has(%s) = false, want true", a)
		}
	}
	for _, a := range []Attribute{AttrEmergencyPhone, AttrPaymentStatus, AttrRegistrationStatus} {
		if caps.Has(a) {
			t.Errorf("Has(%s) = true, want false", a)
		}
	}
	// Required attributes are never part of the capability set.
	if caps.Has(AttrDepartment) {
		t.Error("required attribute reported as capability")
	}
}

func TestProber_NoOptionalColumns(t *testing.T) {
	p := NewProber(&fakeSource{cols: map[string]bool{}})

	caps, err := p.Probe(context.Background(), StudentEntity("public", "students", nil))
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	for _, a := range StudentOptional {
		if caps.Has(a) {
			t.Errorf("Has(%s) = true on empty schema", a)
		}
	}
}

func TestProber_MetadataFailureIsFatal(t *testing.T) {
	boom := errors.New("connection refused")
	p := NewProber(&fakeSource{err: boom})

	_, err := p.Probe(context.Background(), StudentEntity("public", "students", nil))
	if !errors.Is(err, ErrProbeFailed) {
		t.Fatalf("error = %v, want ErrProbeFailed", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want underlying cause preserved", err)
	}
}

func TestProber_ColumnOverrides(t *testing.T) {
	src := &fakeSource{cols: map[string]bool{"sex": true, "mobile": true}}
	e := StudentEntity("public", "students", map[string]string{
		"gender": "sex",
		"phone":  "mobile",
	})

	caps, err := NewProber(src).Probe(context.Background(), e)
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if !caps.Has(AttrGender) || !caps.Has(AttrPhone) {
		t.Errorf("overridden columns not detected: %s", caps)
	}
	if got := caps.Column(AttrGender); got != "sex" {
		t.Errorf("Column(gender) = %q, want sex", got)
	}
}

func TestDeliveryEntity_DefaultStatusColumn(t *testing.T) {
	e := DeliveryEntity("public", "sms_deliveries", nil)
	if got := e.Column(AttrDeliveryStatus); got != "status" {
		t.Errorf("Column(delivery_status) = %q, want status", got)
	}
	if got := e.Column(AttrCampaignID); got != "campaign_id" {
		t.Errorf("Column(campaign_id) = %q", got)
	}
}

func TestCapabilitySet_Supported(t *testing.T) {
	caps := NewCapabilitySet(StudentEntity("public", "students", nil), AttrEmergencyPhone, AttrRegisteredAt)

	got := caps.Supported(AttrPhone, AttrEmergencyPhone)
	if len(got) != 1 || got[0] != AttrEmergencyPhone {
		t.Errorf("Supported() = %v", got)
	}
	if !caps.Any(PendingRegistration...) {
		t.Error("Any(PendingRegistration) = false")
	}
	if caps.String() != "students[emergency_phone,registered_at]" {
		t.Errorf("String() = %q", caps.String())
	}
}
