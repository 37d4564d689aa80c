package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordComplaintSubmitted(t *testing.T) {
	ComplaintsSubmittedTotal.Reset()

	RecordComplaintSubmitted("Water Supply", "Village", true)
	RecordComplaintSubmitted("Water Supply", "Village", true)
	RecordComplaintSubmitted("Roads & Infrastructure", "City", false)

	count := testutil.ToFloat64(ComplaintsSubmittedTotal.WithLabelValues("Water Supply", "Village", "routed"))
	if count != 2 {
		t.Errorf("Expected routed Water Supply count = 2, got %f", count)
	}

	count = testutil.ToFloat64(ComplaintsSubmittedTotal.WithLabelValues("Roads & Infrastructure", "City", "unrouted"))
	if count != 1 {
		t.Errorf("Expected unrouted Roads count = 1, got %f", count)
	}
}

func TestRecordOTPRequest(t *testing.T) {
	OTPRequestsTotal.Reset()

	RecordOTPRequest("sent")
	RecordOTPRequest("sent")
	RecordOTPRequest("invalid_phone")

	count := testutil.ToFloat64(OTPRequestsTotal.WithLabelValues("sent"))
	if count != 2 {
		t.Errorf("Expected sent count = 2, got %f", count)
	}
}

func TestSetOpenComplaints(t *testing.T) {
	OpenComplaints.Reset()

	SetOpenComplaints("submitted", 7)

	val := testutil.ToFloat64(OpenComplaints.WithLabelValues("submitted"))
	if val != 7 {
		t.Errorf("Expected submitted gauge = 7, got %f", val)
	}
}
