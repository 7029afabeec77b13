package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordLogin(t *testing.T) {
	before := testutil.ToFloat64(loginsTotal.WithLabelValues(OutcomeInvalidCredentials))

	RecordLogin(OutcomeInvalidCredentials)
	RecordLogin(OutcomeInvalidCredentials)

	after := testutil.ToFloat64(loginsTotal.WithLabelValues(OutcomeInvalidCredentials))
	assert.Equal(t, before+2, after)
}

func TestRecordRegistration(t *testing.T) {
	before := testutil.ToFloat64(registrationsTotal.WithLabelValues(OutcomeDuplicate))

	RecordRegistration(OutcomeDuplicate)

	after := testutil.ToFloat64(registrationsTotal.WithLabelValues(OutcomeDuplicate))
	assert.Equal(t, before+1, after)
}

func TestMiddlewareRecordsRequests(t *testing.T) {
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/healthz", "418"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusTeapot, rr.Code)
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/healthz", "418"))
	assert.Equal(t, before+1, after)
}
