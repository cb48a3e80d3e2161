package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordPassPurchase(t *testing.T) {
	before := testutil.ToFloat64(PassPurchasesTotal.WithLabelValues("time"))

	RecordPassPurchase("time")

	after := testutil.ToFloat64(PassPurchasesTotal.WithLabelValues("time"))
	assert.Equal(t, before+1, after)
}

func TestRecordPassSuspension(t *testing.T) {
	before := testutil.ToFloat64(PassSuspensionsTotal)

	RecordPassSuspension()

	assert.Equal(t, before+1, testutil.ToFloat64(PassSuspensionsTotal))
}

func TestRecordPassCheckIn(t *testing.T) {
	before := testutil.ToFloat64(PassCheckInsTotal.WithLabelValues("denied"))

	RecordPassCheckIn("denied")

	assert.Equal(t, before+1, testutil.ToFloat64(PassCheckInsTotal.WithLabelValues("denied")))
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/passes", "200"))

	RecordHTTPRequest("GET", "/passes", "200", 0.05)

	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/passes", "200")))
}
