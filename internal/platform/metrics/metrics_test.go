package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordLLMError(t *testing.T) {
	t.Parallel()

	m := New()
	m.RecordLLMError("server", "SERVER_ERROR")
	m.RecordLLMError("server", "SERVER_ERROR")
	m.RecordLLMError("quota", "QUOTA_EXCEEDED")

	assert.InDelta(t, 2, testutil.ToFloat64(m.llmErrors.WithLabelValues("server", "SERVER_ERROR")), 0.0001)
	assert.InDelta(t, 1, testutil.ToFloat64(m.llmErrors.WithLabelValues("quota", "QUOTA_EXCEEDED")), 0.0001)
}

func TestRecordOperation(t *testing.T) {
	t.Parallel()

	m := New()
	m.RecordOperation("question_generation", "completed")
	m.RecordOperation("question_generation", "failed")
	m.RecordOperation("question_generation", "completed")

	assert.InDelta(t, 2, testutil.ToFloat64(m.operations.WithLabelValues("question_generation", "completed")), 0.0001)
	assert.InDelta(t, 1, testutil.ToFloat64(m.operations.WithLabelValues("question_generation", "failed")), 0.0001)
}

func TestIsolatedRegistries(t *testing.T) {
	t.Parallel()

	a := New()
	b := New()
	a.RecordTaskPanic()

	assert.InDelta(t, 1, testutil.ToFloat64(a.taskPanics), 0.0001)
	assert.InDelta(t, 0, testutil.ToFloat64(b.taskPanics), 0.0001)
}

func TestHandlerServesMetrics(t *testing.T) {
	t.Parallel()

	m := New()
	m.RecordOperation("feedback_analysis", "completed")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "interviewer_operations_total")
}
