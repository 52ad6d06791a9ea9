package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseBuilderTrigger(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHTMXResponse().
		TriggerTransactionCreated("01-01-2024").
		Notice("success", "ok").
		Write(rr)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, `<div class="success">ok</div>`, rr.Body.String())

	var triggers map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(rr.Header().Get("HX-Trigger")), &triggers))
	assert.Equal(t, "01-01-2024", triggers["transaction:created"]["date"])
}

func TestErrorResponsesEscape(t *testing.T) {
	rr := httptest.NewRecorder()
	NotFoundError(`<script>"x"</script>`).Write(rr)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Empty(t, rr.Header().Get("HX-Trigger"))
	assert.Equal(t, `<div class="error">&lt;script&gt;&#34;x&#34;&lt;/script&gt;</div>`, rr.Body.String())
}

func TestResponseBuilderHeader(t *testing.T) {
	rr := httptest.NewRecorder()
	BadRequestError("nope").Header("Retry-After", "1").Write(rr)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))
}
