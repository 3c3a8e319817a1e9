package health

import (
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"registrar/pkg/testutil"
)

func newRouter() chi.Router {
	r := chi.NewRouter()
	New().Register(r)
	return r
}

func TestHealth(t *testing.T) {
	rr := testutil.DoRequest(newRouter(), testutil.NewRequest(t, http.MethodGet, "/api/_health"))

	testutil.AssertStatusOK(t, rr)
	assert.Equal(t, "ok", rr.Body.String())
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
}

func TestPing(t *testing.T) {
	at := time.Date(2026, 3, 14, 7, 30, 0, 0, time.UTC)
	req := testutil.WithTime(testutil.NewRequest(t, http.MethodGet, "/api/ping"), at)

	rr := testutil.DoRequest(newRouter(), req)

	testutil.AssertStatusOK(t, rr)
	resp := testutil.UnmarshalResponse[PingResponse](t, rr)
	assert.True(t, resp.OK)
	assert.Equal(t, at.UnixMilli(), resp.T)
}
