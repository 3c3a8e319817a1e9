package httpapi

import (
	"net/http"
	"testing"

	"registrar/pkg/testutil"
)

func TestRouterScenario(t *testing.T) {
	testutil.Given(t, "the HTTP router", func(t *testing.T) {
		router, _ := newTestRouter(t)

		testutil.When(t, "calling GET /api/ping", func(t *testing.T) {
			rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/ping"))

			testutil.Then(t, "it should answer ok with a timestamp", func(t *testing.T) {
				testutil.AssertStatusOK(t, rec)
				testutil.AssertJSONContains(t, rec, "ok", true)
				testutil.AssertJSONHasKey(t, rec, "t")
			})
		})

		testutil.When(t, "calling POST /api/_health", func(t *testing.T) {
			rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/api/_health"))

			testutil.Then(t, "it should respond with method not allowed", func(t *testing.T) {
				testutil.AssertStatusAndError(t, rec, http.StatusMethodNotAllowed, "Metode nav atļauta")
			})
		})
	})
}
