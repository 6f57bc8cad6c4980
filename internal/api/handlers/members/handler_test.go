package members

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SportsBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SportsBooking/internal/service/booking"
	"github.com/m04kA/SMC-SportsBooking/pkg/logger"
	"github.com/m04kA/SMC-SportsBooking/pkg/txmanager"
)

func newRouter(t *testing.T) *mux.Router {
	t.Helper()
	store := memory.NewStore()
	svc := booking.NewService(
		store.Activities(), store.Members(), store.Reservations(),
		txmanager.NoopManager{}, logger.NewNop(),
	)

	r := mux.NewRouter()
	NewHandler(svc, logger.NewNop()).Register(r.PathPrefix("/api/v1").Subrouter())
	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreate_ActiveDefaultsToTrue(t *testing.T) {
	r := newRouter(t)

	rec := do(r, http.MethodPost, "/api/v1/members", `{"name":"Ana","email":"ana@club.es"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"id":1,"name":"Ana","email":"ana@club.es","active":true}`, rec.Body.String())

	rec = do(r, http.MethodPost, "/api/v1/members", `{"name":"Luis","active":false}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":2,"name":"Luis","active":false}`, rec.Body.String())
}

func TestCreate_Invalid(t *testing.T) {
	r := newRouter(t)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/v1/members", `{"name":"  "}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/v1/members", `{"name":"Ana","email":"usuario.com"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/v1/members/validate", `{"name":"Ana","email":"a@b"}`).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/v1/members/validate", `{"name":"Ana","email":"a@b.es"}`).Code)
}

func TestUpdateGetDelete(t *testing.T) {
	r := newRouter(t)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/v1/members", `{"name":"Ana"}`).Code)

	rec := do(r, http.MethodPut, "/api/v1/members/1", `{"name":"Ana María","active":false}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(r, http.MethodGet, "/api/v1/members/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"name":"Ana María","active":false}`, rec.Body.String())

	rec = do(r, http.MethodGet, "/api/v1/members", "")
	assert.JSONEq(t, `[{"id":1,"name":"Ana María","active":false}]`, rec.Body.String())

	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/api/v1/members/1?dryRun=true", "").Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/api/v1/members/1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/members/1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/api/v1/members/1?dryRun=true", "").Code)
}
