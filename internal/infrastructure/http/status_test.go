package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"tokenprices-service/internal/application"
	"tokenprices-service/internal/domain"
)

func Test_writeDomainError(t *testing.T) {
	cases := []struct {
		in   error
		code int
	}{
		{domain.ErrNoTokens, http.StatusBadRequest},
		{&domain.InvalidAddressError{Address: "x"}, http.StatusBadRequest},
		{application.ErrConflict, http.StatusConflict},
		{application.ErrNotFound, http.StatusNotFound},
		{&domain.InvalidTokensError{Addresses: []string{"x"}}, http.StatusNotFound},
		{domain.ErrTransactionNotFound, http.StatusNotFound},
		{domain.ErrNoLiquidity, http.StatusUnprocessableEntity},
		{&domain.UpstreamStatusError{Provider: "birdeye", StatusCode: 500}, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		writeDomainError(rec, c.in)
		if rec.Code != c.code {
			t.Fatalf("writeDomainError(%v)=%d want %d", c.in, rec.Code, c.code)
		}
	}
}

func Test_readyz_FailingCheck(t *testing.T) {
	svc, _, _, _ := NewInMemoryService()
	srv := NewServer(svc)
	srv.SetReadyCheck(func(ctx context.Context) error { return errors.New("db down") })
	h := NewRouter(srv)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	require.JSONEq(t, `{"code":503,"message":"db not ready"}`, rec.Body.String())
}
