package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ssargent/modelmarket/pkg/host"
	"github.com/ssargent/modelmarket/pkg/market"
	"github.com/ssargent/modelmarket/pkg/program"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		requestHeader  string
		expectedStatus int
	}{
		{name: "valid API key", requestHeader: "test-key", expectedStatus: http.StatusOK},
		{name: "missing API key header", requestHeader: "", expectedStatus: http.StatusUnauthorized},
		{name: "invalid API key", requestHeader: "wrong-key", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler := apiKeyMiddleware("test-key")(testHandler)

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.requestHeader != "" {
				req.Header.Set("X-API-Key", tt.requestHeader)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestSendSuccess(t *testing.T) {
	w := httptest.NewRecorder()

	sendSuccess(w, map[string]string{"message": "test"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response APIResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.True(t, response.Success)
	assert.Empty(t, response.Error)
}

func TestSendFailure_CarriesProgramCode(t *testing.T) {
	w := httptest.NewRecorder()

	sendFailure(w, program.ErrAlreadyInitialized)

	assert.Equal(t, http.StatusConflict, w.Code)

	var response APIResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.False(t, response.Success)
	assert.Equal(t, "AlreadyInitialized", response.Code)
	assert.Equal(t, program.ErrAlreadyInitialized.Error(), response.Error)
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{program.ErrWrongOwnerProgram, http.StatusConflict},
		{program.ErrBadStorageSize, http.StatusConflict},
		{program.ErrAlreadyInitialized, http.StatusConflict},
		{program.ErrNotRentExempt, http.StatusPaymentRequired},
		{program.ErrInsufficientFunds, http.StatusPaymentRequired},
		{program.ErrInvalidArgument, http.StatusBadRequest},
		{program.ErrNotEnoughAccountKeys, http.StatusBadRequest},
		{program.ErrMalformedRecord, http.StatusUnprocessableEntity},
		{program.ErrArithmeticOverflow, http.StatusUnprocessableEntity},
		{program.ErrInvalidRentSysvar, http.StatusInternalServerError},
		{fmt.Errorf("load: %w", host.ErrAccountNotFound), http.StatusNotFound},
		{market.ErrNotInitialized, http.StatusNotFound},
		{host.ErrDuplicateAccount, http.StatusBadRequest},
		{host.ErrInvalidSpace, http.StatusBadRequest},
		{host.ErrBalanceOverflow, http.StatusUnprocessableEntity},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusForError(tt.err))
		})
	}
}
