package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ssargent/modelmarket/pkg/host"
	"github.com/ssargent/modelmarket/pkg/market"
	"github.com/ssargent/modelmarket/pkg/program"
)

// apiKeyMiddleware validates the X-API-Key header
func apiKeyMiddleware(expectedKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				sendError(w, "Missing X-API-Key header", http.StatusUnauthorized)
				return
			}
			if apiKey != expectedKey {
				sendError(w, "Invalid API key", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// sendSuccess sends a successful JSON response
func sendSuccess(w http.ResponseWriter, data interface{}) {
	sendJSON(w, http.StatusOK, APIResponse{Success: true, Data: data})
}

// sendCreated sends a 201 JSON response
func sendCreated(w http.ResponseWriter, data interface{}) {
	sendJSON(w, http.StatusCreated, APIResponse{Success: true, Data: data})
}

// sendError sends an error JSON response
func sendError(w http.ResponseWriter, message string, statusCode int) {
	sendJSON(w, statusCode, APIResponse{Success: false, Error: message})
}

// sendFailure maps err to a status code and sends it, with the program code
// when err carries one.
func sendFailure(w http.ResponseWriter, err error) {
	sendJSON(w, statusForError(err), APIResponse{
		Success: false,
		Error:   err.Error(),
		Code:    string(program.CodeOf(err)),
	})
}

func sendJSON(w http.ResponseWriter, statusCode int, response APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

func statusForError(err error) int {
	switch program.CodeOf(err) {
	case program.CodeWrongOwnerProgram, program.CodeBadStorageSize, program.CodeAlreadyInitialized:
		return http.StatusConflict
	case program.CodeNotRentExempt, program.CodeInsufficientFunds:
		return http.StatusPaymentRequired
	case program.CodeNotEnoughAccountKeys, program.CodeInvalidArgument:
		return http.StatusBadRequest
	case program.CodeMalformedRecord, program.CodeArithmeticOverflow:
		return http.StatusUnprocessableEntity
	case program.CodeInvalidRentSysvar:
		return http.StatusInternalServerError
	}

	switch {
	case errors.Is(err, host.ErrAccountNotFound), errors.Is(err, market.ErrNotInitialized):
		return http.StatusNotFound
	case errors.Is(err, host.ErrDuplicateAccount),
		errors.Is(err, host.ErrReservedAccount),
		errors.Is(err, host.ErrInvalidSpace):
		return http.StatusBadRequest
	case errors.Is(err, host.ErrBalanceOverflow):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
