package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ssargent/modelmarket/pkg/identity"
	"github.com/ssargent/modelmarket/pkg/ledger"
	"github.com/ssargent/modelmarket/pkg/market"
	"github.com/ssargent/modelmarket/pkg/storage"
)

// defaultJournalLimit caps GET /journal when no limit is given
const defaultJournalLimit = 50

// Server holds the API server state
type Server struct {
	market  *market.Service
	config  ServerConfig
	metrics *Metrics
}

// NewServer creates a new API server
func NewServer(svc *market.Service, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		market:  svc,
		config:  config,
		metrics: metrics,
	}
}

func addressParam(r *http.Request) (identity.Identity, error) {
	return identity.Parse(chi.URLParam(r, "address"))
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
//	@Security		ApiKeyAuth
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{
		"status":     "healthy",
		"program_id": s.market.ProgramID().String(),
	})
}

// handleCreateAccount godoc
//
//	@Summary		Create an account
//	@Description	Create a funded account, or an empty rent-exempt listing account owned by the program
//	@Tags			accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateAccountRequest	true	"Account parameters"
//	@Success		201		{object}	AccountResponse
//	@Failure		400		{object}	APIResponse
//	@Failure		500		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/accounts [post]
func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}

	var (
		account *ledger.Account
		err     error
	)
	if req.Listing {
		account, err = s.market.AllocateListing(r.Context())
	} else {
		owner := ledger.SystemProgramID
		if req.Owner != nil {
			owner = *req.Owner
		}
		account, err = s.market.Host().CreateAccount(r.Context(), owner, req.Space, req.Lamports)
	}
	if err != nil {
		sendFailure(w, err)
		return
	}

	s.metrics.RecordAccountCreated(account.Lamports)
	sendCreated(w, newAccountResponse(account, false))
}

// handleGetAccount godoc
//
//	@Summary		Get an account
//	@Tags			accounts
//	@Produce		json
//	@Param			address	path		string	true	"Base58 account address"
//	@Param			data	query		bool	false	"Include account data"
//	@Success		200		{object}	AccountResponse
//	@Failure		400		{object}	APIResponse
//	@Failure		404		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/accounts/{address} [get]
func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	key, err := addressParam(r)
	if err != nil {
		sendError(w, "Invalid account address", http.StatusBadRequest)
		return
	}

	account, err := s.market.Host().Account(r.Context(), key)
	if err != nil {
		sendFailure(w, err)
		return
	}

	withData, _ := strconv.ParseBool(r.URL.Query().Get("data"))
	sendSuccess(w, newAccountResponse(account, withData))
}

// handleAirdrop godoc
//
//	@Summary		Airdrop lamports
//	@Description	Credit lamports to an existing account
//	@Tags			accounts
//	@Accept			json
//	@Produce		json
//	@Param			address	path		string			true	"Base58 account address"
//	@Param			request	body		AirdropRequest	true	"Amount"
//	@Success		200		{object}	AirdropResponse
//	@Failure		400		{object}	APIResponse
//	@Failure		404		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/accounts/{address}/airdrop [post]
func (s *Server) handleAirdrop(w http.ResponseWriter, r *http.Request) {
	key, err := addressParam(r)
	if err != nil {
		sendError(w, "Invalid account address", http.StatusBadRequest)
		return
	}

	var req AirdropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}

	balance, err := s.market.Host().Airdrop(r.Context(), key, req.Lamports)
	if err != nil {
		sendFailure(w, err)
		return
	}

	s.metrics.RecordAirdrop(req.Lamports)
	sendSuccess(w, AirdropResponse{Address: key.String(), Balance: balance})
}

// handleCreateListing godoc
//
//	@Summary		Create a listing
//	@Description	Run create_listing against an allocated listing account
//	@Tags			listings
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateListingRequest	true	"Listing"
//	@Success		201		{object}	ListingResponse
//	@Failure		400		{object}	APIResponse
//	@Failure		402		{object}	APIResponse
//	@Failure		404		{object}	APIResponse
//	@Failure		409		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/listings [post]
func (s *Server) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	var req CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}

	start := time.Now()
	result, err := s.market.CreateListing(r.Context(), market.Request{
		Listing:     req.Listing,
		Payer:       req.Payer,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		File:        req.File,
	})
	s.metrics.RecordInvocation(market.OperationCreateListing, err, time.Since(start))
	if err != nil {
		sendFailure(w, err)
		return
	}

	resp := newListingResponse(req.Listing, result.Listing)
	resp.JournalID = result.JournalID
	sendCreated(w, resp)
}

// handleGetListing godoc
//
//	@Summary		Inspect a listing
//	@Tags			listings
//	@Produce		json
//	@Param			address	path		string	true	"Base58 listing address"
//	@Success		200		{object}	ListingResponse
//	@Failure		400		{object}	APIResponse
//	@Failure		404		{object}	APIResponse
//	@Failure		409		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/listings/{address} [get]
func (s *Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	key, err := addressParam(r)
	if err != nil {
		sendError(w, "Invalid listing address", http.StatusBadRequest)
		return
	}

	listing, err := s.market.Inspect(r.Context(), key)
	if err != nil {
		sendFailure(w, err)
		return
	}
	sendSuccess(w, newListingResponse(key, listing))
}

// handleJournal godoc
//
//	@Summary		Journal
//	@Description	List committed invocations, newest first
//	@Tags			journal
//	@Produce		json
//	@Param			limit	query		int	false	"Maximum entries (default 50, 0 for all)"
//	@Success		200		{object}	JournalResponse
//	@Failure		400		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/journal [get]
func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	limit := defaultJournalLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			sendError(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	entries, err := s.market.Journal(r.Context(), limit)
	if err != nil {
		sendFailure(w, err)
		return
	}
	if entries == nil {
		entries = []storage.JournalEntry{}
	}
	sendSuccess(w, JournalResponse{Entries: entries})
}
