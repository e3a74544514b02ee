// Package api modelmarket REST API
//
// @title           modelmarket REST API
// @version         1.0.0
// @description     REST API for creating and inspecting AI model listings.
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in              header
// @name            X-API-Key
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ssargent/modelmarket/pkg/logger"
	"github.com/ssargent/modelmarket/pkg/market"
)

const shutdownTimeout = 10 * time.Second

const swaggerUI = `<!DOCTYPE html>
<html>
<head>
	 <title>modelmarket API Documentation</title>
	 <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui.css" />
</head>
<body>
	 <div id="swagger-ui"></div>
	 <script src="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui-bundle.js"></script>
	 <script>
	   window.onload = function() {
	     SwaggerUIBundle({
	       url: '/swagger/swagger.json',
	       dom_id: '#swagger-ui',
	       presets: [
	         SwaggerUIBundle.presets.apis,
	         SwaggerUIBundle.presets.standalone
	       ]
	     });
	   };
	 </script>
</body>
</html>`

// NewRouter builds the HTTP handler for the API
func NewRouter(server *Server) http.Handler {
	metrics := server.metrics

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(metrics.InstrumentAuthMiddleware(apiKeyMiddleware(server.config.APIKey)))

		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))

		r.Post("/accounts", metrics.InstrumentHandler("POST", "/api/v1/accounts", server.handleCreateAccount))
		r.Get("/accounts/{address}", metrics.InstrumentHandler("GET", "/api/v1/accounts/{address}", server.handleGetAccount))
		r.Post("/accounts/{address}/airdrop", metrics.InstrumentHandler("POST", "/api/v1/accounts/{address}/airdrop", server.handleAirdrop))

		r.Post("/listings", metrics.InstrumentHandler("POST", "/api/v1/listings", server.handleCreateListing))
		r.Get("/listings/{address}", metrics.InstrumentHandler("GET", "/api/v1/listings/{address}", server.handleGetListing))

		r.Get("/journal", metrics.InstrumentHandler("GET", "/api/v1/journal", server.handleJournal))
	})

	// Swagger documentation (unprotected)
	r.Get("/swagger/*", serveSwagger)

	return r
}

func serveSwagger(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/swagger/", "/swagger/index.html":
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerUI))
	case "/swagger/swagger.json":
		doc := swaggerDoc(r.Host)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	default:
		http.NotFound(w, r)
	}
}

// swaggerDoc renders the registered document for the host the request was
// sent to. SwaggerInfo itself is never modified.
func swaggerDoc(host string) string {
	spec := *SwaggerInfo
	if host != "" {
		spec.Host = host
	}
	return spec.ReadDoc()
}

// StartServer serves the API until ctx is canceled, then shuts down
// gracefully.
func StartServer(ctx context.Context, svc *market.Service, config ServerConfig) error {
	log := logger.NewSublogger("api")

	addr := net.JoinHostPort(config.Bind, strconv.Itoa(config.Port))

	server := NewServer(svc, config, NewMetrics())
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(server),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("Starting modelmarket REST API server")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down REST API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
