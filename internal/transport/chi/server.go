package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/campushq/catalog/internal/domain"
	"github.com/campushq/catalog/internal/domain/query"
	cataloguc "github.com/campushq/catalog/internal/usecase/catalog"
	healthuc "github.com/campushq/catalog/internal/usecase/health"
	searchuc "github.com/campushq/catalog/internal/usecase/search"
	transferuc "github.com/campushq/catalog/internal/usecase/transfer"
)

// filterParamPrefix marks query parameters carrying filter selections,
// e.g. ?filter.category=Science&filter.status=available.
const filterParamPrefix = "filter."

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the catalog engine over HTTP.
type Server struct {
	catalogs      *cataloguc.Service
	search        searchuc.Evaluator
	transfers     *transferuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	catalogs *cataloguc.Service,
	search searchuc.Evaluator,
	transfers *transferuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		catalogs:  catalogs,
		search:    search,
		transfers: transfers,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrRecordNotFound, http.StatusNotFound, codeRecordNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, codeAlreadyExists),
		sentinelHandler(domain.ErrInvalidSchema, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrSimulatorClosed, http.StatusServiceUnavailable, codeUnavailable),
	}
	return s
}

// Register mounts all routes on the router.
func (s *Server) Register(r chirouter.Router) {
	r.Get("/health", s.getHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chirouter.Router) {
		r.Get("/catalogs", s.listCatalogs)
		r.Get("/catalogs/{catalog}/search", s.searchCatalog)
		r.Post("/catalogs/{catalog}/records", s.appendRecord)
		r.Put("/catalogs/{catalog}/records/{id}", s.updateRecord)

		r.Get("/transfers", s.listTransfers)
		r.Post("/transfers", s.startTransfer)
		r.Get("/transfers/{id}", s.getTransfer)
	})
}

// getHealth handles GET /health.
func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	writeJSON(w, status, map[string]any{
		"status": string(report.Status),
		"checks": checks,
	})
}

// listCatalogs handles GET /v1/catalogs.
func (s *Server) listCatalogs(w http.ResponseWriter, r *http.Request) {
	infos, err := s.catalogs.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	out := make([]catalogDTO, 0, len(infos))
	for _, info := range infos {
		out = append(out, catalogToDTO(info))
	}
	writeJSON(w, http.StatusOK, map[string]any{"catalogs": out})
}

// searchCatalog handles GET /v1/catalogs/{catalog}/search.
func (s *Server) searchCatalog(w http.ResponseWriter, r *http.Request) {
	catalogName := chirouter.URLParam(r, "catalog")

	q, err := queryFromParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	page, err := s.search.Evaluate(r.Context(), catalogName, q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pageToDTO(page))
}

// appendRecord handles POST /v1/catalogs/{catalog}/records.
func (s *Server) appendRecord(w http.ResponseWriter, r *http.Request) {
	catalogName := chirouter.URLParam(r, "catalog")

	var dto recordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	rec, err := s.catalogs.Append(r.Context(), catalogName, recordFromDTO(dto))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, recordToDTO(rec))
}

// updateRecord handles PUT /v1/catalogs/{catalog}/records/{id}.
func (s *Server) updateRecord(w http.ResponseWriter, r *http.Request) {
	catalogName := chirouter.URLParam(r, "catalog")
	id := chirouter.URLParam(r, "id")

	var dto recordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if dto.ID != "" && dto.ID != id {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Record id in body does not match URL")
		return
	}
	dto.ID = id

	if err := s.catalogs.Update(r.Context(), catalogName, recordFromDTO(dto)); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

// listTransfers handles GET /v1/transfers.
func (s *Server) listTransfers(w http.ResponseWriter, _ *http.Request) {
	transfers := s.transfers.List()
	out := make([]transferDTO, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, transferToDTO(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"transfers": out})
}

// startTransfer handles POST /v1/transfers. Starting an item that is
// already in progress or completed is a no-op returning the current state.
func (s *Server) startTransfer(w http.ResponseWriter, r *http.Request) {
	var req startTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Catalog == "" || req.ItemID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "catalog and item_id are required")
		return
	}

	if _, err := s.catalogs.GetRecord(r.Context(), req.Catalog, req.ItemID); err != nil {
		s.handleDomainError(w, err)
		return
	}

	existing, found := s.transfers.Get(req.ItemID)
	if found {
		writeJSON(w, http.StatusOK, transferToDTO(existing))
		return
	}

	t, err := s.transfers.Start(req.ItemID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, transferToDTO(t))
}

// getTransfer handles GET /v1/transfers/{id}. Unknown ids report idle.
func (s *Server) getTransfer(w http.ResponseWriter, r *http.Request) {
	id := chirouter.URLParam(r, "id")

	t, ok := s.transfers.Get(id)
	if !ok {
		writeJSON(w, http.StatusOK, idleTransferDTO(id))
		return
	}
	writeJSON(w, http.StatusOK, transferToDTO(t))
}

// queryFromParams builds a validated Query from URL parameters.
func queryFromParams(r *http.Request) (query.Query, error) {
	params := r.URL.Query()

	var page, pageSize int
	var err error
	if v := params.Get("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil {
			return query.Query{}, errors.New("page must be an integer")
		}
	}
	if v := params.Get("page_size"); v != "" {
		if pageSize, err = strconv.Atoi(v); err != nil {
			return query.Query{}, errors.New("page_size must be an integer")
		}
	}

	filters := make(map[string]string)
	for key, values := range params {
		if !strings.HasPrefix(key, filterParamPrefix) || len(values) == 0 {
			continue
		}
		filters[strings.TrimPrefix(key, filterParamPrefix)] = values[0]
	}

	return query.New(
		params.Get("q"),
		query.Match(params.Get("match")),
		filters,
		query.Sort(params.Get("sort")),
		page, pageSize,
	)
}

// handleDomainError maps domain errors to HTTP responses.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err, err.Error()) {
			return
		}
	}

	s.logger.Error("Unhandled domain error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
}

// sentinelHandler creates an errorHandler matching one sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
