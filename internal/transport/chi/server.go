package chi

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/propquery/internal/domain"
	domprop "github.com/kailas-cloud/propquery/internal/domain/property"
	"github.com/kailas-cloud/propquery/internal/logger"
	"github.com/kailas-cloud/propquery/internal/usecase/compile"
	healthuc "github.com/kailas-cloud/propquery/internal/usecase/health"
	propertyuc "github.com/kailas-cloud/propquery/internal/usecase/property"
	"github.com/kailas-cloud/propquery/internal/version"
)

const defaultMaxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the propquery HTTP API.
type Server struct {
	compile       *compile.Service
	properties    *propertyuc.Service
	health        *healthuc.Service
	maxBodyBytes  int64
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	compiler *compile.Service,
	properties *propertyuc.Service,
	health *healthuc.Service,
) *Server {
	s := &Server{
		compile:      compiler,
		properties:   properties,
		health:       health,
		maxBodyBytes: defaultMaxBodyBytes,
	}
	s.errorHandlers = []errorHandler{
		unresolvedPropertyHandler,
		sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodePropertyNotFound),
	}
	return s
}

// WithMaxBodyBytes limits request body size.
func (s *Server) WithMaxBodyBytes(n int64) *Server {
	if n > 0 {
		s.maxBodyBytes = n
	}
	return s
}

// Mount registers the API routes on r.
func (s *Server) Mount(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Post("/queries/compile", s.CompileQuery)
	r.Route("/properties", func(r chi.Router) {
		r.Get("/", s.ListProperties)
		r.Get("/{name}", s.GetProperty)
		r.Put("/{name}", s.PutProperty)
		r.Delete("/{name}", s.DeleteProperty)
	})
}

// CompileQuery handles POST /queries/compile.
func (s *Server) CompileQuery(w http.ResponseWriter, r *http.Request) {
	var req CompileRequest
	if !s.decode(w, r, &req) {
		return
	}

	ctx := logger.With(r.Context(), zap.Int("clauses", len(req.Clauses)))
	res, err := s.compile.Compile(ctx, req.toDomain())
	if err != nil {
		s.handleDomainError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, CompileResponse{ID: res.ID, Query: res.JSON})
}

// ListProperties handles GET /properties.
func (s *Server) ListProperties(w http.ResponseWriter, r *http.Request) {
	c, err := s.properties.List(r.Context())
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}

	names := c.Names()
	items := make([]PropertyResponse, 0, len(names))
	for _, name := range names {
		d, _ := c.Lookup(name)
		items = append(items, propertyToResponse(name, d))
	}
	writeJSON(w, http.StatusOK, PropertyListResponse{Items: items, Total: len(items)})
}

// GetProperty handles GET /properties/{name}.
func (s *Server) GetProperty(w http.ResponseWriter, r *http.Request) {
	ctx, name := propertyContext(r)
	d, err := s.properties.Get(ctx, name)
	if err != nil {
		s.handleDomainError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, propertyToResponse(name, d))
}

// PutProperty handles PUT /properties/{name}.
func (s *Server) PutProperty(w http.ResponseWriter, r *http.Request) {
	var req PropertyRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.ID == nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "id is required")
		return
	}

	ctx, name := propertyContext(r)
	d, err := s.properties.Register(ctx, name, *req.ID, req.Type)
	if err != nil {
		s.handleDomainError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, propertyToResponse(name, d))
}

// DeleteProperty handles DELETE /properties/{name}.
func (s *Server) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	ctx, name := propertyContext(r)
	if err := s.properties.Delete(ctx, name); err != nil {
		s.handleDomainError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:     string(report.Status),
		Checks:     checks,
		Properties: report.Properties,
		Build:      version.Get(),
	})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	// Bounds and values keep their literal text; float64 would round integers above 2^53.
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// propertyContext reads the {name} URL parameter and tags the request logger with it.
func propertyContext(r *http.Request) (context.Context, string) {
	name := chi.URLParam(r, "name")
	return logger.With(r.Context(), zap.String("property", name)), name
}

func propertyToResponse(name string, d domprop.Descriptor) PropertyResponse {
	return PropertyResponse{Name: name, ID: d.ID, Type: d.Type, Field: d.Field()}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

// unresolvedPropertyHandler reports which property failed to map to a backend field.
func unresolvedPropertyHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrUnresolvedProperty) {
		return false
	}
	resp := ErrorResponse{Code: ErrorCodeUnresolvedProperty, Message: err.Error()}
	var re *domain.ResolutionError
	if errors.As(err, &re) {
		resp.Property = re.Property
	}
	writeJSON(w, http.StatusUnprocessableEntity, resp)
	return true
}

// handleDomainError logs through the request logger placed in the context by WideEvent.
func (s *Server) handleDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	log := logger.FromContext(ctx)
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
