package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/couchcryptid/flight-risk-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type batchResponse struct {
	Results []domain.Report `json:"results"`
}

type factorInfo struct {
	Name        domain.Factor              `json:"name"`
	Weight      float64                    `json:"weight"`
	Description string                     `json:"description"`
	Universe    [2]float64                 `json:"universe"`
	Sets        map[string]domain.Triangle `json:"sets"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, map[string]string{"message": "Flight Risk Assessment API is running"})
}

func (s *Server) handleCalculateRisk(w http.ResponseWriter, r *http.Request) {
	var req assessRequest
	if !s.decode(w, r, &req) {
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	report, err := s.svc.Process(ctx, req.reading())
	if err != nil {
		s.fail(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, report)
}

func (s *Server) handleCalculateRiskBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !s.decode(w, r, &req) {
		return
	}

	readings := make([]domain.Reading, len(req.Readings))
	for i, rr := range req.Readings {
		readings[i] = rr.reading()
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	reports, err := s.svc.ProcessBatch(ctx, readings)
	if err != nil {
		s.fail(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, batchResponse{Results: reports})
}

func (s *Server) handleFactors(w http.ResponseWriter, _ *http.Request) {
	entries := s.svc.Registry().Entries()
	out := make([]factorInfo, 0, len(entries))
	for _, e := range entries {
		lo, hi := e.Model.Universe()
		out = append(out, factorInfo{
			Name:        e.Model.Name,
			Weight:      e.Weight,
			Description: e.Description,
			Universe:    [2]float64{lo, hi},
			Sets: map[string]domain.Triangle{
				"low":    e.Model.Low,
				"medium": e.Model.Medium,
				"high":   e.Model.High,
			},
		})
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{"factors": out})
}

// decode reads and validates a JSON body, writing the error response itself.
// Malformed JSON is a 400, a too-large batch a 413, failed validation a 422.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		s.reject(w, http.StatusBadRequest, "malformed", fmt.Sprintf("invalid request body: %v", err))
		return false
	}

	if batch, ok := dst.(*batchRequest); ok && s.opts.MaxBatchSize > 0 && len(batch.Readings) > s.opts.MaxBatchSize {
		s.reject(w, http.StatusRequestEntityTooLarge, "too_large",
			fmt.Sprintf("batch of %d readings exceeds limit of %d", len(batch.Readings), s.opts.MaxBatchSize))
		return false
	}

	if err := s.validate.Struct(dst); err != nil {
		s.reject(w, http.StatusUnprocessableEntity, "invalid", validationMessage(err))
		return false
	}
	return true
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.opts.RequestTimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), s.opts.RequestTimeout)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.reject(w, http.StatusServiceUnavailable, "timeout", "assessment timed out")
		return
	}
	s.logger.Error("assessment failed", "error", err)
	s.reject(w, http.StatusInternalServerError, "internal", err.Error())
}

func (s *Server) reject(w http.ResponseWriter, status int, reason, msg string) {
	s.metrics.RequestErrors.WithLabelValues(reason).Inc()
	sharedobs.WriteJSON(w, status, errorResponse{Error: msg})
}
