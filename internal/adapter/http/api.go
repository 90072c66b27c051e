package http

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/couchcryptid/fuel-vcf-service/internal/correction"
	"github.com/couchcryptid/fuel-vcf-service/internal/domain"
	"github.com/couchcryptid/fuel-vcf-service/internal/fuel"
	"github.com/couchcryptid/fuel-vcf-service/internal/observability"
	"github.com/couchcryptid/fuel-vcf-service/internal/units"
	"github.com/couchcryptid/fuel-vcf-service/internal/vcf"
)

const maxBodyBytes = 1 << 20

// VCFCalculator computes a rounded VCF result.
type VCFCalculator interface {
	Compute(rho15, tempC float64) (vcf.Result, error)
}

// Corrector runs one auto-correction.
type Corrector interface {
	AutoCorrect(req correction.Request) (correction.Result, error)
}

// UnitConverter converts a quantity between two units.
type UnitConverter interface {
	Convert(value float64, from, to units.Unit) (float64, error)
}

// FuelCatalog lists the known fuels.
type FuelCatalog interface {
	Fuels() []fuel.Fuel
}

// API bundles the engine collaborators behind the /v1 routes.
type API struct {
	Calculator VCFCalculator
	Corrector  Corrector
	Units      UnitConverter
	Fuels      FuelCatalog
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type convertResponse struct {
	Value  float64    `json:"value"`
	From   units.Unit `json:"from"`
	To     units.Unit `json:"to"`
	Result float64    `json:"result"`
}

func (s *Server) handleVCF(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rho15, err := floatParam(q.Get("rho15"), "rho15")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tempC, err := floatParam(q.Get("temp_c"), "temp_c")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.api.Calculator.Compute(rho15, tempC)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCorrect(w http.ResponseWriter, r *http.Request) {
	var req correction.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", domain.ErrMalformedRequest, err))
		return
	}
	req.Fuel = strings.TrimSpace(req.Fuel)

	res, err := s.api.Corrector.AutoCorrect(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.Corrections.WithLabelValues(string(res.Mode), string(res.Table)).Inc()
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	value, err := floatParam(q.Get("value"), "value")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	from, to := units.Unit(q.Get("from")), units.Unit(q.Get("to"))
	if from == "" || to == "" {
		s.writeError(w, r, &correction.MissingInputError{Field: "from/to", Reason: "both units are required"})
		return
	}

	result, err := s.api.Units.Convert(value, from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convertResponse{Value: value, From: from, To: to, Result: result})
}

func (s *Server) handleFuels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]fuel.Fuel{"fuels": s.api.Fuels.Fuels()})
}

// writeError maps a correction failure to a status code and error body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.ErrorKind(err)
	status := http.StatusBadRequest
	switch kind {
	case domain.KindUnknownFuel:
		status = http.StatusNotFound
	case domain.KindInternal:
		status = http.StatusInternalServerError
		observability.RequestLogger(r.Context(), s.logger).Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}

func floatParam(raw, name string) (float64, error) {
	if raw == "" {
		return 0, &correction.MissingInputError{Field: name, Reason: "query parameter is required"}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", domain.ErrMalformedRequest, name, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &correction.MissingInputError{Field: name, Reason: "must be a finite number"}
	}
	return v, nil
}
