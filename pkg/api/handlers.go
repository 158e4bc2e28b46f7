package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/openpitwall/telemetry-compare-go/log"
	"github.com/openpitwall/telemetry-compare-go/pkg/model"
	"github.com/openpitwall/telemetry-compare-go/pkg/render"
)

type comparisonParams struct {
	Driver1 string `validate:"required,alpha,len=3"`
	Lap1    int    `validate:"gte=1"`
	Driver2 string `validate:"required,alpha,len=3"`
	Lap2    int    `validate:"gte=1"`
}

type dominationParams struct {
	Drivers []string `validate:"required,min=1,max=3,dive,alpha,len=3"`
	Laps    []int    `validate:"required,dive,gte=1"`
}

func (s *Server) comparisonFromRequest(r *http.Request) (*model.ComparisonResult, error) {
	params, err := parseComparisonParams(r)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(params); err != nil {
		return nil, err
	}

	ctx := r.Context()
	lap1, err := s.store.Lap(ctx, params.Driver1, params.Lap1)
	if err != nil {
		return nil, err
	}
	lap2, err := s.store.Lap(ctx, params.Driver2, params.Lap2)
	if err != nil {
		return nil, err
	}

	driverColors := s.registry.Colors([]string{params.Driver1, params.Driver2})
	return s.compare.Compare(ctx, lap1, lap2, driverColors[0], driverColors[1])
}

func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	res, err := s.comparisonFromRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleComparisonChart(w http.ResponseWriter, r *http.Request) {
	res, err := s.comparisonFromRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.Comparison(w, res); err != nil {
		s.l.Error("rendering comparison chart", log.ErrorField(err))
	}
}

func (s *Server) dominationFromRequest(r *http.Request) (*model.DominationResult, error) {
	params, err := parseDominationParams(r)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(params); err != nil {
		return nil, err
	}

	ctx := r.Context()
	laps := make([]*model.DriverTelemetry, len(params.Drivers))
	for i, driver := range params.Drivers {
		lap, err := s.store.Lap(ctx, driver, params.Laps[i])
		if err != nil {
			return nil, err
		}
		laps[i] = lap
	}
	return s.compare.CircuitDomination(ctx, laps, s.registry.Colors(params.Drivers))
}

func (s *Server) handleDomination(w http.ResponseWriter, r *http.Request) {
	res, err := s.dominationFromRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDominationChart(w http.ResponseWriter, r *http.Request) {
	res, err := s.dominationFromRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.Domination(w, res); err != nil {
		s.l.Error("rendering domination chart", log.ErrorField(err))
	}
}

func parseComparisonParams(r *http.Request) (*comparisonParams, error) {
	q := r.URL.Query()
	lap1, err := parseLap(q.Get("lap1"))
	if err != nil {
		return nil, err
	}
	lap2, err := parseLap(q.Get("lap2"))
	if err != nil {
		return nil, err
	}
	return &comparisonParams{
		Driver1: strings.ToUpper(strings.TrimSpace(q.Get("driver1"))),
		Lap1:    lap1,
		Driver2: strings.ToUpper(strings.TrimSpace(q.Get("driver2"))),
		Lap2:    lap2,
	}, nil
}

// parseDominationParams reads drivers as a comma separated list of codes;
// laps is either one value applied to all drivers or a matching list.
func parseDominationParams(r *http.Request) (*dominationParams, error) {
	q := r.URL.Query()
	drivers := splitList(q.Get("drivers"))
	for i := range drivers {
		drivers[i] = strings.ToUpper(drivers[i])
	}

	lapFields := splitList(q.Get("laps"))
	if len(lapFields) == 1 && len(drivers) > 1 {
		for len(lapFields) < len(drivers) {
			lapFields = append(lapFields, lapFields[0])
		}
	}
	if len(lapFields) != len(drivers) {
		return nil, badParam(
			fmt.Sprintf("expected %d lap values, got %d", len(drivers), len(lapFields)))
	}
	laps := make([]int, len(lapFields))
	for i, f := range lapFields {
		lap, err := parseLap(f)
		if err != nil {
			return nil, err
		}
		laps[i] = lap
	}
	return &dominationParams{Drivers: drivers, Laps: laps}, nil
}

func parseLap(value string) (int, error) {
	lap, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, badParam(fmt.Sprintf("invalid lap number %q", value))
	}
	return lap, nil
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	ret := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			ret = append(ret, trimmed)
		}
	}
	return ret
}
