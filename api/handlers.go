// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/katalvlaran/meshlytics/analytics"
	"github.com/katalvlaran/meshlytics/centrality"
	"github.com/katalvlaran/meshlytics/matrix"
	"github.com/katalvlaran/meshlytics/source"
	"github.com/katalvlaran/meshlytics/topology"
)

// Error kinds reported in addition to centrality's.
const (
	kindSpectrum  = "spectrum"
	kindDiscarded = "discarded"
)

type analyticsResponse struct {
	ID          string                `json:"id"`
	Algorithm   string                `json:"algorithm"`
	ComputedAt  time.Time             `json:"computed_at"`
	CapturedAt  time.Time             `json:"captured_at"`
	Fingerprint string                `json:"fingerprint"`
	Nodes       []topology.NodeID     `json:"nodes"`
	Params      centrality.Parameters `json:"params"`
	Scores      *centrality.Result    `json:"scores"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func newAnalyticsResponse(e analytics.Entry) analyticsResponse {
	return analyticsResponse{
		ID:          e.ID.String(),
		Algorithm:   centrality.DiffusionAlgorithm,
		ComputedAt:  e.ComputedAt.UTC(),
		CapturedAt:  e.Snapshot.CapturedAt().UTC(),
		Fingerprint: e.Snapshot.Fingerprint(),
		Nodes:       e.Result.Nodes(),
		Params:      e.Params,
		Scores:      e.Result,
	}
}

func (s *Server) getAnalytics(c echo.Context) error {
	e, ok := s.svc.Current()
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "no analytics computed"})
	}

	return c.JSON(http.StatusOK, newAnalyticsResponse(e))
}

func (s *Server) postAnalytics(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	doc, err := source.Decode(body, source.FormatJSON)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	snap, err := doc.Snapshot(s.spectrum)
	if err != nil {
		if errors.Is(err, matrix.ErrEigenFailed) {
			return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Kind: kindSpectrum})
		}
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	e, err := s.svc.Refresh(c.Request().Context(), snap)
	switch {
	case errors.Is(err, analytics.ErrDiscarded):
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error(), Kind: kindDiscarded})
	case err != nil:
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Kind: centrality.Kind(err)})
	}

	return c.JSON(http.StatusOK, newAnalyticsResponse(e))
}

func (s *Server) deleteAnalytics(c echo.Context) error {
	s.svc.Invalidate("api request")

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) getParameters(c echo.Context) error {
	p := s.svc.Parameters()
	if p == nil {
		p = centrality.Parameters{}
	}

	return c.JSON(http.StatusOK, p)
}

func (s *Server) putParameters(c echo.Context) error {
	var p centrality.Parameters
	if err := json.NewDecoder(c.Request().Body).Decode(&p); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid parameters body"})
	}
	if err := s.svc.SetParameters(p); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Kind: centrality.Kind(err)})
	}

	return c.JSON(http.StatusOK, s.svc.Parameters())
}
