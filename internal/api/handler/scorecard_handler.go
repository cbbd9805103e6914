package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/uhndata/delirium-scorecard/internal/core/ports"
)

// ScorecardHandler serves the read-only dashboard datasets.
type ScorecardHandler struct {
	scorecard ports.ScorecardService
}

func NewScorecardHandler(scorecard ports.ScorecardService) *ScorecardHandler {
	return &ScorecardHandler{scorecard: scorecard}
}

// Rates returns the per-ward quarterly delirium rates.
//
// @Summary      Delirium rates
// @Tags         scorecard
// @Produce      json
// @Success      200  {array}  domain.DeliriumRate
// @Router       /rates [get]
func (h *ScorecardHandler) Rates(c echo.Context) error {
	rates, err := h.scorecard.DeliriumRates(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rates)
}

// TimeTrends returns the GIM-versus-other-wards series.
//
// @Summary      Time trends
// @Tags         scorecard
// @Produce      json
// @Success      200  {array}  domain.TimeSeriesPoint
// @Router       /time-trends [get]
func (h *ScorecardHandler) TimeTrends(c echo.Context) error {
	points, err := h.scorecard.TimeTrends(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, points)
}

// Demographics returns the demographics table for the most recent quarter.
//
// @Summary      Patient demographics
// @Tags         scorecard
// @Produce      json
// @Success      200  {object}  domain.PatientDemographics
// @Router       /demographics [get]
func (h *ScorecardHandler) Demographics(c echo.Context) error {
	demographics, err := h.scorecard.Demographics(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, demographics)
}
