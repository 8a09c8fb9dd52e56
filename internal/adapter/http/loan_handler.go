package http

import (
	"io"
	"net/http"

	"loan-calculator/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

// Calculate answers POST /api/v1/loan/calculate. The body is handed to the
// usecase raw: telling a missing field from a zero one is the schema
// validator's job, so echo's Bind is not used here.
func (h *LoanHandler) Calculate(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, unreadableBody())
	}
	resp := h.uc.Respond(h.uc.Calculate(c.Request().Context(), raw))
	return c.JSON(resp.Status, resp.Body)
}

// Schedule answers POST /api/v1/loan/schedule.
func (h *LoanHandler) Schedule(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, unreadableBody())
	}
	resp := h.uc.Respond(h.uc.Schedule(c.Request().Context(), raw))
	return c.JSON(resp.Status, resp.Body)
}

func unreadableBody() loan.ErrorDTO {
	return loan.ErrorDTO{Error: loan.ErrorDetail{Code: http.StatusBadRequest, Message: "body could not be read"}}
}
