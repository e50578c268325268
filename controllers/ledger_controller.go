package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bordanattila/NutriPal-sub000/services"
)

type LedgerController struct {
	Ledger *services.LedgerService
}

func NewLedgerController(ledger *services.LedgerService) *LedgerController {
	return &LedgerController{Ledger: ledger}
}

// GetDay returns the day's events grouped by meal. A day with no ledger is a
// normal empty response, not a 404.
func (lc *LedgerController) GetDay(c *gin.Context) {
	day, err := lc.Ledger.Day(c.Request.Context(), currentUserID(c), c.Param("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}
