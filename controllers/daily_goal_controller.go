package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bordanattila/NutriPal-sub000/services"
)

type GoalController struct {
	Goals *services.GoalService
}

func NewGoalController(goals *services.GoalService) *GoalController {
	return &GoalController{Goals: goals}
}

type SetGoalsRequest struct {
	Targets NutritionPayload `json:"targets"`
}

func (gc *GoalController) SetGoals(c *gin.Context) {
	var req SetGoalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal, err := gc.Goals.SetGoals(c.Request.Context(), currentUserID(c), req.Targets.toModel())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

// Progress scores one day's totals against the stored targets.
func (gc *GoalController) Progress(c *gin.Context) {
	progress, err := gc.Goals.Progress(c.Request.Context(), currentUserID(c), c.Param("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}
