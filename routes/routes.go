package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/bordanattila/NutriPal-sub000/controllers"
	"github.com/bordanattila/NutriPal-sub000/middlewares"
)

func SetupRouter(
	auth *controllers.AuthController,
	food *controllers.FoodController,
	ledger *controllers.LedgerController,
	recipe *controllers.RecipeController,
	goals *controllers.GoalController,
	realtime *controllers.RealtimeController,
) *gin.Engine {
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", auth.Register)
		authGroup.POST("/login", auth.Login)
	}

	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())
	{
		api.GET("/profile", auth.Profile)

		api.POST("/food", food.CreateFood)
		api.GET("/food/search", food.SearchFoods)
		api.GET("/food/barcode/:code", food.LookupBarcode)
		api.GET("/food/:food_id", food.GetFood)
		api.POST("/food/log", food.LogFood)
		api.DELETE("/food/log/:id", food.DeleteFood)

		api.GET("/day/:date", ledger.GetDay)

		api.PUT("/goals", goals.SetGoals)
		api.GET("/goals/progress/:date", goals.Progress)

		api.POST("/recipes", recipe.Create)
		api.GET("/recipes", recipe.List)
		api.GET("/recipes/:id", recipe.Get)
		api.POST("/recipes/:id/log", recipe.Log)

		api.GET("/ws", realtime.DayUpdates)
	}

	return r
}
