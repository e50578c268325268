package main

import (
	"go.uber.org/zap"

	"github.com/bordanattila/NutriPal-sub000/config"
	"github.com/bordanattila/NutriPal-sub000/controllers"
	"github.com/bordanattila/NutriPal-sub000/routes"
	"github.com/bordanattila/NutriPal-sub000/services"
	"github.com/bordanattila/NutriPal-sub000/store"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Load(log)
	db := config.ConnectMongo(cfg, log)

	hub := services.NewRealtimeHub()
	foodDB := services.NewFatSecretService(services.NewTokenCache())

	ledgerSvc := services.NewLedgerService(
		store.NewMongoLedgerStore(db),
		store.NewMongoEventStore(db),
		cfg.ReferenceTZ,
		hub,
		log,
	)
	foodSvc := services.NewFoodService(store.NewMongoFoodStore(db), foodDB, log)
	recipeSvc := services.NewRecipeService(store.NewMongoRecipeStore(db), ledgerSvc, log)
	authSvc := services.NewAuthService(store.NewMongoUserStore(db), log)
	goalSvc := services.NewGoalService(store.NewMongoGoalStore(db), ledgerSvc, log)

	router := routes.SetupRouter(
		controllers.NewAuthController(authSvc),
		controllers.NewFoodController(foodSvc, ledgerSvc),
		controllers.NewLedgerController(ledgerSvc),
		controllers.NewRecipeController(recipeSvc),
		controllers.NewGoalController(goalSvc),
		controllers.NewRealtimeController(hub),
	)

	log.Info("server starting", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
