package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/plantora/plant-shop-backend/internal/classifier"
	"github.com/plantora/plant-shop-backend/internal/config"
	"github.com/plantora/plant-shop-backend/internal/database"
	"github.com/plantora/plant-shop-backend/internal/handler"
	"github.com/plantora/plant-shop-backend/internal/queue"
	"github.com/plantora/plant-shop-backend/internal/repository"
	"github.com/plantora/plant-shop-backend/internal/router"
	audit "github.com/plantora/plant-shop-backend/internal/service"
	"github.com/plantora/plant-shop-backend/internal/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	accounts := repository.NewAccountRepo(db)
	admins := repository.NewAdminRepo(db)
	orders := repository.NewOrderRepo(db)
	logs := repository.NewSignInLogRepo(db)

	// Bootstrap invariant: exactly one default administrator exists after
	// start.  A raced duplicate insert from another replica is fine.
	hash, err := utils.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}
	if err := admins.EnsureDefault(ctx, cfg.AdminUsername, hash); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}

	recorder := audit.NewRecorder(logs)
	go func() {
		if err := queue.StartSignInConsumer(logs); err != nil {
			log.Printf("signin consumer stopped: %v", err)
		}
	}()

	cl := classifier.New(cfg.ClassifierURL, cfg.ClassifierTimeoutSec)

	e := echo.New()
	e.HideBanner = true
	// Panics are recovered and logged; the process keeps serving.
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORS())

	router.Register(e, cfg, rdb, router.Handlers{
		Auth:    handler.NewAuthHandler(cfg, accounts, admins, recorder),
		Cart:    handler.NewCartHandler(accounts),
		Orders:  handler.NewOrderHandler(orders, accounts),
		Admin:   handler.NewAdminHandler(accounts, logs),
		Predict: handler.NewPredictHandler(cl, cfg.UploadDir),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
