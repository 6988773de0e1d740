package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"rates-and-booking/internal/config"
	"rates-and-booking/internal/modules/auth"
	"rates-and-booking/internal/modules/carriers"
	"rates-and-booking/internal/modules/ftl"
	"rates-and-booking/internal/modules/orders"
	"rates-and-booking/internal/modules/pincode"
	"rates-and-booking/internal/modules/rates"
	"rates-and-booking/pkg/mailer"
	"rates-and-booking/pkg/payment"

	"github.com/jackc/pgx/v5/pgxpool"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect db: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("database ping failed: %v", err)
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("redis unavailable, rate-card caching disabled: %v", err)
			rdb = nil
		}
	}

	// Postal master and routing policy, loaded once and immutable afterwards.
	pincodeSvc, err := pincode.NewFromFiles(cfg.PincodeCSVPath, cfg.NameAliasesPath)
	if err != nil {
		log.Fatalf("failed to load postal master: %v", err)
	}
	log.Printf("loaded %d pincodes", pincodeSvc.Count())

	policy, err := rates.LoadRoutingPolicy(cfg.MetroCitiesPath, cfg.SpecialStatesPath)
	if err != nil {
		log.Fatalf("failed to load routing policy: %v", err)
	}

	var payments payment.ServiceInterface
	if cfg.StripeAPIKey != "" {
		payments = payment.NewStripeService(cfg.StripeAPIKey)
	}

	var mail mailer.ServiceInterface
	if cfg.SenderEmail != "" {
		ses, err := mailer.NewSESService(ctx, cfg.SenderEmail)
		if err != nil {
			log.Printf("mailer unavailable, booking mail disabled: %v", err)
		} else {
			mail = ses
		}
	}

	// Modules.
	carrierSvc := carriers.NewService(carriers.NewRepository(pool), rdb)
	carrierHandler := carriers.NewHandler(carrierSvc)

	engine := rates.NewEngine(rates.NewResolver(pincodeSvc, policy), pincodeSvc, cfg.Pricing)
	rateSvc := rates.NewService(engine, carrierSvc)
	rateHandler := rates.NewHandler(rateSvc)

	orderSvc := orders.NewService(orders.NewRepository(pool), rateSvc, pincodeSvc, payments, mail, cfg.AdminEmail, cfg.Pricing)
	orderHandler := orders.NewHandler(orderSvc)

	ftlSvc := ftl.NewService(ftl.NewRepository(pool), cfg.Pricing)
	ftlHandler := ftl.NewHandler(ftlSvc)

	authHandler := auth.NewHandler(auth.NewService(cfg.AdminEmail, cfg.AdminPasswordHash, cfg.JWTSecret))

	pincodeHandler := pincode.NewHandler(pincodeSvc)

	// Router.
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	api := e.Group("/api")
	api.GET("/health", func(c echo.Context) error {
		rateCards := 0
		if configs, err := carrierSvc.ListActive(c.Request().Context()); err == nil {
			rateCards = len(configs)
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":     "ok",
			"pincodes":   pincodeSvc.Count(),
			"rate_cards": rateCards,
		})
	})
	api.POST("/auth/login", authHandler.Login)
	api.GET("/pincode/:code", pincodeHandler.Lookup)
	api.POST("/rates/compare", rateHandler.Compare)

	api.POST("/orders", orderHandler.CreateOrder)
	api.GET("/orders", orderHandler.ListOrders)
	api.GET("/orders/:orderId", orderHandler.GetOrder)
	api.DELETE("/orders/:orderId", orderHandler.DeleteOrder)
	api.POST("/orders/compare", orderHandler.CompareForOrders)
	api.POST("/orders/book", orderHandler.Book)

	api.GET("/ftl/routes", ftlHandler.ListRoutes)
	api.POST("/ftl/calculate", ftlHandler.Calculate)
	api.POST("/ftl/orders", ftlHandler.CreateOrder)
	api.GET("/ftl/orders", ftlHandler.ListOrders)

	// Rate-card management requires an admin token.
	admin := api.Group("/admin")
	admin.Use(echojwt.WithConfig(echojwt.Config{SigningKey: []byte(cfg.JWTSecret)}))
	admin.GET("/carriers", carrierHandler.List)
	admin.POST("/carriers", carrierHandler.Create)
	admin.GET("/carriers/:name/:mode", carrierHandler.Get)
	admin.PUT("/carriers/:name/:mode", carrierHandler.Update)
	admin.DELETE("/carriers/:name/:mode", carrierHandler.Delete)

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.ReadHeaderTimeout = 10 * time.Second
	e.Server.WriteTimeout = 20 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	log.Printf("api listening on :%s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
