package api

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/iscsolutions/card_service/config"
	"github.com/iscsolutions/card_service/infra/queue"
	"github.com/iscsolutions/card_service/internal/api/rest/handlers"
	"github.com/iscsolutions/card_service/internal/cache"
	"github.com/iscsolutions/card_service/internal/domain"
	"github.com/iscsolutions/card_service/internal/monitoring"
	"github.com/iscsolutions/card_service/internal/repository"
	"github.com/iscsolutions/card_service/internal/services"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func StartServer(cfg config.Config) {
	app := fiber.New()

	// ---------- CORS ----------
	allowOrigins := cfg.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowHeaders: "Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Println("database connected")

	if err := db.AutoMigrate(
		&domain.Person{},
		&domain.Issuer{},
		&domain.Account{},
		&domain.Card{},
	); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	log.Println("migration successful")

	// ---------- Infra ----------
	kafkaProducer := queue.NewProducer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
	)

	// ---------- Repositories ----------
	personRepo := repository.NewPersonRepository(db)
	issuerRepo := repository.NewIssuerRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	cardRepo := repository.NewCardRepository(db)

	// ---------- Cache + Bootstrap ----------
	// the loader runs to completion before any route is registered
	store := cache.NewStore()
	bootstrap := services.NewBootstrapService(store, personRepo, issuerRepo, accountRepo, cardRepo)
	result, err := bootstrap.LoadFile(cfg.DataFilePath)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	log.Printf("bootstrap %s: %d person(s), %d issuer(s), %d account(s), %d card(s)",
		bootstrap.State(), result.Persons, result.Issuers, result.Accounts, result.Cards)

	// ---------- Service ----------
	cardSvc := services.NewCardService(store, personRepo, issuerRepo, accountRepo, cardRepo, kafkaProducer)

	// ---------- Diagnostics ----------
	statsLogger := monitoring.NewStatsLogger(
		store, personRepo, issuerRepo, accountRepo, cardRepo,
		time.Duration(cfg.StatsIntervalMins)*time.Minute,
	)
	statsLogger.Start()
	defer statsLogger.Stop()

	// ---------- Handler ----------
	cardHandler := handlers.NewCardHandler(cardSvc)
	cardHandler.SetupRoutes(app)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	addr := cfg.ServerPort
	log.Println("listening on", addr)
	log.Fatal(app.Listen(addr))
}
