package main

import (
	"context"
	"time"

	bookinghandler "carpark/internal/bookings/handler"
	"carpark/internal/bookings/events"
	bookingrepo "carpark/internal/bookings/repository"
	bookingservice "carpark/internal/bookings/service"
	"carpark/internal/bookings/validator"
	cataloghandler "carpark/internal/catalog/handler"
	catalogrepo "carpark/internal/catalog/repository"
	catalogservice "carpark/internal/catalog/service"
	"carpark/internal/session"
	"carpark/internal/sweeper"
	"carpark/internal/wallet"
	"carpark/internal/wishlist"
	"carpark/pkg/app"
	"carpark/pkg/config"
	"carpark/pkg/kafka"
	"carpark/pkg/kv"

	"github.com/joho/godotenv"
)

const ServiceName = "carpark"

func main() {
	// Missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting CarPark service")

	cfg.SetMongo()
	cfg.SetRedis()

	serverApp := app.NewApplication()
	store := kv.NewRedisStore(cfg.Client.Redis)

	ledger := bookingrepo.NewBookingLedger(store, cfg.Log)
	walletSvc := wallet.NewService(store, cfg.WalletHistoryLimit, cfg.Log)
	spotRepo := catalogrepo.NewMongoSpotRepository(cfg)

	publisher := initPublisher(cfg, serverApp)
	bookingSvc := bookingservice.NewBookingService(
		ledger,
		spotRepo,
		walletSvc,
		validator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)

	catalogSvc := catalogservice.NewSpotService(spotRepo, ledger, cfg)
	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := catalogSvc.Seed(seedCtx); err != nil {
		cancel()
		cfg.Log.Fatal("Failed to seed parking spot catalog", "error", err)
	}
	cancel()

	wishlistSvc := wishlist.NewService(store, spotRepo, cfg.Log)
	sessionSvc := session.NewService(store, cfg.Log)

	serverApp.SetApp(cfg,
		bookinghandler.NewHandler(bookingSvc, cfg.Log),
		cataloghandler.NewHandler(catalogSvc, cfg.Log),
		wallet.NewHandler(walletSvc, cfg.Log),
		wishlist.NewHandler(wishlistSvc, cfg.Log),
		session.NewHandler(sessionSvc, cfg.Log),
	)

	serverApp.AddWorker(sweeper.New(ledger, cfg.SweepInterval, cfg.Log))
	serverApp.AddCloser(cfg.GracefulShutdown)

	serverApp.Run()
}

// initPublisher wires the Kafka producer when brokers are configured,
// otherwise booking events are dropped.
func initPublisher(cfg *config.Config, serverApp *app.Application) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Kafka brokers not configured, booking events disabled")
		return events.NewNoopPublisher()
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.BookingEventTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	serverApp.AddCloser(func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	})

	cfg.Log.Info("Booking event publisher initialized", "topic", cfg.BookingEventTopic)
	return events.NewKafkaPublisher(producer, cfg.Log)
}
