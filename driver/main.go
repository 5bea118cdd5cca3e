package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"daebak/restapi/ai"
	"daebak/restapi/config"
	"daebak/restapi/handlers"
	"daebak/restapi/middleware"
	"daebak/restapi/middleware/logkafka"
	"daebak/restapi/services"
	"daebak/restapi/telem"
	"daebak/restapi/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize MongoDB client
	client, err := utils.InitMongoClient(cfg.Mongo.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.TODO())

	handlers.Init()

	shutdownMetrics, err := telem.InitMetrics("daebak-api", cfg.Telem.MetricsAddr)
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}
	defer shutdownMetrics(context.Background())

	if cfg.Telem.OTLPEndpoint != "" {
		shutdownTracing, err := telem.InitTracing("daebak-api", cfg.Telem.OTLPEndpoint)
		if err != nil {
			log.Fatalf("Failed to initialize tracing: %v", err)
		}
		defer shutdownTracing(context.Background())
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.KafkaEnabled() {
		logkafka.InitKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer logkafka.CloseKafkaWriter()

		if cfg.Elastic.Addr != "" {
			go func() {
				if err := utils.RunLogPusher(rootCtx, cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Elastic.Addr); err != nil {
					log.Printf("Log pusher stopped: %v", err)
				}
			}()
		}
	}

	var assistant *ai.Assistant
	if cfg.GeminiEnabled() {
		assistant, err = ai.NewAssistant(rootCtx, cfg.Gemini.APIKey)
		if err != nil {
			log.Fatalf("Failed to initialize assistant: %v", err)
		}
	}

	db := &handlers.DB{
		UserCollection:           utils.GetCollection(client, cfg.Mongo.Database, "users"),
		MenuItemCollection:       utils.GetCollection(client, cfg.Mongo.Database, "menuitems"),
		InventoryCollection:      utils.GetCollection(client, cfg.Mongo.Database, "inventory"),
		OrdersCollection:         utils.GetCollection(client, cfg.Mongo.Database, "orders"),
		RefreshTokenCollection:   utils.GetCollection(client, cfg.Mongo.Database, "refresh_tokens"),
		TokenBlacklistCollection: utils.GetCollection(client, cfg.Mongo.Database, "token_blacklist"),
		AuditLogCollection:       utils.GetCollection(client, cfg.Mongo.Database, "audit_logs"),
		Client:                   client,
		Carts:                    services.NewCartStore(),
		Assistant:                assistant,
		Secret:                   []byte(cfg.Auth.SessionSecret),
		StaffCode:                cfg.Auth.StaffCode,
		StripeKey:                cfg.Stripe.SecretKey,
	}

	auth := &middleware.Auth{Secret: db.Secret}

	mainRouter := mux.NewRouter()

	// Registration requires body validation but no session
	validationRouter := mainRouter.PathPrefix("/api").Subrouter()
	validationRouter.Use(middleware.ValidateRegistrationBody)
	validationRouter.HandleFunc("/users", db.CreateUserHandler).Methods("POST")

	// Token endpoints don't use any middleware
	tokenRouter := mainRouter.PathPrefix("/token").Subrouter()
	tokenRouter.HandleFunc("/login/", db.LoginTokenHandler).Methods("POST")
	tokenRouter.HandleFunc("/refresh/", db.RefreshTokenHandler).Methods("POST")

	// Everything below requires a valid session
	apiRouter := mainRouter.PathPrefix("/api").Subrouter()
	apiRouter.Use(auth.SetCurrentUser)
	apiRouter.Use(logkafka.LoggingMiddleware)

	apiRouter.HandleFunc("/users/me/", db.GetCurrentUserHandler).Methods("GET")
	apiRouter.HandleFunc("/users/logout/", db.LogoutUserHandler).Methods("POST")

	apiRouter.HandleFunc("/menu-items", db.GetMenuItems).Methods("GET")
	apiRouter.HandleFunc("/menu-items/{id}", db.GetSingleMenuItem).Methods("GET")

	apiRouter.HandleFunc("/inventory", db.GetInventory).Methods("GET")

	apiRouter.HandleFunc("/cart", db.CartEndpoint).Methods("GET", "POST", "DELETE")
	apiRouter.HandleFunc("/cart/{id}", db.DeleteMenuItemFromCart).Methods("DELETE")

	apiRouter.HandleFunc("/orders", db.OrderEndpoint).Methods("GET", "POST")
	apiRouter.HandleFunc("/payments", db.ProcessPaymentHandler).Methods("POST")

	apiRouter.HandleFunc("/stream/{collection}", db.StreamHandler).Methods("GET")

	apiRouter.HandleFunc("/assistant/chat", db.ChatHandler).Methods("POST")
	apiRouter.HandleFunc("/assistant/voice", db.VoiceHandler).Methods("POST")

	// Staff-only mutations
	staffRouter := apiRouter.PathPrefix("").Subrouter()
	staffRouter.Use(middleware.RequireStaff)
	staffRouter.HandleFunc("/menu-items", db.PostMenuItems).Methods("POST")
	staffRouter.HandleFunc("/menu-items/{id}", db.PutSingleMenuItem).Methods("PUT")
	staffRouter.HandleFunc("/menu-items/{id}", db.PatchMenuItems).Methods("PATCH")
	staffRouter.HandleFunc("/menu-items/{id}", db.DeleteSingleMenuItem).Methods("DELETE")
	staffRouter.HandleFunc("/menu-items/{id}/image", db.GenerateItemImageHandler).Methods("POST")
	staffRouter.HandleFunc("/inventory/{id}", db.UpdateInventory).Methods("PATCH")
	staffRouter.HandleFunc("/orders/{id}/status", db.UpdateOrderStatusHandler).Methods("PATCH")

	srv := &http.Server{
		Handler:      mainRouter,
		Addr:         cfg.HTTP.Addr,
		WriteTimeout: 0, // streaming endpoints hold the connection open
		ReadTimeout:  15 * time.Second,
	}

	go func() {
		log.Printf("API server running at %s", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-rootCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}
