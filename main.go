package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/insightly/insightly-go/api"
	"github.com/insightly/insightly-go/cache"
	"github.com/insightly/insightly-go/config"
	"github.com/insightly/insightly-go/email"
	"github.com/insightly/insightly-go/events"
	"github.com/insightly/insightly-go/providers"
	"github.com/insightly/insightly-go/services"
	"github.com/insightly/insightly-go/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found -- config defaults will be used")
	}

	if config.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	db, err := store.NewStore()
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()
	log.Printf("Store ready (%s)", db.GetConnectionInfo())

	cacheManager := cache.NewManager(config.RedisURL)
	defer cacheManager.Close()

	geo := services.NewGeoResolver(config.GeoIPPath)
	defer geo.Close()

	reconciler := providers.NewReconciler(db)
	processor := events.NewEventProcessor(db, cacheManager, reconciler, geo)

	emailClient, err := email.NewClient()
	if err != nil {
		log.Printf("WARNING: email disabled: %v", err)
		emailClient = nil
	}

	h := api.NewHandlers(db, cacheManager, processor, emailClient)

	r := gin.New()
	r.Use(api.FilteredLogger(), gin.Recovery())
	r.SetTrustedProxies(nil)

	// The tracker posts from arbitrary customer origins, so ingestion
	// stays wide open; dashboard routes are protected by JWT instead.
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}))

	r.GET("/js/script.js", api.ServeScript)
	r.POST("/api/events", h.PostEvent)
	r.POST("/api/heartbeat", h.PostHeartbeat)

	r.POST("/api/auth/signup", h.SignupHandler)
	r.POST("/api/auth/login", h.LoginHandler)

	r.GET("/api/realtime/active", h.ActiveVisitorsStream)

	authed := r.Group("/api", api.AuthRequired())
	{
		authed.POST("/websites", h.CreateWebsiteHandler)
		authed.GET("/websites", h.ListWebsitesHandler)
		authed.GET("/analytics/main", h.GetMainAnalytics)
		authed.GET("/analytics/others", h.GetOthersAnalytics)
		authed.GET("/analytics/goals", h.GetGoalsAnalytics)
		authed.GET("/analytics/links", h.GetLinkAnalytics)
		authed.GET("/analytics/active", h.GetActiveVisitors)
		authed.POST("/links/resolve", h.ResolveLinkHandler)
	}

	srv := &http.Server{
		Addr:    ":" + config.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("ERROR: forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
