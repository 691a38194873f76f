package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"habitFlowClient/internal/api"
	"habitFlowClient/internal/cache"
	"habitFlowClient/internal/locale"
	"habitFlowClient/internal/optimistic"
	"habitFlowClient/internal/prefs"
	"habitFlowClient/internal/realtime"
	"habitFlowClient/internal/theme"
	"habitFlowClient/middleware"
	"habitFlowClient/services"
)

// Demo harness for the data layer: wires every service the way an app shell
// would, restores the session, fetches the home dashboard, and keeps the
// sync dispatcher running until interrupted.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	prefsPath := os.Getenv("HABIT_PREFS_PATH")
	if prefsPath == "" {
		prefsPath = "./data/prefs.db"
	}
	deviceStore, err := prefs.Open(prefsPath)
	if err != nil {
		log.Fatal("Failed to open prefs store:", err)
	}
	defer deviceStore.Close()

	tokens := api.NewTokenStore("")
	cfg, err := api.ConfigFromEnv(tokens)
	if err != nil {
		log.Fatal("Failed to load API config:", err)
	}
	client, err := api.NewClient(cfg)
	if err != nil {
		log.Fatal("Failed to build API client:", err)
	}

	store := cache.NewStore()
	protocol := optimistic.NewProtocol(store)

	authService := services.NewAuthService(store, client, tokens, deviceStore)
	goalService := services.NewGoalService(store, client, protocol)
	checkInService := services.NewCheckInService(store, client, protocol)
	challengeService := services.NewChallengeService(store, client, protocol)
	partnerService := services.NewPartnerService(store, client, protocol)
	dashboardService := services.NewDashboardService(store, client)

	middleware.InitPrometheus()
	if addr := os.Getenv("HABIT_METRICS_ADDR"); addr != "" {
		go func() {
			log.Printf("Serving metrics on %s", addr)
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.Printf("Metrics server stopped: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	activeTheme, err := theme.NewManager(deviceStore).Resolve(ctx)
	if err != nil {
		log.Fatal("Failed to resolve theme:", err)
	}
	log.Printf("Theme: %s, locale: %s", activeTheme.Name, locale.Resolve(ctx, deviceStore))

	if err := client.Ping(ctx); err != nil {
		log.Fatal("Backend unreachable:", err)
	}

	if _, err := authService.RestoreSession(ctx); err != nil {
		if errors.Is(err, services.ErrNoSession) {
			log.Println("No stored session; sign in required")
		} else {
			log.Fatal("Failed to restore session:", err)
		}
	} else {
		board, err := dashboardService.GetHomeDashboard(ctx)
		if err != nil {
			log.Printf("Failed to fetch dashboard: %v", err)
		} else {
			log.Printf("Dashboard: %d active goals, %d pending today, streak %d",
				len(board.ActiveGoals), len(board.PendingToday), board.CurrentStreak)
		}

		if goals, err := goalService.GetGoals(ctx); err == nil {
			log.Printf("Goals: %d", len(goals))
		}
		if today, err := checkInService.GetTodayCheckIns(ctx); err == nil {
			log.Printf("Check-ins today: %d", len(today))
		}
		if challenges, err := challengeService.GetChallenges(ctx); err == nil {
			log.Printf("Challenges: %d", len(challenges))
		}
		if partners, err := partnerService.GetPartners(ctx); err == nil {
			log.Printf("Partners: %d", len(partners))
		}
	}

	source := realtime.NewAPISource(client, 30*time.Second)
	dispatcher := realtime.NewDispatcher(store, source)
	dispatcher.Run(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	cancel()
	dispatcher.Stop()
	log.Println("Shutdown complete")
}
