package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ummah-scheduler/scheduler/src/api/config"
	"github.com/ummah-scheduler/scheduler/src/api/data"
	"github.com/ummah-scheduler/scheduler/src/api/webserver"
	"github.com/ummah-scheduler/scheduler/src/meetings"
	"github.com/ummah-scheduler/scheduler/src/monday"
	"github.com/ummah-scheduler/scheduler/src/workflow"
)

func sessionStore(rdb *redis.Client, ttl time.Duration) meetings.SessionStore {
	if rdb != nil {
		log.Printf("mentor sessions stored in redis")
		return meetings.NewRedisSessionStore(rdb, ttl)
	}
	log.Printf("mentor sessions held in memory; a restart signs every mentor out")
	return meetings.NewMemorySessionStore(ttl)
}

func main() {
	cfg := config.Load()

	db := data.MustOpen(cfg.DBDriver, cfg.DBDSN)
	if _, err := data.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	store := workflow.NewStore(db)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := store.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatalf("seed admin: %v", err)
		}
	} else {
		log.Printf("ADMIN_EMAIL/ADMIN_PASSWORD not set, password login has no seeded account")
	}

	rdb := data.MustRedis(cfg.RedisURL)
	sessions := sessionStore(rdb, cfg.CredentialTTL)

	board := monday.NewClient(cfg.MondayAPIURL, cfg.MondayAPIKey, cfg.MondayBoardID, cfg.MondayTimeout)
	reconciler := workflow.NewReconciler(board, store, cfg.MondayPageSize)

	deps := webserver.Deps{
		Store:      store,
		Reconciler: reconciler,
		Sessions:   sessions,
	}

	var opts []meetings.Option
	opts = append(opts, meetings.WithTimezone(cfg.CalendarTimezone))
	if cfg.AdminTokenJSON != "" {
		adminCred, err := meetings.ParseAuthorizedUser(cfg.AdminTokenJSON)
		if err != nil {
			log.Fatalf("ADMIN_TOKEN_JSON: %v", err)
		}
		opts = append(opts, meetings.WithAdminCredential(adminCred))
	}

	var cal meetings.Calendar
	oauthConf, err := meetings.OAuthConfig(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCredentialsFile,
		cfg.BackendURL+"/oauth2callback", meetings.CalendarScopes)
	if err != nil {
		log.Printf("google oauth disabled: %v", err)
		cal = unconfiguredCalendar{}
	} else {
		identity := meetings.NewGoogleIdentity(oauthConf)
		deps.Identity = identity
		cal = meetings.NewGoogleCalendar(identity.CalendarConfig())
	}
	deps.Meetings = meetings.NewManager(cal, sessions, store, opts...)

	router := webserver.New(cfg, deps)
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()
	log.Printf("Scheduler API listening on %s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	cancel()

	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)
	if rdb != nil {
		_ = rdb.Close()
	}
}
