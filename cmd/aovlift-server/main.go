package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aovlift/aovlift/internal/catalog"
	"github.com/aovlift/aovlift/internal/httpapi"
	"github.com/aovlift/aovlift/internal/recommend"
	"github.com/aovlift/aovlift/internal/store"
)

func main() {
	dbFlag := flag.String("db", "./data/aovlift.db", "path to SQLite database file (overrides AOVLIFT_DB_PATH env var)")
	shopFlag := flag.String("shop", "", "shop domain served by this instance (overrides SHOP_DOMAIN env var)")
	flag.Parse()

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	dbPath := *dbFlag
	if env := os.Getenv("AOVLIFT_DB_PATH"); env != "" {
		dbPath = env
	}
	st, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to initialize sqlite store (%s): %v", dbPath, err)
	}
	defer st.Close()
	log.Printf("using sqlite store at %s", dbPath)

	shopDomain := *shopFlag
	if shopDomain == "" {
		shopDomain = os.Getenv("SHOP_DOMAIN")
	}
	if shopDomain == "" {
		log.Fatal("missing required shop domain (-shop or SHOP_DOMAIN)")
	}
	accessToken := requiredEnv("SHOPIFY_ADMIN_TOKEN")
	source := catalog.NewAdminClient(shopDomain, accessToken)

	// A missing API key disables the generative path; the engine falls back
	// to the heuristic analyzers on every run.
	completer, err := recommend.NewAnthropicCompleterFromEnv()
	var engineCompleter recommend.Completer
	if err != nil {
		log.Printf("generative path disabled: %v", err)
	} else {
		engineCompleter = completer
		log.Printf("generative path enabled model=%s", completer.ModelName())
	}

	engine := recommend.NewEngine(source, engineCompleter, st)
	h := httpapi.NewServer(engine, st)

	srv := &http.Server{Addr: addr, Handler: h}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("aovlift-server listening on %s (shop=%s)", addr, shopDomain)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func requiredEnv(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		log.Fatalf("missing required env var %s", key)
	}
	return v
}
