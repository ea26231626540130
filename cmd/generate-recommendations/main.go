package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aovlift/aovlift/internal/catalog"
	"github.com/aovlift/aovlift/internal/recommend"
	"github.com/aovlift/aovlift/internal/store"
)

func main() {
	shop := flag.String("shop", "", "shop domain to generate recommendations for")
	dbPath := flag.String("db", "./data/aovlift.db", "path to SQLite database file")
	flag.Parse()

	if *shop == "" {
		log.Fatal("missing required -shop")
	}

	st, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("failed to initialize sqlite store (%s): %v", *dbPath, err)
	}
	defer st.Close()

	accessToken := requiredEnv("SHOPIFY_ADMIN_TOKEN")
	source := catalog.NewAdminClient(*shop, accessToken)

	var completer recommend.Completer
	if c, err := recommend.NewAnthropicCompleterFromEnv(); err != nil {
		log.Printf("generative path disabled: %v", err)
	} else {
		completer = c
	}

	engine := recommend.NewEngine(source, completer, st)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	result, err := engine.GenerateRecommendations(ctx, *shop)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("bundles created: %d\nupsells created: %d\n", result.BundlesCreated, result.UpsellsCreated)
}

func requiredEnv(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		log.Fatalf("missing required env var %s", key)
	}
	return v
}
