package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/aovlift/aovlift/internal/report"
	"github.com/aovlift/aovlift/internal/store"
)

func main() {
	shop := flag.String("shop", "", "shop domain to report on")
	dbPath := flag.String("db", "./data/aovlift.db", "path to SQLite database file")
	outputPath := flag.String("output", "", "path to write markdown (defaults to stdout)")
	pdfPath := flag.String("pdf", "", "optional path to write a PDF rendering")
	flag.Parse()

	if *shop == "" {
		log.Fatal("missing required -shop")
	}

	st, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("failed to initialize sqlite store (%s): %v", *dbPath, err)
	}
	defer st.Close()

	ctx := context.Background()
	bundles, err := st.ListBundles(ctx, *shop)
	if err != nil {
		log.Fatalf("list bundles: %v", err)
	}
	upsells, err := st.ListUpsells(ctx, *shop)
	if err != nil {
		log.Fatalf("list upsells: %v", err)
	}
	analytics, err := st.LatestAnalytics(ctx, *shop)
	if err != nil {
		log.Fatalf("latest analytics: %v", err)
	}

	markdown := report.BuildOfferReport(*shop, bundles, upsells, analytics)

	if err := writeMarkdown(*outputPath, markdown); err != nil {
		log.Fatalf("write markdown: %v", err)
	}
	if *pdfPath != "" {
		renderer := report.NewChromiumPDFRenderer()
		pdf, err := renderer.Render(ctx, markdown)
		if err != nil {
			log.Fatalf("render pdf: %v", err)
		}
		if err := os.WriteFile(*pdfPath, pdf, 0o644); err != nil {
			log.Fatalf("write pdf: %v", err)
		}
	}
}

func writeMarkdown(outputPath, markdown string) error {
	if outputPath == "" {
		_, err := fmt.Print(markdown)
		return err
	}
	return os.WriteFile(outputPath, []byte(markdown), 0o644)
}
