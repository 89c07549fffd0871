// Command extract runs the capture pipeline over a single photo without the
// API server: recognize, extract, resolve, optionally persist. Useful for
// checking what the pipeline reads out of a troublesome photo.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/rfarias/geocapture/internal/adapters/filestore"
	"github.com/rfarias/geocapture/internal/adapters/ocr"
	"github.com/rfarias/geocapture/internal/adapters/registry"
	"github.com/rfarias/geocapture/internal/core/usecases"
	"github.com/rfarias/geocapture/internal/pkg/logging"
)

func main() {
	var (
		imagePath = flag.String("image", "", "photo to process (required)")
		sitesPath = flag.String("sites", "configs/sites.yaml", "client site table")
		storePath = flag.String("store", "", "record store to insert into (omit for a dry run)")
		keyword   = flag.String("keyword", "fazenda", "client tag keyword")
		language  = flag.String("lang", "por", "tesseract language code")
		attempts  = flag.Int("attempts", 3, "max OCR attempts")
		showText  = flag.Bool("text", false, "also print the raw recognized text")
	)
	flag.Parse()

	if *imagePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	logging.Setup("warn", "text")

	sites, err := registry.Load(*sitesPath, slog.Default())
	if err != nil {
		log.Fatalf("site table: %v", err)
	}
	defer sites.Close()

	dryRun := *storePath == ""
	if dryRun {
		f, err := os.CreateTemp("", "geocapture-dryrun-*.json")
		if err != nil {
			log.Fatalf("temp store: %v", err)
		}
		f.Close()
		os.Remove(f.Name())
		*storePath = f.Name()
		defer os.Remove(f.Name())
	}
	store, err := filestore.Open(*storePath)
	if err != nil {
		log.Fatalf("record store: %v", err)
	}

	recognizer := ocr.NewRecognizer(*language, slog.Default())
	resolver := usecases.NewClientResolver(sites, *keyword)
	pipeline := usecases.NewCaptureService(
		recognizer, store, resolver, nil, nil, nil, *attempts, *keyword,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if *showText {
		text, err := recognizer.Recognize(ctx, *imagePath)
		if err != nil {
			log.Fatalf("recognize: %v", err)
		}
		fmt.Fprintln(os.Stderr, "---- recognized text ----")
		fmt.Fprintln(os.Stderr, text)
		fmt.Fprintln(os.Stderr, "-------------------------")
	}

	result, err := pipeline.Submit(ctx, *imagePath)
	if err != nil {
		log.Fatalf("capture did not complete: %v", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("encode result: %v", err)
	}
	fmt.Println(string(out))

	if dryRun {
		fmt.Fprintln(os.Stderr, "(dry run: record not persisted)")
	}
}
