// Command docscan digitises scanned documents.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/custodia-labs/docscan/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docscan/internal/adapters/driven/entities/gazetteer"
	"github.com/custodia-labs/docscan/internal/adapters/driven/ids"
	"github.com/custodia-labs/docscan/internal/adapters/driven/imaging"
	"github.com/custodia-labs/docscan/internal/adapters/driven/ocr/httpclient"
	"github.com/custodia-labs/docscan/internal/adapters/driven/ocr/tesseract"
	"github.com/custodia-labs/docscan/internal/adapters/driven/pdf"
	"github.com/custodia-labs/docscan/internal/adapters/driven/storage/imagefs"
	"github.com/custodia-labs/docscan/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docscan/internal/adapters/driving/cli"
	"github.com/custodia-labs/docscan/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/docscan/internal/core/domain"
	"github.com/custodia-labs/docscan/internal/core/ports/driven"
	"github.com/custodia-labs/docscan/internal/core/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = ""

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configDir, err := file.DefaultDir()
	if err != nil {
		return report(fmt.Errorf("locating config directory: %w", err))
	}
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return report(fmt.Errorf("loading config: %w", err))
	}
	settingsService := services.NewSettingsService(configStore, file.NewValidator())

	// Invalid settings are reported but not fatal so "docscan settings set" can repair them.
	settings, err := settingsService.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	dataDir := settings.Storage.DataDir
	if dataDir == "" {
		dataDir = filepath.Join(configDir, "data")
	}
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return report(fmt.Errorf("opening document store: %w", err))
	}
	defer store.Close()

	images, err := imagefs.NewImageStore(filepath.Join(dataDir, "images"))
	if err != nil {
		return report(err)
	}

	preprocessor := imaging.NewPreprocessor()
	processor := services.NewProcessor(
		ocrEngine(settings.OCR),
		pdf.NewRasterizer(),
		preprocessor,
		entityExtractor(settings.Tagging),
		images,
		ids.NewGenerator(),
		settings.Batch.FailureMode,
	)

	var ocrServer *httpapi.Server
	if tesseract.Available {
		ocrServer = httpapi.NewServer(tesseract.NewEngine(settings.OCR.Languages...), preprocessor)
	}

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Session:   services.NewSession(processor, store.DocumentStore(), images),
		Settings:  settingsService,
		OCRServer: ocrServer,
	})

	// Cobra prints command errors itself.
	return cli.Execute(ctx)
}

func ocrEngine(s domain.OCRSettings) driven.OCREngine {
	if s.Engine == domain.OCREngineTesseract {
		return tesseract.NewEngine(s.Languages...)
	}
	return httpclient.NewClient(s.URL, time.Duration(s.TimeoutSeconds)*time.Second, s.RatePerSecond)
}

// entityExtractor loads the optional gazetteer. A missing or broken file
// falls back to heuristics only.
func entityExtractor(s domain.TaggingSettings) driven.EntityExtractor {
	if s.Gazetteer == "" {
		return gazetteer.NewExtractor(nil)
	}
	g, err := gazetteer.Load(s.Gazetteer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: gazetteer not loaded: %v\n", err)
		return gazetteer.NewExtractor(nil)
	}
	return gazetteer.NewExtractor(g)
}

func report(err error) error {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return err
}
