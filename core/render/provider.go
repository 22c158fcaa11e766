package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"registry-sync/core/storage"

	"go.uber.org/zap"
)

// ErrEmptyPage is returned when a provider produced no markup.
var ErrEmptyPage = errors.New("rendered page is empty")

// Provider returns expanded markup for a URL.
type Provider interface {
	Render(ctx context.Context, url string) (string, error)
}

// File serves the page stored at Path regardless of the requested URL.
type File struct {
	Path string
}

// Render reads the file.
func (f File) Render(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read page %s: %w", f.Path, err)
	}
	if len(data) == 0 {
		return "", ErrEmptyPage
	}
	return string(data), nil
}

// New builds the provider selected by cfg.Driver, wrapped in an Archive when
// cfg.Archive is set and a storage client is available.
func New(cfg Config, client storage.Client, bucket string, logger *zap.Logger) (Provider, error) {
	var p Provider
	switch cfg.Driver {
	case DriverChrome, "":
		p = NewChrome(ChromeOptions{
			Headless:   cfg.Headless,
			UserAgent:  cfg.UserAgent,
			Timeout:    time.Duration(cfg.TimeoutSeconds) * time.Second,
			Settle:     time.Duration(cfg.SettleSeconds) * time.Second,
			MaxRetries: cfg.MaxRetries,
		}, logger)
	case DriverFile:
		if cfg.FilePath == "" {
			return nil, errors.New("file driver requires render.file_path")
		}
		p = File{Path: cfg.FilePath}
	default:
		return nil, fmt.Errorf("unsupported render driver %q", cfg.Driver)
	}

	if cfg.Archive && client != nil {
		p = NewArchive(p, client, bucket, cfg.ArchivePrefix, cfg.ArchiveKeep, logger)
	}
	return p, nil
}
