package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"registry-sync/core/reconcile"
	"registry-sync/core/utils"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"
)

// organization is the directory's response body.
type organization struct {
	Identifier   string `json:"bin"`
	FullName     string `json:"full_name"`
	ShortName    string `json:"short_name"`
	Status       string `json:"status"`
	Address      string `json:"address"`
	RegisteredAt string `json:"registered_at"`
}

// HTTP resolves identifiers against the organization directory.
type HTTP struct {
	baseURL       string
	token         string
	client        *http.Client
	maxRetries    int
	retryInterval time.Duration
	logger        *zap.Logger
}

// New creates an HTTP resolver. Callers should check cfg.BaseURL first.
func New(cfg Config, logger *zap.Logger) *HTTP {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 15
	}
	return &HTTP{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		token:         cfg.Token,
		client:        &http.Client{Timeout: time.Duration(timeout) * time.Second},
		maxRetries:    cfg.MaxRetries,
		retryInterval: 500 * time.Millisecond,
		logger:        logger,
	}
}

// Resolve fetches the organization registered under identifier.
func (h *HTTP) Resolve(ctx context.Context, identifier string) (reconcile.Entity, error) {
	endpoint := h.baseURL + "/organizations/" + url.PathEscape(identifier)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = h.retryInterval
	bo.MaxElapsedTime = 0

	var org organization
	err := backoff.RetryNotify(func() error {
		var err error
		org, err = h.fetch(ctx, endpoint)
		return err
	}, backoff.WithContext(utils.LimitRetries(bo, h.maxRetries), ctx), func(err error, wait time.Duration) {
		h.logger.Warn("Directory lookup failed, retrying",
			zap.String("identifier", identifier),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})
	if err != nil {
		return reconcile.Entity{}, err
	}

	return reconcile.Entity{
		Identifier:   identifier,
		FullName:     utils.CleanText(org.FullName),
		ShortName:    utils.CleanText(org.ShortName),
		Status:       org.Status,
		Address:      utils.CleanText(org.Address),
		RegisteredAt: parseRegisteredAt(org.RegisteredAt),
	}, nil
}

func (h *HTTP) fetch(ctx context.Context, endpoint string) (organization, error) {
	var org organization

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return org, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return org, backoff.Permanent(ctx.Err())
		}
		return org, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return org, backoff.Permanent(reconcile.ErrNotFound)
	case resp.StatusCode >= 500:
		_, _ = io.Copy(io.Discard, resp.Body)
		return org, fmt.Errorf("directory returned %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return org, backoff.Permanent(fmt.Errorf("directory returned %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(&org); err != nil {
		return org, backoff.Permanent(fmt.Errorf("failed to decode directory response: %w", err))
	}
	if strings.TrimSpace(org.FullName) == "" && strings.TrimSpace(org.ShortName) == "" {
		return org, backoff.Permanent(errors.New("directory returned an unnamed organization"))
	}
	return org, nil
}

// parseRegisteredAt accepts ISO dates as well as the registry's day.month.year form.
func parseRegisteredAt(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return utils.ToDate(s)
}
