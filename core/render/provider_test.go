package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_Render(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(page, []byte("<html></html>"), 0o644))

	html, err := File{Path: page}.Render(context.Background(), "https://example.org")
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", html)

	_, err = File{Path: filepath.Join(dir, "missing.html")}.Render(context.Background(), "")
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.html")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = File{Path: empty}.Render(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyPage)
}

func TestNew(t *testing.T) {
	p, err := New(Config{Driver: DriverChrome}, nil, "", nil)
	require.NoError(t, err)
	assert.IsType(t, &Chrome{}, p)

	p, err = New(Config{Driver: DriverFile, FilePath: "page.html"}, nil, "", nil)
	require.NoError(t, err)
	assert.Equal(t, File{Path: "page.html"}, p)

	_, err = New(Config{Driver: DriverFile}, nil, "", nil)
	assert.Error(t, err)

	_, err = New(Config{Driver: "lynx"}, nil, "", nil)
	assert.Error(t, err)
}

func TestChrome_RetriesFailedAttempts(t *testing.T) {
	c := NewChrome(ChromeOptions{MaxRetries: 2, Timeout: time.Second, RetryInterval: time.Millisecond}, nil)
	calls := 0
	c.attempt = func(context.Context, string) (string, error) {
		calls++
		if calls < 2 {
			return "", errors.New("net::ERR_CONNECTION_RESET")
		}
		return "<html>ok</html>", nil
	}

	html, err := c.Render(context.Background(), "https://example.org")
	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", html)
	assert.Equal(t, 2, calls)
}

func TestChrome_GivesUpAfterMaxRetries(t *testing.T) {
	c := NewChrome(ChromeOptions{MaxRetries: 0, Timeout: time.Second}, nil)
	calls := 0
	c.attempt = func(context.Context, string) (string, error) {
		calls++
		return "  ", nil
	}

	_, err := c.Render(context.Background(), "https://example.org")
	assert.ErrorIs(t, err, ErrEmptyPage)
	assert.Equal(t, 1, calls)
}

func TestChrome_StopsOnCancelledContext(t *testing.T) {
	c := NewChrome(ChromeOptions{MaxRetries: 5, Timeout: time.Second}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	c.attempt = func(context.Context, string) (string, error) {
		calls++
		cancel()
		return "", errors.New("aborted")
	}

	_, err := c.Render(ctx, "https://example.org")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestExpandCardsJS_DismissesCookieBanners(t *testing.T) {
	assert.Contains(t, expandCardsJS, "button#onetrust-accept-btn-handler")
	assert.Contains(t, expandCardsJS, `[class*="cookie"] button`)
}

func TestSlug(t *testing.T) {
	assert.Equal(t,
		"www-gov-kz-memleket-entities-ardfm-sanctions",
		Slug("https://www.gov.kz/memleket/entities/ardfm/sanctions?lang=ru"),
	)
	assert.Equal(t, "plain-name", Slug("Plain Name"))
}
