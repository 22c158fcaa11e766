package render

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"registry-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

type snapshotNameKey struct{}

// WithSnapshotName tags ctx so archived pages are grouped under name instead of a URL slug.
func WithSnapshotName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, snapshotNameKey{}, name)
}

func snapshotName(ctx context.Context, rawURL string) string {
	if name, ok := ctx.Value(snapshotNameKey{}).(string); ok && name != "" {
		return name
	}
	return Slug(rawURL)
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// Slug turns a URL into a lowercase object-key-safe name.
func Slug(rawURL string) string {
	s := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		s = u.Host + u.Path
	}
	return strings.Trim(slugUnsafe.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// Snapshot describes one archived page.
type Snapshot struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Archive stores every page rendered by the wrapped provider.
type Archive struct {
	next   Provider
	client storage.Client
	bucket string
	prefix string
	keep   int
	logger *zap.Logger
	now    func() time.Time
}

// NewArchive wraps next. keep bounds the snapshots retained per name; zero keeps all.
func NewArchive(next Provider, client storage.Client, bucket, prefix string, keep int, logger *zap.Logger) *Archive {
	if logger == nil {
		logger = zap.NewNop()
	}
	if prefix == "" {
		prefix = "snapshots"
	}
	return &Archive{
		next:   next,
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		keep:   keep,
		logger: logger,
		now:    time.Now,
	}
}

// Render renders through the wrapped provider and archives the result.
func (a *Archive) Render(ctx context.Context, rawURL string) (string, error) {
	html, err := a.next.Render(ctx, rawURL)
	if err != nil {
		return "", err
	}

	name := snapshotName(ctx, rawURL)
	key := path.Join(a.prefix, name, a.now().UTC().Format("20060102T150405.000000000Z")+".html")

	if err := a.put(ctx, key, html); err != nil {
		a.logger.Warn("Failed to archive page", zap.String("key", key), zap.Error(err))
		return html, nil
	}
	a.logger.Debug("Page archived", zap.String("key", key), zap.Int("bytes", len(html)))

	if a.keep > 0 {
		if err := a.Prune(ctx, name, a.keep); err != nil {
			a.logger.Warn("Failed to prune archived pages", zap.String("name", name), zap.Error(err))
		}
	}
	return html, nil
}

func (a *Archive) put(ctx context.Context, key, html string) error {
	_, err := a.client.PutObject(ctx, a.bucket, key, strings.NewReader(html), int64(len(html)), minio.PutObjectOptions{
		ContentType: "text/html; charset=utf-8",
	})
	return err
}

// List returns the archived pages for name, oldest first.
func (a *Archive) List(ctx context.Context, name string) ([]Snapshot, error) {
	prefix := path.Join(a.prefix, name) + "/"

	// Cancelling stops the lister goroutine when we return early.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var out []Snapshot
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", obj.Err)
		}
		if !strings.HasSuffix(obj.Key, ".html") {
			continue
		}
		out = append(out, Snapshot{Key: obj.Key, Size: obj.Size, LastModified: obj.LastModified})
	}
	// Keys embed a sortable UTC timestamp.
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Prune removes all but the newest keep pages for name.
func (a *Archive) Prune(ctx context.Context, name string, keep int) error {
	snaps, err := a.List(ctx, name)
	if err != nil {
		return err
	}
	if len(snaps) <= keep {
		return nil
	}

	stale := snaps[:len(snaps)-keep]
	objectsCh := make(chan minio.ObjectInfo, len(stale))
	for _, s := range stale {
		objectsCh <- minio.ObjectInfo{Key: s.Key}
	}
	close(objectsCh)

	// The result channel is drained fully so the remover can finish.
	var firstErr error
	failed := 0
	for rerr := range a.client.RemoveObjects(ctx, a.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rerr.Err == nil {
			continue
		}
		failed++
		if firstErr == nil {
			firstErr = fmt.Errorf("failed to remove %s: %w", rerr.ObjectName, rerr.Err)
		}
	}
	if failed > 1 {
		return fmt.Errorf("%w (and %d more)", firstErr, failed-1)
	}
	return firstErr
}
