package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	apperrors "github.com/dharmaapp/dharma-core/internal/errors"
	"github.com/dharmaapp/dharma-core/internal/id"
	"github.com/dharmaapp/dharma-core/internal/ratelimit"
)

// MediaFetcher streams a remote asset into a local file.
//
// The transfer goes through a nanoid-suffixed temp file in the target
// directory and is renamed into place only after the status and size
// checks pass, so a failed transfer never leaves a partial file at the
// destination.
type MediaFetcher struct {
	httpClient *http.Client
	limiter    *ratelimit.PerHost
	logger     *slog.Logger
}

// NewMediaFetcher creates a fetcher with the given transfer timeout.
func NewMediaFetcher(timeout time.Duration, logger *slog.Logger) *MediaFetcher {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &MediaFetcher{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    ratelimit.NewPerHost(2, 4),
		logger:     logger,
	}
}

// Fetch downloads url to dest, overwriting any stale file there.
// Fails with a DOWNLOAD_FAILED error on a non-200 status and an
// EMPTY_FILE error when the transfer produced zero bytes.
func (f *MediaFetcher) Fetch(ctx context.Context, rawURL, dest, accept string) error {
	if u, err := url.Parse(rawURL); err == nil {
		if err := f.limiter.Wait(ctx, u.Host); err != nil {
			return apperrors.WrapNetwork(err, "wait for transfer slot")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return apperrors.WrapInternal(err, "create download request")
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return apperrors.WrapNetwork(err, "download "+rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperrors.DownloadFailed(fmt.Sprintf("download %s: status %d", rawURL, resp.StatusCode))
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return apperrors.WrapInternal(err, "create download dir")
	}

	suffix, err := id.Suffix()
	if err != nil {
		return apperrors.WrapInternal(err, "generate temp suffix")
	}
	tmp := dest + "." + suffix + ".part"

	size, err := f.writeTemp(tmp, resp.Body)
	if err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if size == 0 {
		_ = os.Remove(tmp)
		return apperrors.EmptyFile("download " + rawURL + ": empty body")
	}

	// Idempotent overwrite of whatever was at dest before.
	_ = os.Remove(dest)
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return apperrors.WrapInternal(err, "move download into place")
	}

	f.logger.Info("downloaded media", "url", rawURL, "path", dest, "bytes", size)
	return nil
}

func (f *MediaFetcher) writeTemp(tmp string, body io.Reader) (int64, error) {
	file, err := os.Create(tmp)
	if err != nil {
		return 0, apperrors.WrapInternal(err, "create temp file")
	}

	size, err := io.Copy(file, body)
	if err != nil {
		_ = file.Close()
		return 0, apperrors.WrapNetwork(err, "stream download body")
	}
	if err := file.Close(); err != nil {
		return 0, apperrors.WrapInternal(err, "close temp file")
	}
	return size, nil
}
