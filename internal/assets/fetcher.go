package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Fetcher turns a media reference into a local file at dst. The download
// or transcode tool behind it is external to this system; this is its
// interface boundary.
type Fetcher interface {
	Fetch(ctx context.Context, sourceURL, dst string) error
}

// HTTPFetcher downloads a direct file URL.
type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: 5 * time.Minute}}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, sourceURL, dst string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download returned %d", resp.StatusCode)
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	written, err := io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	// a partial body must never be reported as ready
	if resp.ContentLength > 0 && written != resp.ContentLength {
		return fmt.Errorf("short download: got %d of %d bytes", written, resp.ContentLength)
	}
	if written == 0 {
		return fmt.Errorf("empty download")
	}
	return nil
}

// ExecFetcher shells out to an external extractor (yt-dlp style) for
// video-hosting URLs. The command receives the URL and output path via
// {url} and {out} placeholders.
type ExecFetcher struct {
	command []string
}

func NewExecFetcher(command []string) *ExecFetcher {
	return &ExecFetcher{command: command}
}

func (f *ExecFetcher) Fetch(ctx context.Context, sourceURL, dst string) error {
	if len(f.command) == 0 {
		return fmt.Errorf("no fetch command configured")
	}

	args := make([]string, 0, len(f.command)-1)
	for _, a := range f.command[1:] {
		a = strings.ReplaceAll(a, "{url}", sourceURL)
		a = strings.ReplaceAll(a, "{out}", dst)
		args = append(args, a)
	}

	cmd := exec.CommandContext(ctx, f.command[0], args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("fetch command failed: %v: %s", err, strings.TrimSpace(string(out)))
	}

	info, err := os.Stat(dst)
	if err != nil {
		return fmt.Errorf("fetch command produced no output file: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("fetch command produced an empty file")
	}
	return nil
}
