package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/hassaan22/minaret/internal/model"
)

// FetchError reports a failed asset resolve. The cache does not retry;
// the caller decides when to try again.
type FetchError struct {
	ID  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("asset %s fetch failed: %v", e.ID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Records persists resolved asset paths across restarts.
type Records interface {
	GetAssetRecord(id string) (*model.AudioAsset, error)
	UpsertAssetRecord(id, sourceURL, localPath string) error
	DeleteAssetRecord(id string) error
}

// Cache resolves logical asset identifiers to local ready files, with at
// most one concurrent fetch per identifier.
type Cache struct {
	dir     string
	fetcher Fetcher
	records Records

	group  singleflight.Group
	mu     sync.RWMutex
	states map[string]model.AssetState
}

func NewCache(dir string, fetcher Fetcher, records Records) *Cache {
	c := &Cache{
		dir:     dir,
		fetcher: fetcher,
		records: records,
		states:  make(map[string]model.AssetState),
	}
	c.restoreStates()
	return c
}

// restoreStates seeds the state map from persisted records so a restart
// reports ready assets without waiting for the first resolve.
func (c *Cache) restoreStates() {
	if c.records == nil {
		return
	}
	for _, id := range []string{model.AssetPrimary, model.AssetFajr} {
		rec, err := c.records.GetAssetRecord(id)
		if err != nil {
			log.Error().Err(err).Str("asset", id).Msg("failed to read asset record")
			continue
		}
		if rec == nil || rec.LocalPath == nil {
			continue
		}
		if _, err := os.Stat(*rec.LocalPath); err != nil {
			continue
		}
		c.states[id] = model.AssetReady
	}
}

// State reports the fetch state of an identifier.
func (c *Cache) State(id string) model.AssetState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if s, ok := c.states[id]; ok {
		return s
	}
	return model.AssetAbsent
}

// Fetching reports whether any identifier currently has a fetch in flight.
func (c *Cache) Fetching() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.states {
		if s == model.AssetFetching {
			return true
		}
	}
	return false
}

func (c *Cache) setState(id string, s model.AssetState) {
	c.mu.Lock()
	c.states[id] = s
	c.mu.Unlock()
}

// Resolve returns a local ready file for id, fetching from sourceURL on a
// miss. Concurrent calls for the same id share one fetch and receive the
// same result.
func (c *Cache) Resolve(ctx context.Context, id, sourceURL string) (string, error) {
	v, err, _ := c.group.Do(id, func() (interface{}, error) {
		return c.resolve(ctx, id, sourceURL)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Cache) resolve(ctx context.Context, id, sourceURL string) (string, error) {
	if sourceURL == "" {
		return "", &FetchError{ID: id, Err: fmt.Errorf("no source URL configured")}
	}

	outPath := filepath.Join(c.dir, id+".mp3")
	markerPath := filepath.Join(c.dir, "."+id+".url")

	// cached and still configured with the same source
	if cachedURL, err := os.ReadFile(markerPath); err == nil {
		if strings.TrimSpace(string(cachedURL)) == sourceURL {
			if _, err := os.Stat(outPath); err == nil {
				c.setState(id, model.AssetReady)
				return outPath, nil
			}
		} else {
			// source URL changed: discard the stale file
			log.Info().Str("asset", id).Msg("asset source changed, discarding cached file")
			os.Remove(outPath)
			os.Remove(markerPath)
			if c.records != nil {
				_ = c.records.DeleteAssetRecord(id)
			}
		}
	}

	c.setState(id, model.AssetFetching)
	log.Info().Str("asset", id).Str("url", sourceURL).Msg("fetching audio asset")

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		c.setState(id, model.AssetFailed)
		return "", &FetchError{ID: id, Err: err}
	}

	tmpPath := outPath + ".part"
	if err := c.obtain(ctx, sourceURL, tmpPath); err != nil {
		os.Remove(tmpPath)
		c.setState(id, model.AssetFailed)
		return "", &FetchError{ID: id, Err: err}
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		os.Remove(tmpPath)
		c.setState(id, model.AssetFailed)
		return "", &FetchError{ID: id, Err: err}
	}

	if err := os.WriteFile(markerPath, []byte(sourceURL), 0644); err != nil {
		log.Error().Err(err).Str("asset", id).Msg("failed to write asset marker")
	}
	if c.records != nil {
		if err := c.records.UpsertAssetRecord(id, sourceURL, outPath); err != nil {
			log.Error().Err(err).Str("asset", id).Msg("failed to persist asset record")
		}
	}

	c.setState(id, model.AssetReady)
	log.Info().Str("asset", id).Str("path", outPath).Msg("audio asset ready")
	return outPath, nil
}

// obtain copies a local source file directly, otherwise delegates to the
// configured fetcher.
func (c *Cache) obtain(ctx context.Context, sourceURL, dst string) error {
	if info, err := os.Stat(sourceURL); err == nil && !info.IsDir() {
		src, err := os.Open(sourceURL)
		if err != nil {
			return err
		}
		defer src.Close()

		out, err := os.Create(dst)
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, src); err != nil {
			out.Close()
			return err
		}
		return out.Close()
	}
	return c.fetcher.Fetch(ctx, sourceURL, dst)
}
