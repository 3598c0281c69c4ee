package source

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"github.com/KaramelBytes/telecomx-cli/internal/frame"
	"github.com/KaramelBytes/telecomx-cli/internal/logging"
)

// Loader resolves a dataset location (URL or file) into raw JSON bytes,
// optionally going through an on-disk zstd cache for remote payloads.
type Loader struct {
	Fetcher  *Fetcher
	CacheDir string // empty disables caching
	Refresh  bool   // ignore cached copies
	Log      *zap.Logger
}

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// Load returns the decompressed payload behind location.
func (l *Loader) Load(ctx context.Context, location string) ([]byte, error) {
	log := logging.OrNop(l.Log)
	if !IsRemote(location) {
		path := strings.TrimPrefix(location, "file://")
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read dataset: %w", err)
		}
		return Decompress(path, b)
	}
	cachePath := ""
	if l.CacheDir != "" {
		cachePath = CachePath(l.CacheDir, location)
		if !l.Refresh {
			if b, err := readCache(cachePath); err == nil {
				log.Debug("dataset served from cache", zap.String("path", cachePath))
				return b, nil
			} else if !errors.Is(err, fs.ErrNotExist) {
				log.Warn("ignoring unreadable cache entry", zap.String("path", cachePath), zap.Error(err))
			}
		}
	}
	f := l.Fetcher
	if f == nil {
		f = NewFetcher(0, 0, 0, 0, log)
	}
	b, err := f.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	if cachePath != "" {
		if err := writeCache(cachePath, b); err != nil {
			log.Warn("could not cache dataset", zap.String("path", cachePath), zap.Error(err))
		}
	}
	return b, nil
}

// LoadNormalized loads location, decodes the records and flattens nested
// objects with "_" into a DataFrame. Columns holding only JSON numbers become
// Int (or Float when fractional or partly null); everything else stays String.
func (l *Loader) LoadNormalized(ctx context.Context, location string) (dataframe.DataFrame, error) {
	b, err := l.Load(ctx, location)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	recs, err := Decode(b)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	header, rows := Flatten(recs, "_")
	logging.OrNop(l.Log).Info("dataset normalized", zap.Int("rows", len(rows)), zap.Int("columns", len(header)))
	df, err := frame.FromRecords(header, rows)
	if err != nil {
		return df, err
	}
	for _, nc := range NumericColumns(recs, "_") {
		t := series.Float
		if nc.Integral {
			t = series.Int
		}
		if df, err = frame.AsType(df, nc.Name, t); err != nil {
			return df, err
		}
	}
	return df, nil
}

// CachePath maps a URL onto its cache file.
func CachePath(dir, url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(dir, hex.EncodeToString(sum[:8])+".json.zst")
}

func readCache(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decompress(path, b)
}

func writeCache(path string, payload []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}
	defer enc.Close()
	return os.WriteFile(path, enc.EncodeAll(payload, nil), 0o644)
}

// Decompress inflates b according to the .gz/.zst suffix of name; other names pass through.
func Decompress(name string, b []byte) ([]byte, error) {
	switch {
	case strings.HasSuffix(name, ".gz"):
		zr, err := gzip.NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return out, nil
	case strings.HasSuffix(name, ".zst"):
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(b, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return out, nil
	}
	return b, nil
}
