package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/KaramelBytes/telecomx-cli/internal/churn"
	cfgpkg "github.com/KaramelBytes/telecomx-cli/internal/config"
	"github.com/KaramelBytes/telecomx-cli/internal/source"
	"github.com/KaramelBytes/telecomx-cli/internal/store"
)

// currentConfig returns the loaded config, loading it lazily when the
// OnInitialize hook could not.
func currentConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}

func dataLocation(c *cfgpkg.Global) string {
	if flagData != "" {
		return flagData
	}
	return c.SourceURL
}

func newLoader(c *cfgpkg.Global, refresh bool) *source.Loader {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }
	f := source.NewFetcher(time.Duration(c.HTTPTimeoutSec)*time.Second, c.RetryMaxAttempts, ms(c.RetryBaseDelayMs), ms(c.RetryMaxDelayMs), logger)
	return &source.Loader{Fetcher: f, CacheDir: c.CacheDir, Refresh: refresh, Log: logger}
}

// isPreparedCSV reports whether location names a CSV written by "prepare".
func isPreparedCSV(location string) bool {
	if source.IsRemote(location) {
		return false
	}
	l := strings.ToLower(location)
	l = strings.TrimSuffix(strings.TrimSuffix(l, ".gz"), ".zst")
	return strings.HasSuffix(l, ".csv")
}

// loadRaw returns the flattened dataset before any cleaning.
func loadRaw(ctx context.Context, refresh bool) (dataframe.DataFrame, error) {
	c, err := currentConfig()
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	loc := dataLocation(c)
	if isPreparedCSV(loc) {
		return dataframe.DataFrame{}, fmt.Errorf("%s is already prepared; pass the raw JSON export", loc)
	}
	return newLoader(c, refresh).LoadNormalized(ctx, loc)
}

// loadPrepared returns the cleaned, recoded dataset. Prepared CSVs are read as is.
func loadPrepared(ctx context.Context) (dataframe.DataFrame, error) {
	c, err := currentConfig()
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	loc := dataLocation(c)
	if isPreparedCSV(loc) {
		logger.Debug("reading prepared dataset")
		return store.ReadCSV(loc)
	}
	df, err := newLoader(c, false).LoadNormalized(ctx, loc)
	if err != nil {
		return df, err
	}
	res, err := churn.Prepare(df, logger)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return res.Frame, nil
}
