// Package store exports prepared frames to compressed CSV files and SQL databases.
package store

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/KaramelBytes/telecomx-cli/internal/frame"
	"github.com/KaramelBytes/telecomx-cli/internal/utils"
)

// WriteCSV writes df to path, compressing with gzip or zstd when the name
// ends in .gz or .zst.
func WriteCSV(df dataframe.DataFrame, path string) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("ensure dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	bw := bufio.NewWriter(f)
	var w io.WriteCloser
	switch {
	case strings.HasSuffix(path, ".gz"):
		w = gzip.NewWriter(bw)
	case strings.HasSuffix(path, ".zst"):
		zw, zerr := zstd.NewWriter(bw)
		if zerr != nil {
			return fmt.Errorf("zstd: %w", zerr)
		}
		w = zw
	default:
		w = nopCloser{bw}
	}
	if err := frame.WriteCSV(df, w); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close compressor: %w", err)
	}
	return bw.Flush()
}

// ReadCSV reads a file written by WriteCSV, inflating .gz/.zst transparently.
func ReadCSV(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	var r io.Reader = bufio.NewReader(f)
	switch {
	case strings.HasSuffix(path, ".gz"):
		zr, err := gzip.NewReader(r)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()
		r = zr
	case strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(r)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("zstd: %w", err)
		}
		defer zr.Close()
		r = zr
	}
	return frame.ReadCSV(r)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
