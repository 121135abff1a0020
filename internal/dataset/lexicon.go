package dataset

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/atusdev/timeuse-cli/internal/atus"
	"github.com/atusdev/timeuse-cli/internal/config"
	"github.com/atusdev/timeuse-cli/internal/fetcher"
)

// LexiconDataset downloads the ATUS activity coding lexicon workbook
// and loads its code rows into the store.
type LexiconDataset struct {
	cfg config.LexiconConfig
}

// NewLexiconDataset creates the lexicon dataset.
func NewLexiconDataset(cfg config.LexiconConfig) *LexiconDataset {
	return &LexiconDataset{cfg: cfg}
}

func (d *LexiconDataset) Name() string     { return "lexicon" }
func (d *LexiconDataset) Table() string    { return "lexicon" }
func (d *LexiconDataset) Group() Group     { return GroupReference }
func (d *LexiconDataset) Cadence() Cadence { return Annual }

func (d *LexiconDataset) ShouldRun(now time.Time, lastSync *time.Time) bool {
	return AnnualAfter(now, lastSync, atusReleaseMonth)
}

func (d *LexiconDataset) Sync(ctx context.Context, deps Deps) (*SyncResult, error) {
	log := zap.L().With(zap.String("dataset", d.Name()))
	log.Info("downloading lexicon", zap.String("url", d.cfg.URL))

	// The FTP mirror serves no ETags; only HTTP downloads are conditional.
	if strings.HasPrefix(d.cfg.URL, "ftp://") {
		codes, err := FetchLexiconCodes(ctx, deps.Fetcher, d.cfg.URL, deps.TempDir)
		if err != nil {
			return nil, err
		}
		return d.load(ctx, deps, codes, "", log)
	}

	var lastETag string
	if meta, err := deps.Store.LastSyncMetadata(ctx, d.Name()); err == nil {
		lastETag, _ = meta["etag"].(string)
	}

	body, etag, changed, err := deps.Fetcher.DownloadIfChanged(ctx, d.cfg.URL, lastETag)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: download lexicon %s", d.cfg.URL)
	}
	if !changed {
		log.Info("lexicon unchanged upstream", zap.String("etag", etag))
		return &SyncResult{Metadata: map[string]any{"etag": etag}}, nil
	}
	defer body.Close()

	codes, err := parseLexiconBody(ctx, body, d.cfg.URL, deps.TempDir)
	if err != nil {
		return nil, err
	}
	return d.load(ctx, deps, codes, etag, log)
}

func (d *LexiconDataset) load(ctx context.Context, deps Deps, codes []atus.ActivityCode, etag string, log *zap.Logger) (*SyncResult, error) {
	if len(codes) == 0 {
		return nil, eris.Errorf("dataset: no activity codes in %s", d.cfg.URL)
	}

	n, err := deps.Store.UpsertLexicon(ctx, codes)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: upsert lexicon")
	}

	log.Info("lexicon synced", zap.Int64("codes", n))
	res := &SyncResult{RowsSynced: n}
	if etag != "" {
		res.Metadata = map[string]any{"etag": etag}
	}
	return res, nil
}

// parseLexiconBody parses a downloaded lexicon body. XLSX workbooks are
// spooled to the temp dir first since the reader needs a seekable file.
func parseLexiconBody(ctx context.Context, body io.Reader, url, tempDir string) ([]atus.ActivityCode, error) {
	if strings.HasSuffix(strings.ToLower(url), ".csv") {
		rows, err := fetcher.ReadCSV(ctx, body, fetcher.CSVOptions{})
		if err != nil {
			return nil, eris.Wrap(err, "dataset: read lexicon csv")
		}
		return atus.ParseLexiconRows(rows), nil
	}

	path := filepath.Join(tempDir, "lexicon.xlsx")
	file, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: create temp workbook")
	}
	if _, err := io.Copy(file, body); err != nil {
		file.Close()
		return nil, eris.Wrap(err, "dataset: write temp workbook")
	}
	if err := file.Close(); err != nil {
		return nil, eris.Wrap(err, "dataset: write temp workbook")
	}
	defer os.Remove(path)

	rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{})
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read lexicon workbook")
	}
	return atus.ParseLexiconRows(rows), nil
}

// FetchLexiconCodes downloads a lexicon workbook (XLSX or CSV, over
// https or the BLS ftp mirror) and parses its activity code rows.
func FetchLexiconCodes(ctx context.Context, f fetcher.Fetcher, url, tempDir string) ([]atus.ActivityCode, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(url), ".csv"):
		body, err := f.Download(ctx, url)
		if err != nil {
			return nil, eris.Wrapf(err, "dataset: download lexicon %s", url)
		}
		defer body.Close()

		rows, err := fetcher.ReadCSV(ctx, body, fetcher.CSVOptions{})
		if err != nil {
			return nil, eris.Wrap(err, "dataset: read lexicon csv")
		}
		return atus.ParseLexiconRows(rows), nil

	default:
		path := filepath.Join(tempDir, "lexicon.xlsx")
		if _, err := f.DownloadToFile(ctx, url, path); err != nil {
			return nil, eris.Wrapf(err, "dataset: download lexicon %s", url)
		}
		defer os.Remove(path)

		rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{})
		if err != nil {
			return nil, eris.Wrap(err, "dataset: read lexicon workbook")
		}
		return atus.ParseLexiconRows(rows), nil
	}
}

// LoadLexiconFile parses a local lexicon file (XLSX or CSV) without
// downloading. Used by the lexicon command's file argument.
func LoadLexiconFile(ctx context.Context, path string) ([]atus.ActivityCode, error) {
	if strings.HasSuffix(strings.ToLower(path), ".csv") {
		file, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "dataset: open lexicon %s", path)
		}
		defer file.Close()

		rows, err := fetcher.ReadCSV(ctx, file, fetcher.CSVOptions{})
		if err != nil {
			return nil, eris.Wrap(err, "dataset: read lexicon csv")
		}
		return atus.ParseLexiconRows(rows), nil
	}

	rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{})
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read lexicon workbook %s", path)
	}
	return atus.ParseLexiconRows(rows), nil
}
