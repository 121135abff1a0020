package bls

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/atusdev/timeuse-cli/internal/config"
	"github.com/atusdev/timeuse-cli/internal/fetcher"
)

// maxSeriesPerRequest is the BLS v2 limit for registered users.
const maxSeriesPerRequest = 50

// concurrentChunks bounds in-flight chunk requests; the fetcher's
// per-host rate limiter throttles below this.
const concurrentChunks = 4

// Client queries the BLS public data API v2.
type Client struct {
	f       fetcher.Fetcher
	baseURL string
	key     string
}

// NewClient creates a Client from config. An empty API key is allowed
// but subject to the unregistered daily quota.
func NewClient(f fetcher.Fetcher, cfg config.BLSConfig) *Client {
	return &Client{
		f:       f,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		key:     cfg.Key,
	}
}

// FetchSeries pulls the given series for the inclusive year range,
// chunking requests to stay under the per-request series limit.
// Results are returned in the order of the input IDs.
func (c *Client) FetchSeries(ctx context.Context, ids []string, startYear, endYear int) ([]Series, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if startYear > endYear {
		return nil, eris.Errorf("bls: start year %d after end year %d", startYear, endYear)
	}

	log := zap.L().With(zap.String("component", "bls"))

	var chunks [][]string
	for i := 0; i < len(ids); i += maxSeriesPerRequest {
		end := min(i+maxSeriesPerRequest, len(ids))
		chunks = append(chunks, ids[i:end])
	}

	var (
		mu       sync.Mutex
		bySeries = make(map[string]Series, len(ids))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrentChunks)

	for _, chunk := range chunks {
		g.Go(func() error {
			series, err := c.fetchChunk(gctx, chunk, startYear, endYear)
			if err != nil {
				return err
			}
			mu.Lock()
			for _, s := range series {
				bySeries[s.SeriesID] = s
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Series, 0, len(ids))
	for _, id := range ids {
		s, ok := bySeries[id]
		if !ok {
			log.Warn("series absent from response", zap.String("series", id))
			continue
		}
		out = append(out, s)
	}

	log.Info("fetched series",
		zap.Int("requested", len(ids)),
		zap.Int("returned", len(out)),
		zap.Int("chunks", len(chunks)))

	return out, nil
}

func (c *Client) fetchChunk(ctx context.Context, ids []string, startYear, endYear int) ([]Series, error) {
	payload, err := json.Marshal(request{
		SeriesIDs:       ids,
		StartYear:       strconv.Itoa(startYear),
		EndYear:         strconv.Itoa(endYear),
		Catalog:         true,
		Calculations:    true,
		AnnualAverage:   true,
		RegistrationKey: c.key,
	})
	if err != nil {
		return nil, eris.Wrap(err, "bls: marshal request")
	}

	body, err := c.f.PostJSON(ctx, c.baseURL+"/timeseries/data/", payload)
	if err != nil {
		return nil, eris.Wrap(err, "bls: post timeseries request")
	}
	defer body.Close()

	resp, err := decodeResponse(body)
	if err != nil {
		return nil, err
	}
	return resp.Results.Series, nil
}

// FetchLatest pulls only the most recent observation for a single series.
func (c *Client) FetchLatest(ctx context.Context, id string) (*Series, error) {
	url := fmt.Sprintf("%s/timeseries/data/%s?latest=true", c.baseURL, id)
	if c.key != "" {
		url += "&registrationkey=" + c.key
	}

	body, err := c.f.Download(ctx, url)
	if err != nil {
		return nil, eris.Wrapf(err, "bls: fetch latest for %s", id)
	}
	defer body.Close()

	resp, err := decodeResponse(body)
	if err != nil {
		return nil, err
	}
	if len(resp.Results.Series) == 0 {
		return nil, eris.Errorf("bls: no series in response for %s", id)
	}
	return &resp.Results.Series[0], nil
}

// FetchLatestMany pulls only the most recent observation for each of
// the given series in a single request.
func (c *Client) FetchLatestMany(ctx context.Context, ids []string) ([]Series, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	payload, err := json.Marshal(request{
		SeriesIDs:       ids,
		Latest:          true,
		RegistrationKey: c.key,
	})
	if err != nil {
		return nil, eris.Wrap(err, "bls: marshal latest request")
	}

	body, err := c.f.PostJSON(ctx, c.baseURL+"/timeseries/data/", payload)
	if err != nil {
		return nil, eris.Wrap(err, "bls: post latest request")
	}
	defer body.Close()

	resp, err := decodeResponse(body)
	if err != nil {
		return nil, err
	}
	return resp.Results.Series, nil
}

// decodeResponse parses the API envelope and rejects non-success statuses.
// BLS reports problems both via the status field and via message strings
// on otherwise successful responses.
func decodeResponse(r io.Reader) (*Response, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "bls: read response body")
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, eris.Wrap(err, "bls: decode response")
	}

	if resp.Status != statusSucceeded {
		msg := strings.Join(resp.Message, "; ")
		if msg == "" {
			msg = "no detail"
		}
		return nil, eris.Errorf("bls: request failed with status %s: %s", resp.Status, msg)
	}

	for _, m := range resp.Message {
		zap.L().Warn("api message", zap.String("component", "bls"), zap.String("message", m))
	}

	return &resp, nil
}
