// Package melnode is an indexer client for the JSON gateway of a Mel node.
package melnode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goodnatureofminers/melindex-backend/internal/chain"
	"github.com/goodnatureofminers/melindex-backend/internal/model"
	"go.uber.org/ratelimit"
)

type Metrics interface {
	Observe(operation string, err error, started time.Time)
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	// RPS caps outgoing requests, 0 disables the limit.
	RPS        int
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	http    *http.Client
	limiter ratelimit.Limiter
	metrics Metrics
}

func NewClient(cfg Config, metrics Metrics) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("node url is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("parse node url: %w", err)
	}
	if metrics == nil {
		return nil, errors.New("node client metrics is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	limiter := ratelimit.NewUnlimited()
	if cfg.RPS > 0 {
		limiter = ratelimit.New(cfg.RPS)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    client,
		limiter: limiter,
		metrics: metrics,
	}, nil
}

func (c *Client) LatestHeight(ctx context.Context) (height uint64, err error) {
	start := time.Now()
	defer func() {
		c.metrics.Observe("latest_height", err, start)
	}()

	var resp heightResponse
	if err := c.getJSON(ctx, "/v1/height", &resp); err != nil {
		return 0, fmt.Errorf("latest height: %w", err)
	}
	return resp.Height, nil
}

func (c *Client) Block(ctx context.Context, height uint64) (block *model.Block, err error) {
	start := time.Now()
	defer func() {
		c.metrics.Observe("block", err, start)
	}()

	var resp blockResponse
	if err := c.getJSON(ctx, "/v1/blocks/"+strconv.FormatUint(height, 10), &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, chain.ErrBlockNotAvailable
		}
		return nil, fmt.Errorf("block %d: %w", height, err)
	}
	block, err = resp.toModel()
	if err != nil {
		return nil, fmt.Errorf("decode block %d: %w", height, err)
	}
	if block.Header.Height != height {
		return nil, fmt.Errorf("block %d: node returned height %d", height, block.Header.Height)
	}
	return block, nil
}

func (c *Client) Coin(ctx context.Context, height uint64, id model.CoinID) (coin model.CoinDataHeight, err error) {
	start := time.Now()
	defer func() {
		c.metrics.Observe("coin", err, start)
	}()

	path := fmt.Sprintf("/v1/coins/%d/%s/%d", height, id.TxHash, id.Index)
	if err := c.getJSON(ctx, path, &coin); err != nil {
		if errors.Is(err, errNotFound) {
			return model.CoinDataHeight{}, chain.ErrCoinNotFound
		}
		return model.CoinDataHeight{}, fmt.Errorf("coin %s at %d: %w", id, height, err)
	}
	return coin, nil
}

func (c *Client) TransactionCoins(ctx context.Context, height uint64, txhash model.TxHash, indexes []uint32) (coins map[uint32]model.CoinData, err error) {
	start := time.Now()
	defer func() {
		c.metrics.Observe("transaction_coins", err, start)
	}()

	q := url.Values{}
	for _, idx := range indexes {
		q.Add("index", strconv.FormatUint(uint64(idx), 10))
	}
	path := fmt.Sprintf("/v1/transactions/%d/%s/coins", height, txhash)
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp transactionCoinsResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return map[uint32]model.CoinData{}, nil
		}
		return nil, fmt.Errorf("coins of %s at %d: %w", txhash, height, err)
	}
	if resp.Coins == nil {
		resp.Coins = map[uint32]model.CoinData{}
	}
	return resp.Coins, nil
}

var errNotFound = errors.New("not found")

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	c.limiter.Take()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound
	case resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
