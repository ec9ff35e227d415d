package enrichment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/spigell/search-calculator/internal/ai"
	"github.com/spigell/search-calculator/internal/logger"
	"github.com/spigell/search-calculator/internal/utils"
)

const (
	DefaultTimeout      = 90 * time.Second
	MaxTimeout          = 120 * time.Second
	defaultRetryDelay   = 2 * time.Second
	defaultMaxLogLength = 200
	maxRetries          = 1
)

// Config controls how the client talks to the provider.
type Config struct {
	Provider      string        `mapstructure:"provider"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetries    int           `mapstructure:"max-retries"`
	RetryDelay    time.Duration `mapstructure:"retry-delay"`
	RatePerMinute int           `mapstructure:"rate-per-minute"`
	MaxLogLength  int           `mapstructure:"max-log-length"`
}

// Client turns scored requests into narratives through a Generator. Calls
// are bounded by a per-attempt timeout, retried at most once, rate limited,
// and identical concurrent prompts share one upstream call.
type Client struct {
	generator  ai.Generator
	provider   string
	logger     *zap.Logger
	timeout    time.Duration
	retries    int
	retryDelay time.Duration
	maxLogLen  int
	limiter    *rate.Limiter
	group      singleflight.Group
}

func New(generator ai.Generator, cfg Config, log *zap.Logger) (*Client, error) {
	if generator == nil {
		return nil, eris.New("enrichment generator is required")
	}

	timeout := cfg.Timeout
	switch {
	case timeout <= 0:
		timeout = DefaultTimeout
	case timeout > MaxTimeout:
		timeout = MaxTimeout
	}

	retries := min(max(cfg.MaxRetries, 0), maxRetries)

	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}

	maxLogLen := cfg.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLength
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RatePerMinute)/60), cfg.RatePerMinute)
	}

	return &Client{
		generator:  generator,
		provider:   cfg.Provider,
		logger:     logger.WithAIFields(log, cfg.Provider, generator.Model()),
		timeout:    timeout,
		retries:    retries,
		retryDelay: retryDelay,
		maxLogLen:  maxLogLen,
		limiter:    limiter,
	}, nil
}

// Enrich asks the model for a narrative about in. Concurrent calls with an
// identical prompt share one upstream call and each receive a deep copy of
// its result. The shared call is detached from any single caller: it is
// bounded by the client's own timeouts, and a caller whose ctx ends stops
// waiting without failing the others.
func (c *Client) Enrich(ctx context.Context, in Input) (*Narrative, error) {
	system, prompt, err := BuildPrompt(in)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256([]byte(system + "\x00" + prompt))
	key := hex.EncodeToString(sum[:])

	ch := c.group.DoChan(key, func() (any, error) {
		return c.generate(context.WithoutCancel(ctx), system, prompt)
	})

	select {
	case <-ctx.Done():
		return nil, eris.Wrap(ctx.Err(), "enrichment abandoned")
	case res := <-ch:
		if res.Shared {
			c.logger.Debug("enrichment result shared", zap.String("prompt_hash", key[:12]))
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Narrative).Clone(), nil
	}
}

func (c *Client) generate(ctx context.Context, system, prompt string) (*Narrative, error) {
	attempts := 1 + c.retries

	c.logger.Debug("enrichment request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, c.maxLogLen)),
	)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if err := utils.WaitFor(ctx, c.retryDelay); err != nil {
				return nil, eris.Wrap(err, "wait before retry")
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "enrichment rate limit")
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		raw, err := c.generator.GenerateContent(attemptCtx, system, prompt)
		cancel()

		if err != nil {
			lastErr = err
			c.logger.Warn("enrichment attempt failed",
				zap.Int("attempt", attempt),
				zap.Int("attempts", attempts),
				zap.Error(err),
			)
			continue
		}

		c.logger.Debug("enrichment response",
			zap.Int("attempt", attempt),
			zap.Int("response_length", utf8.RuneCountInString(raw)),
			zap.String("response_preview", logger.TruncateForLog(raw, c.maxLogLen)),
		)

		return ParseNarrative(raw)
	}

	return nil, eris.Wrapf(lastErr, "enrichment failed after %d attempt(s)", attempts)
}

// Model returns the underlying model name.
func (c *Client) Model() string {
	return c.generator.Model()
}

// Provider returns the configured provider name.
func (c *Client) Provider() string {
	return c.provider
}
