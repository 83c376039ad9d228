package captcha

import (
	"context"
	"fmt"
	"time"

	"github.com/2captcha/2captcha-go"

	"rabota-collector/internal/config"
	"rabota-collector/internal/logging"
)

// Solver resolves anti-automation challenges encountered while fetching
// pages. rabota.by serves standard reCAPTCHA v2 interstitials when it
// suspects automation.
type Solver interface {
	SolveRecaptcha(ctx context.Context, siteKey, pageURL string) (string, error)
	Enabled() bool
}

// TwoCaptchaSolver implements Solver against the 2CAPTCHA service using the
// official client library.
type TwoCaptchaSolver struct {
	config *config.Config
	client *api2captcha.Client
	logger logging.Logger
}

// NewTwoCaptchaSolver creates a new 2CAPTCHA solver instance
func NewTwoCaptchaSolver(cfg *config.Config) *TwoCaptchaSolver {
	logger := logging.GetGlobalLogger().WithField("component", "2captcha")

	if cfg.Scraper.Captcha.APIKey == "" {
		logger.Warn("2CAPTCHA API key not configured, captcha solving disabled")
	}

	client := api2captcha.NewClient(cfg.Scraper.Captcha.APIKey)
	client.DefaultTimeout = int(cfg.Scraper.Captcha.Timeout.Seconds())
	client.RecaptchaTimeout = int(cfg.Scraper.Captcha.Timeout.Seconds())
	client.PollingInterval = 5

	return &TwoCaptchaSolver{
		config: cfg,
		client: client,
		logger: logger,
	}
}

// Enabled reports whether the solver can be used for this run.
func (s *TwoCaptchaSolver) Enabled() bool {
	return s.config.Scraper.Captcha.EnableAutoSolve && s.config.Scraper.Captcha.APIKey != ""
}

// SolveRecaptcha solves a reCAPTCHA v2 challenge and returns the response
// token to inject into the page.
func (s *TwoCaptchaSolver) SolveRecaptcha(ctx context.Context, siteKey, pageURL string) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("captcha auto-solve is disabled")
	}

	s.logger.Info("Solving reCAPTCHA challenge", map[string]interface{}{
		"site_key": siteKey,
		"page_url": pageURL,
	})

	start := time.Now()

	challenge := api2captcha.ReCaptcha{
		SiteKey: siteKey,
		Url:     pageURL,
	}

	type result struct {
		token string
		err   error
	}
	done := make(chan result, 1)

	go func() {
		token, _, err := s.client.Solve(challenge.ToRequest())
		done <- result{token, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			return "", fmt.Errorf("2captcha solve failed: %w", r.err)
		}

		s.logger.Info("reCAPTCHA solved", map[string]interface{}{
			"elapsed": time.Since(start).String(),
		})
		return r.token, nil
	}
}
