package headed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"

	"rabota-collector/internal/config"
	"rabota-collector/internal/logging"
	"rabota-collector/internal/scraper/captcha"
)

// RodFetcher fetches rendered pages through a local Chrome driven by Rod.
// When the site answers with a reCAPTCHA interstitial the fetcher solves it
// in place (if a solver is configured) and returns the page behind it.
type RodFetcher struct {
	config  *config.Config
	manager *BrowserManager
	solver  captcha.Solver
	logger  logging.Logger
}

// NewRodFetcher creates a new Rod-based fetcher.
func NewRodFetcher(cfg *config.Config) *RodFetcher {
	return &RodFetcher{
		config:  cfg,
		manager: NewBrowserManager(cfg),
		solver:  captcha.NewTwoCaptchaSolver(cfg),
		logger:  logging.GetGlobalLogger(),
	}
}

// FetchPage navigates to the URL and returns the rendered HTML.
func (rf *RodFetcher) FetchPage(ctx context.Context, url string) (string, error) {
	page, err := rf.manager.Page(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get browser page: %w", err)
	}
	defer func() {
		_ = rod.Try(func() { page.MustClose() })
	}()

	navCtx, cancel := context.WithTimeout(ctx, rf.config.Scraper.RequestTimeout)
	defer cancel()

	if err := rod.Try(func() {
		page.Context(navCtx).MustNavigate(url).MustWaitLoad()
	}); err != nil {
		return "", fmt.Errorf("failed to navigate to %s: %w", url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get page HTML: %w", err)
	}

	if siteKey := findRecaptchaSiteKey(page); siteKey != "" && rf.solver.Enabled() {
		html, err = rf.solveAndReload(ctx, page, siteKey, url)
		if err != nil {
			return "", err
		}
	}

	return html, nil
}

// solveAndReload runs the configured solver against the page's challenge,
// injects the token and waits for the page behind the interstitial.
func (rf *RodFetcher) solveAndReload(ctx context.Context, page *rod.Page, siteKey, url string) (string, error) {
	rf.logger.Warn("Captcha challenge detected", map[string]interface{}{
		"url": url,
	})

	token, err := rf.solver.SolveRecaptcha(ctx, siteKey, url)
	if err != nil {
		return "", fmt.Errorf("captcha solve failed for %s: %w", url, err)
	}

	if err := injectRecaptchaToken(page, token); err != nil {
		return "", err
	}

	// Let the redirect behind the interstitial settle.
	time.Sleep(2 * time.Second)

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get page HTML after captcha: %w", err)
	}

	return html, nil
}

// findRecaptchaSiteKey returns the challenge site key when the current page
// is a reCAPTCHA interstitial, or "" for a normal page.
func findRecaptchaSiteKey(page *rod.Page) string {
	var siteKey string
	_ = rod.Try(func() {
		result := page.MustEval(`() => {
			const el = document.querySelector('.g-recaptcha[data-sitekey], [data-qa="captcha"] [data-sitekey]');
			return el ? el.getAttribute('data-sitekey') : '';
		}`)
		siteKey = strings.TrimSpace(result.Str())
	})
	return siteKey
}

// injectRecaptchaToken places the solved token into the response elements
// and submits the challenge form.
func injectRecaptchaToken(page *rod.Page, token string) error {
	js := fmt.Sprintf(`() => {
		const response = document.getElementById('g-recaptcha-response');
		if (response) {
			response.innerHTML = '%s';
		}
		for (const el of document.querySelectorAll('[name="g-recaptcha-response"]')) {
			el.value = '%s';
		}
		for (const form of document.querySelectorAll('form')) {
			if (form.querySelector('.g-recaptcha') || form.querySelector('[name="g-recaptcha-response"]')) {
				form.submit();
				break;
			}
		}
	}`, token, token)

	if err := rod.Try(func() {
		page.MustEval(js)
	}); err != nil {
		return fmt.Errorf("failed to inject captcha solution: %w", err)
	}

	return nil
}

// Cleanup releases the browser.
func (rf *RodFetcher) Cleanup() {
	rf.manager.Cleanup()
}

// IsHealthy reports whether the underlying browser can serve pages.
func (rf *RodFetcher) IsHealthy() bool {
	return rf.manager.IsHealthy()
}
