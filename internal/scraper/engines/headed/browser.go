package headed

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"rabota-collector/internal/config"
	"rabota-collector/internal/logging"
)

// BrowserManager owns the Chrome instance the headed engine fetches through.
// The collector processes items strictly one at a time, so a single managed
// browser is enough; it is launched lazily and relaunched if it dies.
type BrowserManager struct {
	config   *config.Config
	launcher *launcher.Launcher
	browser  *rod.Browser
	mu       sync.Mutex
	logger   logging.Logger
}

// NewBrowserManager creates a new browser manager
func NewBrowserManager(cfg *config.Config) *BrowserManager {
	logger := logging.GetGlobalLogger()

	l := launcher.New().
		Headless(cfg.Scraper.HeadlessMode).
		NoSandbox(true).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("window-size", "1920,1080")

	// Use system-installed Chrome/Chromium instead of downloading
	if chromePath := getSystemChromePath(); chromePath != "" {
		l = l.Bin(chromePath)
		logger.Info("Using system Chrome browser", map[string]interface{}{
			"chrome_path": chromePath,
		})
	} else {
		logger.Warn("System Chrome not found, Rod will download browser")
	}

	if cfg.Scraper.UserAgent != "" {
		l = l.Set("user-agent", cfg.Scraper.UserAgent)
	}

	return &BrowserManager{
		config:   cfg,
		launcher: l,
		logger:   logger,
	}
}

// Page returns a fresh page on a healthy browser, launching or relaunching
// the browser as needed. Launching is retried: Chrome startup is flaky
// enough under automation that a single failed attempt means little.
func (bm *BrowserManager) Page(ctx context.Context) (*rod.Page, error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.browser != nil && !bm.isBrowserHealthy(bm.browser) {
		bm.logger.Warn("Browser became unhealthy, relaunching")
		bm.closeLocked()
	}

	if bm.browser == nil {
		browser, err := bm.launchWithRetries(ctx)
		if err != nil {
			return nil, err
		}
		bm.browser = browser
	}

	page, err := bm.createPage(bm.browser)
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return page, nil
}

func (bm *BrowserManager) launchWithRetries(ctx context.Context) (*rod.Browser, error) {
	retries := bm.config.BrowserPool.LaunchRetries
	if retries < 1 {
		retries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		browser, err := bm.launch()
		if err == nil {
			bm.logger.Info("Browser launched", map[string]interface{}{
				"attempt": attempt,
			})
			return browser, nil
		}

		lastErr = err
		bm.logger.Warn("Browser launch failed", map[string]interface{}{
			"attempt": attempt,
			"error":   err.Error(),
		})

		if attempt < retries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(bm.config.BrowserPool.RetryDelay):
			}
		}
	}

	return nil, fmt.Errorf("failed to launch browser after %d attempts: %w", retries, lastErr)
}

func (bm *BrowserManager) launch() (*rod.Browser, error) {
	url, err := bm.launcher.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return browser, nil
}

// createPage creates a page, stealth-wrapped when stealth mode is enabled,
// with a common desktop viewport and the configured user agent.
func (bm *BrowserManager) createPage(browser *rod.Browser) (*rod.Page, error) {
	var page *rod.Page
	var err error

	if bm.config.Scraper.StealthMode {
		page, err = stealth.Page(browser)
	} else {
		page, err = browser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		return nil, err
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1920,
		Height:            1080,
		DeviceScaleFactor: 1,
	}); err != nil {
		bm.logger.Warn("Failed to set viewport", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if bm.config.Scraper.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent: bm.config.Scraper.UserAgent,
		}); err != nil {
			bm.logger.Warn("Failed to set user agent", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return page, nil
}

func (bm *BrowserManager) isBrowserHealthy(browser *rod.Browser) bool {
	return rod.Try(func() {
		browser.MustPages()
	}) == nil
}

func (bm *BrowserManager) closeLocked() {
	if bm.browser != nil {
		if bm.isBrowserHealthy(bm.browser) {
			bm.browser.MustClose()
		}
		bm.browser = nil
	}
}

// IsHealthy reports whether the manager can currently serve pages.
func (bm *BrowserManager) IsHealthy() bool {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.browser == nil || bm.isBrowserHealthy(bm.browser)
}

// Cleanup closes the browser and the launcher.
func (bm *BrowserManager) Cleanup() {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	bm.closeLocked()
	bm.launcher.Cleanup()
	bm.logger.Info("Browser manager cleanup completed")
}

// getSystemChromePath finds the system-installed Chrome/Chromium browser
func getSystemChromePath() string {
	// Environment variables win (container configuration)
	if chromeBin := os.Getenv("CHROME_BIN"); chromeBin != "" {
		if _, err := os.Stat(chromeBin); err == nil {
			return chromeBin
		}
	}

	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
		}
	}

	commonPaths := []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/opt/google/chrome/chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"C:\\Program Files\\Google\\Chrome\\Application\\chrome.exe",
		"C:\\Program Files (x86)\\Google\\Chrome\\Application\\chrome.exe",
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
