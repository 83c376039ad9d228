package config

import (
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Collector struct {
		OutputDir         string        `yaml:"output_dir" default:"data"`
		DelayBetweenItems time.Duration `yaml:"delay_between_items" default:"100ms"`
		DelayBetweenPages time.Duration `yaml:"delay_between_pages" default:"200ms"`
		ProgressEvery     int           `yaml:"progress_every" default:"10"`
	} `yaml:"collector"`

	Sources struct {
		SearchLinksFile     string `yaml:"search_links_file" default:"configs/search_links.txt"`
		SpecializationsFile string `yaml:"specializations_file" default:"configs/specializations.txt"`
	} `yaml:"sources"`

	Scraper struct {
		Engine         string        `yaml:"engine" default:"headed" validate:"oneof=headed firecrawl"`
		UserAgent      string        `yaml:"user_agent"`
		MaxRetries     int           `yaml:"max_retries" default:"3" validate:"min=1"`
		RequestTimeout time.Duration `yaml:"request_timeout" default:"30s"`
		HeadlessMode   bool          `yaml:"headless_mode" default:"true"`
		StealthMode    bool          `yaml:"stealth_mode" default:"true"`
		Captcha        struct {
			Provider        string        `yaml:"provider" default:"2captcha"`
			APIKey          string        `yaml:"api_key"`
			Timeout         time.Duration `yaml:"timeout" default:"120s"`
			EnableAutoSolve bool          `yaml:"enable_auto_solve" default:"true"`
		} `yaml:"captcha"`
	} `yaml:"scraper"`

	BrowserPool struct {
		MaxInstances  int           `yaml:"max_instances" default:"1"`
		LaunchRetries int           `yaml:"launch_retries" default:"3"`
		RetryDelay    time.Duration `yaml:"retry_delay" default:"3s"`
	} `yaml:"browser_pool"`

	Firecrawl struct {
		APIKey     string        `yaml:"api_key"`
		APIURL     string        `yaml:"api_url" default:"https://api.firecrawl.dev"`
		Timeout    time.Duration `yaml:"timeout" default:"60s"`
		MaxRetries int           `yaml:"max_retries" default:"3"`
	} `yaml:"firecrawl"`

	Harmonize struct {
		// NetAdjustmentFactor converts gross salaries to net. 0.87 would
		// model a different withholding rate; the default matches the
		// Belarusian income tax.
		NetAdjustmentFactor float64 `yaml:"net_adjustment_factor" default:"0.85" validate:"gt=0,lte=1"`
		SalaryRoundingStep  int     `yaml:"salary_rounding_step" default:"50" validate:"min=1"`
	} `yaml:"harmonize"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Collector.OutputDir = "data"
	config.Collector.DelayBetweenItems = 100 * time.Millisecond
	config.Collector.DelayBetweenPages = 200 * time.Millisecond
	config.Collector.ProgressEvery = 10

	config.Sources.SearchLinksFile = "configs/search_links.txt"
	config.Sources.SpecializationsFile = "configs/specializations.txt"

	config.Scraper.Engine = "headed"
	config.Scraper.MaxRetries = 3
	config.Scraper.RequestTimeout = 30 * time.Second
	config.Scraper.HeadlessMode = true
	config.Scraper.StealthMode = true
	config.Scraper.UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	config.Scraper.Captcha.Provider = "2captcha"
	config.Scraper.Captcha.Timeout = 120 * time.Second
	config.Scraper.Captcha.EnableAutoSolve = true

	config.BrowserPool.MaxInstances = 1
	config.BrowserPool.LaunchRetries = 3
	config.BrowserPool.RetryDelay = 3 * time.Second

	config.Firecrawl.APIURL = "https://api.firecrawl.dev"
	config.Firecrawl.Timeout = 60 * time.Second
	config.Firecrawl.MaxRetries = 3

	config.Harmonize.NetAdjustmentFactor = 0.85
	config.Harmonize.SalaryRoundingStep = 50

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			// Expand environment variables in the YAML content
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	if err := validator.New().Struct(config); err != nil {
		return nil, err
	}

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if outputDir := os.Getenv("OUTPUT_DIR"); outputDir != "" {
		c.Collector.OutputDir = outputDir
	}

	if delay := os.Getenv("DELAY_BETWEEN_ITEMS"); delay != "" {
		if d, err := time.ParseDuration(delay); err == nil {
			c.Collector.DelayBetweenItems = d
		}
	}

	if delay := os.Getenv("DELAY_BETWEEN_PAGES"); delay != "" {
		if d, err := time.ParseDuration(delay); err == nil {
			c.Collector.DelayBetweenPages = d
		}
	}

	if linksFile := os.Getenv("SEARCH_LINKS_FILE"); linksFile != "" {
		c.Sources.SearchLinksFile = linksFile
	}

	if namesFile := os.Getenv("SPECIALIZATIONS_FILE"); namesFile != "" {
		c.Sources.SpecializationsFile = namesFile
	}

	if engine := os.Getenv("SCRAPER_ENGINE"); engine != "" {
		c.Scraper.Engine = engine
	}

	if userAgent := os.Getenv("SCRAPER_USER_AGENT"); userAgent != "" {
		c.Scraper.UserAgent = userAgent
	}

	if maxRetries := os.Getenv("SCRAPER_MAX_RETRIES"); maxRetries != "" {
		if retries, err := strconv.Atoi(maxRetries); err == nil {
			c.Scraper.MaxRetries = retries
		}
	}

	if timeout := os.Getenv("SCRAPER_REQUEST_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Scraper.RequestTimeout = d
		}
	}

	if headless := os.Getenv("SCRAPER_HEADLESS"); headless != "" {
		c.Scraper.HeadlessMode = headless == "true" || headless == "1"
	}

	if captchaAPIKey := os.Getenv("CAPTCHA_API_KEY"); captchaAPIKey != "" {
		c.Scraper.Captcha.APIKey = captchaAPIKey
	}

	// Also support 2CAPTCHA_API_KEY for compatibility
	if captchaAPIKey := os.Getenv("2CAPTCHA_API_KEY"); captchaAPIKey != "" {
		c.Scraper.Captcha.APIKey = captchaAPIKey
	}

	if firecrawlAPIKey := os.Getenv("FIRECRAWL_API_KEY"); firecrawlAPIKey != "" {
		c.Firecrawl.APIKey = firecrawlAPIKey
	}

	if firecrawlAPIURL := os.Getenv("FIRECRAWL_API_URL"); firecrawlAPIURL != "" {
		c.Firecrawl.APIURL = firecrawlAPIURL
	}

	if factor := os.Getenv("NET_ADJUSTMENT_FACTOR"); factor != "" {
		if f, err := strconv.ParseFloat(factor, 64); err == nil {
			c.Harmonize.NetAdjustmentFactor = f
		}
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}
}
