package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/kevinmichaelchen/portfolio-feed/internal/feed"
)

type Config struct {
	GitHubUsername string
	GitHubToken    string
	GitHubAPIURL   string

	Profile      string
	ProfilesFile string
	Profiles     map[string]Profile
	Images       feed.ImageTable

	FetchTimeout time.Duration
	ListenAddr   string
	CORSOrigins  []string
	LogLevel     string
}

// Profile is one selection policy. The three built-in profiles mirror the
// variants the portfolio has shipped with.
type Profile struct {
	MaxResults         int  `toml:"max_results"`
	RequireDescription bool `toml:"require_description"`
	ExcludeArchived    bool `toml:"exclude_archived"`
	DescriptionCharCap int  `toml:"description_char_cap"`
	TechLabelCap       int  `toml:"tech_label_cap"`
}

func (p Profile) FeedOptions() feed.Options {
	opts := feed.Options{
		MaxResults:         p.MaxResults,
		RequireDescription: p.RequireDescription,
		ExcludeArchived:    p.ExcludeArchived,
		DescriptionCharCap: p.DescriptionCharCap,
		TechLabelCap:       p.TechLabelCap,
	}
	if opts.DescriptionCharCap == 0 {
		opts.DescriptionCharCap = feed.DefaultCharCap
	}
	if opts.TechLabelCap == 0 {
		opts.TechLabelCap = feed.DefaultTechLabelCap
	}
	return opts
}

func BuiltinProfiles() map[string]Profile {
	return map[string]Profile{
		"curated": {
			MaxResults:      5,
			ExcludeArchived: true,
		},
		"showcase": {
			MaxResults:         6,
			RequireDescription: true,
		},
		"compact": {
			MaxResults:      3,
			ExcludeArchived: true,
		},
	}
}

// profileFile is the layout of FEED_PROFILES_FILE:
//
//	default_image = "https://..."
//
//	[profiles.mine]
//	max_results = 4
//	exclude_archived = true
//
//	[images]
//	Go = "https://..."
type profileFile struct {
	DefaultImage string             `toml:"default_image"`
	Profiles     map[string]Profile `toml:"profiles"`
	Images       map[string]string  `toml:"images"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		GitHubUsername: getEnv("GITHUB_USERNAME", "jshubham1"),
		GitHubToken:    os.Getenv("GITHUB_TOKEN"),
		GitHubAPIURL:   getEnv("GITHUB_API_URL", "https://api.github.com"),

		Profile:      getEnv("FEED_PROFILE", "curated"),
		ProfilesFile: os.Getenv("FEED_PROFILES_FILE"),
		Profiles:     BuiltinProfiles(),
		Images:       feed.DefaultImages(),

		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		CORSOrigins: getEnvAsSlice("CORS_ORIGINS", ",", []string{"*"}),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	cfg.GitHubAPIURL = strings.TrimSuffix(cfg.GitHubAPIURL, "/")

	timeout, err := getEnvAsDuration("FETCH_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.FetchTimeout = timeout

	if cfg.ProfilesFile != "" {
		if err := cfg.loadProfileFile(cfg.ProfilesFile); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// loadProfileFile merges profiles and images from a TOML file over the
// built-ins. A profile with the same name as a built-in replaces it.
func (c *Config) loadProfileFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading profiles file: %w", err)
	}

	var pf profileFile
	md, err := toml.Decode(string(data), &pf)
	if err != nil {
		return fmt.Errorf("parsing profiles file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("parsing profiles file: unknown keys %s", strings.Join(keys, ", "))
	}

	for name, p := range pf.Profiles {
		c.Profiles[name] = p
	}
	c.Images = c.Images.Merge(pf.Images, pf.DefaultImage)
	return nil
}

// FeedOptions resolves the named profile, or the configured one when name
// is empty.
func (c *Config) FeedOptions(name string) (feed.Options, error) {
	if name == "" {
		name = c.Profile
	}
	p, ok := c.Profiles[name]
	if !ok {
		return feed.Options{}, fmt.Errorf("unknown profile %q (have %s)", name, strings.Join(c.ProfileNames(), ", "))
	}
	opts := p.FeedOptions()
	if err := opts.Validate(); err != nil {
		return feed.Options{}, fmt.Errorf("profile %q: %w", name, err)
	}
	return opts, nil
}

func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getEnvAsSlice(key, separator string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, v := range strings.Split(value, separator) {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
