package main

import (
	"fmt"
	"net/url"
	"strings"

	"solecraft/constants"

	"github.com/spf13/viper"
)

// Config is the full configuration surface, resolved exactly once at startup.
// Handlers and services receive values from here instead of reading viper at
// call sites (the mail sender is the one exception, it keeps the smtp.* keys).
type Config struct {
	// DatabasePath is the sqlite file backing the submission collection and
	// the admin user table. Empty means no backend is configured: every write
	// fails with ErrStoreUnavailable and every read returns nothing.
	DatabasePath string

	// AppID scopes the collection path: artifacts/{AppID}/public/data/submissions.
	AppID string

	// BootstrapToken, when set, is exchanged for the service session at
	// startup instead of an anonymous sign-in.
	BootstrapToken string

	// AdminSecret enables shared-secret admin login (Mode A). Empty means no
	// password ever matches.
	AdminSecret string

	// DelegatedAdmin selects identity-provider admin login (Mode B). It only
	// takes effect when a database is configured; otherwise Mode A applies.
	DelegatedAdmin bool

	// AdminStateFile persists the Mode A logged-in flag across restarts.
	AdminStateFile string

	ListenAddr     string
	AllowedOrigins []string
	NotifyEmail    string
}

func loadConfig() (Config, error) {
	viper.SetConfigName("solecraft")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("SOLECRAFT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("app.id", constants.DEFAULT_APP_ID)
	viper.SetDefault("admin.state_file", constants.ADMIN_STATE_FILE)
	viper.SetDefault("server.addr", ":6240")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	origins, err := parseAllowedOrigins(viper.GetString("server.allowed_origins"))
	if err != nil {
		return Config{}, err
	}

	return Config{
		DatabasePath:   viper.GetString("database.path"),
		AppID:          viper.GetString("app.id"),
		BootstrapToken: viper.GetString("auth.bootstrap_token"),
		AdminSecret:    viper.GetString("admin.secret"),
		DelegatedAdmin: viper.GetBool("admin.delegated"),
		AdminStateFile: viper.GetString("admin.state_file"),
		ListenAddr:     viper.GetString("server.addr"),
		AllowedOrigins: origins,
		NotifyEmail:    viper.GetString("notify.email"),
	}, nil
}

// CollectionPath returns the logical collection the site writes to.
func (c Config) CollectionPath() string {
	return fmt.Sprintf("artifacts/%s/public/data/submissions", c.AppID)
}

// parseAllowedOrigins splits a comma-separated origins string into a cleaned
// slice. Each entry must be an http(s) URL with a host and no path. An empty
// input yields nil, which the CORS layer treats as "allow any".
func parseAllowedOrigins(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var origins []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(strings.TrimRight(p, "/"))
		if p == "" {
			continue
		}
		u, err := url.Parse(p)
		if err != nil {
			return nil, fmt.Errorf("invalid origin %q: %v", p, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("invalid origin %q: scheme must be http or https", p)
		}
		if u.Host == "" {
			return nil, fmt.Errorf("invalid origin %q: missing host", p)
		}
		if u.Path != "" && u.Path != "/" {
			return nil, fmt.Errorf("invalid origin %q: must not contain a path", p)
		}
		origins = append(origins, strings.ToLower(u.Scheme+"://"+u.Host))
	}
	return origins, nil
}
