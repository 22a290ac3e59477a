package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"

	"github.com/lox/pokertable/internal/auth"
	"github.com/lox/pokertable/internal/game"
)

// Config is the complete server configuration.
type Config struct {
	Server  ServerSettings `hcl:"server,block"`
	Tables  []TableConfig  `hcl:"table,block"`
	Players []PlayerToken  `hcl:"player,block"`
}

// ServerSettings contains server-level configuration.
type ServerSettings struct {
	Address        string `hcl:"address,optional"`
	Port           int    `hcl:"port,optional"`
	LogLevel       string `hcl:"log_level,optional"`
	HandHistoryDir string `hcl:"hand_history_dir,optional"`
	PHHDir         string `hcl:"phh_dir,optional"`
	PHHDatabase    string `hcl:"phh_database,optional"`
	AuthURL        string `hcl:"auth_url,optional"`
	AuthSecret     string `hcl:"auth_secret,optional"`
	JWTSecret      string `hcl:"jwt_secret,optional"`
	JWTIssuer      string `hcl:"jwt_issuer,optional"`
}

// PlayerToken lets whoever presents Token (or a token matching the bcrypt
// TokenHash) join as player ID.
type PlayerToken struct {
	ID        string `hcl:"id,label"`
	Name      string `hcl:"name,optional"`
	Token     string `hcl:"token,optional"`
	TokenHash string `hcl:"token_hash,optional"`
}

// TableConfig defines one table created at startup.
type TableConfig struct {
	Name               string `hcl:"name,label"`
	Variant            string `hcl:"variant,optional"`
	SmallBlind         int    `hcl:"small_blind,optional"`
	BigBlind           int    `hcl:"big_blind,optional"`
	StartingChips      int    `hcl:"starting_chips,optional"`
	MaxPlayers         int    `hcl:"max_players,optional"`
	SelectionTimeoutMs int    `hcl:"selection_timeout_ms,optional"`
	AutoStart          *bool  `hcl:"auto_start,optional"`
}

const (
	defaultAddress       = "localhost"
	defaultPort          = 8080
	defaultLogLevel      = "info"
	defaultSmallBlind    = 5
	defaultBigBlind      = 10
	defaultStartingChips = 1000
	defaultMaxPlayers    = 9
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{
		Tables: []TableConfig{{Name: "main", Variant: game.TexasHoldEm.String()}},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads an HCL configuration file. A missing file yields Default().
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = defaultAddress
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = defaultLogLevel
	}
	for i := range c.Tables {
		t := &c.Tables[i]
		if t.Variant == "" {
			t.Variant = game.TexasHoldEm.String()
		}
		if t.SmallBlind == 0 {
			t.SmallBlind = defaultSmallBlind
		}
		if t.BigBlind == 0 {
			t.BigBlind = t.SmallBlind * 2
		}
		if t.StartingChips == 0 {
			t.StartingChips = t.BigBlind * 100
		}
		if t.MaxPlayers == 0 {
			t.MaxPlayers = defaultMaxPlayers
			if v, err := game.ParseVariant(t.Variant); err == nil {
				t.MaxPlayers = min(t.MaxPlayers, v.MaxSeats())
			}
		}
		if t.SelectionTimeoutMs == 0 {
			t.SelectionTimeoutMs = int(game.DefaultSelectionTimeout / time.Millisecond)
		}
		if t.AutoStart == nil {
			on := true
			t.AutoStart = &on
		}
	}
}

// Validate checks the configuration for values the engine would reject.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := zerolog.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Server.LogLevel, err)
	}
	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}

	seen := make(map[string]bool, len(c.Tables))
	for _, t := range c.Tables {
		if seen[t.Name] {
			return fmt.Errorf("table %s: duplicate name", t.Name)
		}
		seen[t.Name] = true
		variant, err := game.ParseVariant(t.Variant)
		if err != nil {
			return fmt.Errorf("table %s: %w", t.Name, err)
		}
		if t.SmallBlind <= 0 {
			return fmt.Errorf("table %s: small blind must be positive", t.Name)
		}
		if t.BigBlind < t.SmallBlind {
			return fmt.Errorf("table %s: big blind must be at least the small blind", t.Name)
		}
		if limit := variant.MaxSeats(); t.MaxPlayers < 2 || t.MaxPlayers > limit {
			return fmt.Errorf("table %s: max players for %s must be between 2 and %d", t.Name, variant, limit)
		}
		if t.StartingChips < t.BigBlind {
			return fmt.Errorf("table %s: starting chips must cover the big blind", t.Name)
		}
		if t.SelectionTimeoutMs <= 0 {
			return fmt.Errorf("table %s: selection timeout must be positive", t.Name)
		}
	}
	sources := 0
	for _, set := range []bool{c.Server.AuthURL != "", c.Server.JWTSecret != "", len(c.Players) > 0} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return fmt.Errorf("auth_url, jwt_secret and player blocks are mutually exclusive")
	}
	ids := make(map[string]bool, len(c.Players))
	for _, p := range c.Players {
		if ids[p.ID] {
			return fmt.Errorf("player %s: duplicate id", p.ID)
		}
		ids[p.ID] = true
		if (p.Token == "") == (p.TokenHash == "") {
			return fmt.Errorf("player %s: set exactly one of token or token_hash", p.ID)
		}
	}
	return nil
}

// Validator returns the join token check the config asks for, or nil when
// joins are open.
func (c *Config) Validator() auth.Validator {
	switch {
	case c.Server.AuthURL != "":
		return auth.NewHTTPValidator(c.Server.AuthURL, c.Server.AuthSecret)
	case c.Server.JWTSecret != "":
		return auth.NewJWTValidator(c.Server.JWTSecret, c.Server.JWTIssuer)
	case len(c.Players) > 0:
		v := make(auth.TokenTable, 0, len(c.Players))
		for _, p := range c.Players {
			v = append(v, auth.Token{
				Identity: auth.Identity{PlayerID: p.ID, Name: p.Name},
				Token:    p.Token,
				Hash:     []byte(p.TokenHash),
			})
		}
		return v
	}
	return nil
}

// Address returns the host:port to listen on.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// Table returns a table configuration by name.
func (c *Config) Table(name string) (TableConfig, bool) {
	for _, t := range c.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableConfig{}, false
}

// GameVariant returns the parsed variant. Call Validate first.
func (t TableConfig) GameVariant() game.Variant {
	v, _ := game.ParseVariant(t.Variant)
	return v
}

// GameOptions converts the table settings into engine options.
func (t TableConfig) GameOptions() []game.Option {
	opts := []game.Option{
		game.WithBlinds(t.SmallBlind, t.BigBlind),
		game.WithMaxPlayers(t.MaxPlayers),
		game.WithSelectionTimeout(time.Duration(t.SelectionTimeoutMs) * time.Millisecond),
	}
	if t.AutoStart != nil {
		opts = append(opts, game.WithAutoStart(*t.AutoStart))
	}
	return opts
}
