// Package config holds the typed configuration the engine consumes. The
// engine itself never touches the file format; Load turns a TOML file plus
// FINANALYZE_ environment overrides into the Config struct.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ManualBalance is a user-declared end-of-day balance checkpoint for
// accounts whose exports carry none.
type ManualBalance struct {
	Date           string  `mapstructure:"date"` // ISO format YYYY-MM-DD
	EndOfDayAmount float64 `mapstructure:"end_of_day_amount"`
}

// Account describes one account the user controls.
type Account struct {
	Name            string          `mapstructure:"name"`
	IBAN            string          `mapstructure:"iban"`
	IBANAlternative string          `mapstructure:"iban_alternative"`
	Owners          []string        `mapstructure:"owners"`
	InputDirectory  string          `mapstructure:"input_directory"` // empty = no import files (virtual)
	Currency        string          `mapstructure:"currency"`
	ManualBalances  []ManualBalance `mapstructure:"manual_balances"`
}

// ID returns the account's reference used in entries and cross-references.
func (a Account) ID() string { return a.IBAN }

// IsVirtual reports whether the account has no import files of its own; its
// entries exist only as mirrors of other accounts' transactions.
func (a Account) IsVirtual() bool { return a.InputDirectory == "" }

// HeadingConfig lists acceptable column-name fragments for one export
// format. Each list may name several columns whose cells are concatenated.
type HeadingConfig struct {
	Date    []string `mapstructure:"date"`
	Amount  []string `mapstructure:"amount"`
	Comment []string `mapstructure:"comment"`
}

// CustomBalance composes a named balance out of other balance series.
type CustomBalance struct {
	Name  string   `mapstructure:"name"`
	Plus  []string `mapstructure:"plus"`
	Minus []string `mapstructure:"minus"`
}

// ExchangeRate is one configured conversion rate.
type ExchangeRate struct {
	From string  `mapstructure:"from"`
	To   string  `mapstructure:"to"`
	Rate float64 `mapstructure:"rate"`
}

// CurrencyConfig declares the base currency and the known rates.
type CurrencyConfig struct {
	BaseCurrency  string         `mapstructure:"base_currency"`
	ExchangeRates []ExchangeRate `mapstructure:"exchange_rates"`
}

// TagRule assigns a tag to entries whose comment matches a pattern,
// optionally restricted by date range and account.
type TagRule struct {
	Tag            string `mapstructure:"tag"`
	CommentPattern string `mapstructure:"comment_pattern"`
	DateFrom       string `mapstructure:"date_from"`
	DateTo         string `mapstructure:"date_to"`
	AccountID      string `mapstructure:"account_id"`
}

// DatabaseConfig holds sqlite settings. An empty path disables persistence.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// Config is the root configuration.
type Config struct {
	InputDir         string          `mapstructure:"input_dir"`
	OutputCSV        string          `mapstructure:"output_csv"`
	Database         DatabaseConfig  `mapstructure:"database"`
	Accounts         []Account       `mapstructure:"accounts"`
	Headings         []HeadingConfig `mapstructure:"headings"`
	CustomBalances   []CustomBalance `mapstructure:"custom_balances"`
	Currency         *CurrencyConfig `mapstructure:"currency"`
	TagRules         []TagRule       `mapstructure:"tag_rules"`
	BalanceMarker    string          `mapstructure:"balance_marker"`
	CreditCardMarker string          `mapstructure:"credit_card_marker"`
}

// AccountName resolves an account id to its configured display name, falling
// back to the id itself.
func (c Config) AccountName(accountID string) string {
	for _, a := range c.Accounts {
		if a.ID() == accountID {
			return a.Name
		}
	}
	return accountID
}

// Load reads configuration from file and env. Env var overrides use prefix
// FINANALYZE_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("input_dir", "input")
	v.SetDefault("output_csv", "interpreted_entries.csv")
	v.SetDefault("database.path", "")
	v.SetDefault("balance_marker", "Tagessaldo")
	v.SetDefault("credit_card_marker", "Kreditkarte")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("FINANALYZE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "finanalyze"))
		v.AddConfigPath(".")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("FINANALYZE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Validate rejects configurations the engine cannot reason about. Failing
// here aborts the run loudly instead of producing misleading partial output.
func (c Config) Validate() error {
	if len(c.Accounts) == 0 {
		return errors.New("config: no accounts declared")
	}
	seen := make(map[string]string)
	for _, a := range c.Accounts {
		if a.IBAN == "" {
			return fmt.Errorf("config: account %q has no iban", a.Name)
		}
		if other, ok := seen[a.IBAN]; ok {
			return fmt.Errorf("config: accounts %q and %q share iban %s", other, a.Name, a.IBAN)
		}
		seen[a.IBAN] = a.Name
	}
	for i, h := range c.Headings {
		if len(h.Date) == 0 || len(h.Amount) == 0 || len(h.Comment) == 0 {
			return fmt.Errorf("config: heading config %d is missing a column list", i)
		}
	}
	return nil
}
