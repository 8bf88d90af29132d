package config

import (
	"fmt"
	"os"
	"strconv"
)

// DefaultAccountKey is the outbound identity used when a request does not
// name one.
const DefaultAccountKey = "noreply"

// Account holds the SMTP credentials for one outbound mail identity.
type Account struct {
	User   string
	Pass   string
	Host   string
	Port   int
	Secure bool
}

// Config is the process-wide configuration, read once at startup and never
// mutated afterwards.
type Config struct {
	Port     string
	Accounts map[string]Account

	// External collaborators; held here so the whole environment surface is
	// validated in one place, even though only the mailer uses them directly.
	DatabaseURL        string
	SupabaseServiceKey string
	StripePublicKey    string
	FunctionsBaseURL   string

	FontPath     string
	WatermarkURL string
	APIKey       string
}

// Load reads configuration from the environment. Accounts with missing
// credentials are still registered so that resolving them yields a clear
// configuration error instead of a silent auth failure at the SMTP server.
func Load() Config {
	host := envOr("SMTP_HOST", "smtp.gmail.com")
	port := envIntOr("SMTP_PORT", 465)

	accounts := map[string]Account{}
	for key, prefix := range map[string]string{
		"noreply": "NOREPLY",
		"info":    "INFO",
		"hello":   "HELLO",
	} {
		accounts[key] = Account{
			User:   os.Getenv(prefix + "_EMAIL_USER"),
			Pass:   os.Getenv(prefix + "_EMAIL_PASS"),
			Host:   host,
			Port:   port,
			Secure: port == 465,
		}
	}

	return Config{
		Port:               envOr("PORT", "4001"),
		Accounts:           accounts,
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_KEY"),
		StripePublicKey:    os.Getenv("STRIPE_PUBLIC_KEY"),
		FunctionsBaseURL:   os.Getenv("FUNCTIONS_BASE_URL"),
		FontPath:           envOr("TICKET_FONT_PATH", "assets/fonts/DejaVuSans.ttf"),
		WatermarkURL:       envOr("WATERMARK_URL", "https://raexevents.com/assets/watermark.png"),
		APIKey:             os.Getenv("API_KEY"),
	}
}

// ResolveAccount returns the account for key, or the default account when key
// is empty. An unknown key or an account with missing credentials is a
// configuration error.
func (c Config) ResolveAccount(key string) (Account, error) {
	if key == "" {
		key = DefaultAccountKey
	}
	acct, ok := c.Accounts[key]
	if !ok {
		return Account{}, fmt.Errorf("unknown email account %q", key)
	}
	if acct.User == "" || acct.Pass == "" {
		return Account{}, fmt.Errorf("email account %q is missing credentials", key)
	}
	return acct, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
