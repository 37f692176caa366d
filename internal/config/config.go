package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environments maps environment names to API base URLs.
var Environments = map[string]string{
	"local":   "http://localhost:8071/qr_gen_api/api/v1/",
	"staging": "http://eb-sqrts-env.eba-bq53g3td.ap-southeast-1.elasticbeanstalk.com/tg_query_api/api/v1/",
}

const DefaultEnvironment = "local"

type ClientConfig struct {
	Environment   string `yaml:"environment"`
	BaseURL       string `yaml:"base_url"`
	HTTPTimeout   string `yaml:"http_timeout"`
	SessionFile   string `yaml:"session_file"`
	MasterKeyHex  string `yaml:"master_key_hex"`
	MasterKeyFile string `yaml:"master_key_file"`
	LogFile       string `yaml:"log_file"`
	CADir         string `yaml:"ca_dir"`
}

type MockAPIConfig struct {
	Addr       string `yaml:"addr"`
	Prefix     string `yaml:"prefix"`
	JWTSecret  string `yaml:"jwt_secret"`
	JWTIssuer  string `yaml:"jwt_issuer"`
	AccessTTL  string `yaml:"access_ttl"`
	RefreshTTL string `yaml:"refresh_ttl"`
	OTPTTL     string `yaml:"otp_ttl"`
	RedisAddr  string `yaml:"redis_addr"`
	TLSCert    string `yaml:"tls_cert"`
	TLSKey     string `yaml:"tls_key"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type ConfigFile struct {
	Client  ClientConfig  `yaml:"client"`
	MockAPI MockAPIConfig `yaml:"mockapi"`
	Twilio  TwilioConfig  `yaml:"twilio"`
}

// Config is the resolved configuration used by the binaries.
type Config struct {
	Environment   string
	BaseURL       string
	HTTPTimeout   time.Duration
	SessionFile   string
	MasterKeyHex  string
	MasterKeyFile string
	LogFile       string
	CADir         string

	MockAddr       string
	MockPrefix     string
	MockJWTSecret  string
	MockJWTIssuer  string
	MockAccessTTL  time.Duration
	MockRefreshTTL time.Duration
	MockOTPTTL     time.Duration
	MockRedisAddr  string
	MockTLSCert    string
	MockTLSKey     string

	TwilioSID   string
	TwilioToken string
	TwilioFrom  string
}

var ErrUnknownEnvironment = errors.New("unknown environment")

func defaults() ConfigFile {
	return ConfigFile{
		Client: ClientConfig{
			Environment: DefaultEnvironment,
			HTTPTimeout: "30s",
			SessionFile: defaultSessionFile(),
		},
		MockAPI: MockAPIConfig{
			Addr:       ":8071",
			Prefix:     "/qr_gen_api/api/v1",
			JWTSecret:  "dev-secret",
			JWTIssuer:  "sqrts-mockapi",
			AccessTTL:  "15m",
			RefreshTTL: "168h",
			OTPTTL:     "5m",
		},
	}
}

// Load reads the optional YAML file at path, then a .env file in the working
// directory, then environment variables. Later sources win.
func Load(path string) (Config, error) {
	file := defaults()
	if path != "" {
		if err := loadConfigFile(path, &file); err != nil {
			return Config{}, err
		}
	}
	// .env is optional; existing environment variables are not overridden.
	_ = godotenv.Load()
	applyEnv(&file)
	return resolve(file)
}

func loadConfigFile(path string, into *ConfigFile) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(f *ConfigFile) {
	f.Client.Environment = getenv("SQRTS_ENV", f.Client.Environment)
	f.Client.BaseURL = getenv("SQRTS_BASE_URL", f.Client.BaseURL)
	f.Client.HTTPTimeout = getenv("SQRTS_HTTP_TIMEOUT", f.Client.HTTPTimeout)
	f.Client.SessionFile = getenv("SQRTS_SESSION_FILE", f.Client.SessionFile)
	f.Client.MasterKeyHex = getenv("SQRTS_MASTER_KEY_HEX", f.Client.MasterKeyHex)
	f.Client.MasterKeyFile = getenv("SQRTS_MASTER_KEY_FILE", f.Client.MasterKeyFile)
	f.Client.LogFile = getenv("SQRTS_LOG_FILE", f.Client.LogFile)
	f.Client.CADir = getenv("SQRTS_CA_DIR", f.Client.CADir)

	f.MockAPI.Addr = getenv("MOCKAPI_ADDR", f.MockAPI.Addr)
	f.MockAPI.Prefix = getenv("MOCKAPI_PREFIX", f.MockAPI.Prefix)
	f.MockAPI.JWTSecret = getenv("MOCKAPI_JWT_SECRET", f.MockAPI.JWTSecret)
	f.MockAPI.JWTIssuer = getenv("MOCKAPI_JWT_ISSUER", f.MockAPI.JWTIssuer)
	f.MockAPI.AccessTTL = getenv("MOCKAPI_ACCESS_TTL", f.MockAPI.AccessTTL)
	f.MockAPI.RefreshTTL = getenv("MOCKAPI_REFRESH_TTL", f.MockAPI.RefreshTTL)
	f.MockAPI.OTPTTL = getenv("MOCKAPI_OTP_TTL", f.MockAPI.OTPTTL)
	f.MockAPI.RedisAddr = getenv("MOCKAPI_REDIS_ADDR", f.MockAPI.RedisAddr)
	f.MockAPI.TLSCert = getenv("MOCKAPI_TLS_CERT", f.MockAPI.TLSCert)
	f.MockAPI.TLSKey = getenv("MOCKAPI_TLS_KEY", f.MockAPI.TLSKey)

	f.Twilio.AccountSID = getenv("TWILIO_ACCOUNT_SID", f.Twilio.AccountSID)
	f.Twilio.AuthToken = getenv("TWILIO_AUTH_TOKEN", f.Twilio.AuthToken)
	f.Twilio.FromNumber = getenv("TWILIO_FROM_NUMBER", f.Twilio.FromNumber)
}

func resolve(f ConfigFile) (Config, error) {
	baseURL, err := ResolveBaseURL(f.Client.Environment, f.Client.BaseURL)
	if err != nil {
		return Config{}, err
	}
	timeout, err := parseDuration("http timeout", f.Client.HTTPTimeout)
	if err != nil {
		return Config{}, err
	}
	accessTTL, err := parseDuration("access ttl", f.MockAPI.AccessTTL)
	if err != nil {
		return Config{}, err
	}
	refreshTTL, err := parseDuration("refresh ttl", f.MockAPI.RefreshTTL)
	if err != nil {
		return Config{}, err
	}
	otpTTL, err := parseDuration("otp ttl", f.MockAPI.OTPTTL)
	if err != nil {
		return Config{}, err
	}
	return Config{
		Environment:    f.Client.Environment,
		BaseURL:        baseURL,
		HTTPTimeout:    timeout,
		SessionFile:    f.Client.SessionFile,
		MasterKeyHex:   f.Client.MasterKeyHex,
		MasterKeyFile:  f.Client.MasterKeyFile,
		LogFile:        f.Client.LogFile,
		CADir:          f.Client.CADir,
		MockAddr:       f.MockAPI.Addr,
		MockPrefix:     "/" + strings.Trim(f.MockAPI.Prefix, "/"),
		MockJWTSecret:  f.MockAPI.JWTSecret,
		MockJWTIssuer:  f.MockAPI.JWTIssuer,
		MockAccessTTL:  accessTTL,
		MockRefreshTTL: refreshTTL,
		MockOTPTTL:     otpTTL,
		MockRedisAddr:  f.MockAPI.RedisAddr,
		MockTLSCert:    f.MockAPI.TLSCert,
		MockTLSKey:     f.MockAPI.TLSKey,
		TwilioSID:      f.Twilio.AccountSID,
		TwilioToken:    f.Twilio.AuthToken,
		TwilioFrom:     f.Twilio.FromNumber,
	}, nil
}

// ResolveBaseURL picks the base URL: an explicit URL wins over the named
// environment. The result always ends with a slash.
func ResolveBaseURL(env, explicit string) (string, error) {
	u := explicit
	if u == "" {
		if env == "" {
			env = DefaultEnvironment
		}
		var ok bool
		u, ok = Environments[env]
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrUnknownEnvironment, env)
		}
	}
	return strings.TrimRight(u, "/") + "/", nil
}

func parseDuration(name, v string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return 0, fmt.Errorf("invalid %s: %q", name, v)
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".sqrts", "session.json")
}
