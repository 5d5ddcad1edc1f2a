package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// 設定キー（環境変数は大文字: DATABASE_URL など）
const (
	KeyEnv                  = "env"
	KeyHTTPAddr             = "http_addr"
	KeyBaseURL              = "base_url"
	KeyDatabaseURL          = "database_url"
	KeyPostgresHost         = "postgres_host"
	KeyPostgresPort         = "postgres_port"
	KeyPostgresUser         = "postgres_user"
	KeyPostgresPassword     = "postgres_password"
	KeyPostgresDB           = "postgres_db"
	KeyPostgresSSLMode      = "postgres_sslmode"
	KeyBcryptCost           = "bcrypt_cost"
	KeyTokenAlgorithm       = "token_algorithm"
	KeyTokenPrivateKeyPath  = "token_private_key_path"
	KeyTokenPublicKeyPath   = "token_public_key_path"
	KeyTokenIssuer          = "token_issuer"
	KeyAccessTokenTTL       = "access_token_ttl"
	KeyRefreshTokenTTL      = "refresh_token_ttl"
	KeyVerificationTokenTTL = "verification_token_ttl"
	KeyResetTokenTTL        = "reset_token_ttl"
	KeyLoyaltyPercent       = "loyalty_percent"
	KeyKafkaBrokers         = "kafka_brokers"
	KeyKafkaTopic           = "kafka_topic"
	KeyRedisAddr            = "redis_addr"
	KeyNotifyRetries        = "notify_retries"
	KeyNotifyBuffer         = "notify_buffer"
	KeyShutdownTimeout      = "shutdown_timeout"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

// Configはアプリ全体の設定。起動時に一度だけ作り、各コンストラクタに渡す。
type Config struct {
	Env      string // dev/prod
	HTTPAddr string // :8080
	BaseURL  string // メールのリンクに使う

	DatabaseURL string // postgres://... または sqlite://...
	Postgres    PostgresConfig

	BcryptCost int

	Token TokenConfig

	LoyaltyPercent decimal.Decimal // 注文金額に対する残高付与率（%）

	Kafka     KafkaConfig
	RedisAddr string // 空ならメモリ

	NotifyRetries   int
	NotifyBuffer    int
	ShutdownTimeout time.Duration
}

// DATABASE_URL がないときに組み立てるPostgreSQLの接続先
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DB       string
	SSLMode  string
}

type TokenConfig struct {
	Algorithm       string // RS256 / EdDSA
	PrivateKeyPath  string // 空なら起動ごとの鍵を作る（devのみ）
	PublicKeyPath   string
	Issuer          string
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	VerificationTTL time.Duration
	ResetTTL        time.Duration
}

type KafkaConfig struct {
	Brokers []string // 空ならログに出すだけ
	Topic   string
}

// SetDefaults は既定値を入れる
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyEnv, EnvDev)
	v.SetDefault(KeyHTTPAddr, ":8080")
	v.SetDefault(KeyBaseURL, "http://localhost:8080")
	v.SetDefault(KeyPostgresPort, 5432)
	v.SetDefault(KeyPostgresSSLMode, "disable")
	v.SetDefault(KeyBcryptCost, 12)
	v.SetDefault(KeyTokenAlgorithm, "EdDSA")
	v.SetDefault(KeyTokenIssuer, "sneakerhub")
	v.SetDefault(KeyAccessTokenTTL, 30*time.Minute)
	v.SetDefault(KeyRefreshTokenTTL, 7*24*time.Hour)
	v.SetDefault(KeyVerificationTokenTTL, 60*time.Minute)
	v.SetDefault(KeyResetTokenTTL, 30*time.Minute)
	v.SetDefault(KeyLoyaltyPercent, "5")
	v.SetDefault(KeyKafkaTopic, "sneakerhub.events")
	v.SetDefault(KeyNotifyRetries, 3)
	v.SetDefault(KeyNotifyBuffer, 256)
	v.SetDefault(KeyShutdownTimeout, 10*time.Second)
}

// Loadはviper（フラグ・環境変数・既定値）から設定を作る
func Load(v *viper.Viper) (Config, error) {
	pct, err := decimal.NewFromString(strings.TrimSpace(v.GetString(KeyLoyaltyPercent)))
	if err != nil {
		return Config{}, fmt.Errorf("%s must be a decimal: %w", KeyLoyaltyPercent, err)
	}

	cfg := Config{
		Env:         strings.ToLower(strings.TrimSpace(v.GetString(KeyEnv))),
		HTTPAddr:    v.GetString(KeyHTTPAddr),
		BaseURL:     strings.TrimRight(v.GetString(KeyBaseURL), "/"),
		DatabaseURL: strings.TrimSpace(v.GetString(KeyDatabaseURL)),
		Postgres: PostgresConfig{
			Host:     v.GetString(KeyPostgresHost),
			Port:     v.GetInt(KeyPostgresPort),
			User:     v.GetString(KeyPostgresUser),
			Password: v.GetString(KeyPostgresPassword),
			DB:       v.GetString(KeyPostgresDB),
			SSLMode:  v.GetString(KeyPostgresSSLMode),
		},
		BcryptCost: v.GetInt(KeyBcryptCost),
		Token: TokenConfig{
			Algorithm:       v.GetString(KeyTokenAlgorithm),
			PrivateKeyPath:  v.GetString(KeyTokenPrivateKeyPath),
			PublicKeyPath:   v.GetString(KeyTokenPublicKeyPath),
			Issuer:          v.GetString(KeyTokenIssuer),
			AccessTTL:       v.GetDuration(KeyAccessTokenTTL),
			RefreshTTL:      v.GetDuration(KeyRefreshTokenTTL),
			VerificationTTL: v.GetDuration(KeyVerificationTokenTTL),
			ResetTTL:        v.GetDuration(KeyResetTokenTTL),
		},
		LoyaltyPercent: pct,
		Kafka: KafkaConfig{
			Brokers: splitCSV(v.GetString(KeyKafkaBrokers)),
			Topic:   v.GetString(KeyKafkaTopic),
		},
		RedisAddr:       strings.TrimSpace(v.GetString(KeyRedisAddr)),
		NotifyRetries:   v.GetInt(KeyNotifyRetries),
		NotifyBuffer:    v.GetInt(KeyNotifyBuffer),
		ShutdownTimeout: v.GetDuration(KeyShutdownTimeout),
	}

	// DATABASE_URL があれば最優先で使う
	if cfg.DatabaseURL == "" && cfg.Postgres.Host != "" {
		cfg.DatabaseURL = cfg.Postgres.URL()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate は必須チェック
func (c Config) Validate() error {
	if c.Env != EnvDev && c.Env != EnvProd {
		return fmt.Errorf("%s must be %q or %q", KeyEnv, EnvDev, EnvProd)
	}
	if c.HTTPAddr == "" {
		return fmt.Errorf("%s is required", KeyHTTPAddr)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("%s is required", KeyBaseURL)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("%s is required", KeyDatabaseURL)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("%s must be between 4 and 31", KeyBcryptCost)
	}
	switch c.Token.Algorithm {
	case "RS256", "EdDSA":
	default:
		return fmt.Errorf("%s must be RS256 or EdDSA", KeyTokenAlgorithm)
	}
	if (c.Token.PrivateKeyPath == "") != (c.Token.PublicKeyPath == "") {
		return fmt.Errorf("%s and %s must be set together", KeyTokenPrivateKeyPath, KeyTokenPublicKeyPath)
	}
	if c.Token.PrivateKeyPath == "" && c.Env == EnvProd {
		return fmt.Errorf("%s is required in prod", KeyTokenPrivateKeyPath)
	}
	if c.Token.AccessTTL <= 0 || c.Token.RefreshTTL <= 0 || c.Token.VerificationTTL <= 0 || c.Token.ResetTTL <= 0 {
		return fmt.Errorf("token ttls must be positive")
	}
	if c.LoyaltyPercent.IsNegative() || c.LoyaltyPercent.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%s must be between 0 and 100", KeyLoyaltyPercent)
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("%s is required when brokers are set", KeyKafkaTopic)
	}
	if c.NotifyRetries < 0 {
		return fmt.Errorf("%s must be >= 0", KeyNotifyRetries)
	}
	if c.NotifyBuffer < 1 {
		return fmt.Errorf("%s must be >= 1", KeyNotifyBuffer)
	}
	return nil
}

func (p PostgresConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:     "/" + p.DB,
		RawQuery: "sslmode=" + url.QueryEscape(p.SSLMode),
	}
	return u.String()
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
