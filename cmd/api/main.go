package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"sneakerhub/internal/config"
	"sneakerhub/internal/handler"
	"sneakerhub/internal/infra/cache"
	"sneakerhub/internal/infra/db"
	infraRepo "sneakerhub/internal/infra/repository"
	"sneakerhub/internal/infra/token"
	"sneakerhub/internal/middleware"
	"sneakerhub/internal/notify"
	"sneakerhub/internal/server"
	"sneakerhub/internal/usecase"
	auth "sneakerhub/internal/usecase/auth_usecase"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "sneakerhub: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := viper.New()
	var envFile string

	cmd := &cobra.Command{
		Use:           "sneakerhub",
		Short:         "Sneaker shop API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			//.envはあれば読む（なくてもよい）
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("load %s: %w", envFile, err)
			}

			v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			v.AutomaticEnv()
			config.SetDefaults(v)

			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file to load")
	flags.String("http-addr", "", "HTTP listen address")
	flags.String("database-url", "", "postgres://... or sqlite://path")
	flags.String("env", "", "dev or prod")
	_ = v.BindPFlag(config.KeyHTTPAddr, flags.Lookup("http-addr"))
	_ = v.BindPFlag(config.KeyDatabaseURL, flags.Lookup("database-url"))
	_ = v.BindPFlag(config.KeyEnv, flags.Lookup("env"))

	return cmd
}

func newLogger(env string) (*zap.Logger, error) {
	if env == config.EnvDev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(ctx context.Context, cfg config.Config) error {
	logger, err := newLogger(cfg.Env)
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	//DB接続
	gormDB, closeDB, err := db.Open(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("database open: %w", err)
	}
	defer func() { _ = closeDB() }()

	if err := db.Migrate(gormDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	//通知（Kafkaがなければログに出すだけ）
	var sink notify.Sink = notify.NewLogSink(logger)
	if len(cfg.Kafka.Brokers) > 0 {
		sink = notify.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}
	dispatcher := notify.NewDispatcher(sink, logger, notify.DispatcherConfig{
		Buffer:  cfg.NotifyBuffer,
		Retries: cfg.NotifyRetries,
	})
	dispatcher.Start()

	//使い切りトークン（Redisがなければメモリ）
	var used auth.UsedTokenStore = cache.NewMemoryUsedTokenStore(nil)
	if cfg.RedisAddr != "" {
		rdb := cache.NewRedisClient(cfg.RedisAddr)
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		used = cache.NewRedisUsedTokenStore(rdb)
	}

	//JWT issuer
	keys, err := token.LoadKeyPair(cfg.Token)
	if err != nil {
		return err
	}
	if cfg.Token.PrivateKeyPath == "" {
		logger.Warn("using an ephemeral signing key; tokens do not survive a restart")
	}
	issuer := token.NewJWTIssuer(keys, cfg.Token, nil)

	//Repository（GORM実装）生成
	txm := infraRepo.NewTxManagerGorm(gormDB)
	accountRepo := infraRepo.NewAccountGormRepository(gormDB)
	modelRepo := infraRepo.NewCatalogModelGormRepository(gormDB)
	variantRepo := infraRepo.NewCatalogVariantGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)

	//usecaseに渡す部品
	clock := usecase.SystemClock{}
	hasher := usecase.NewBcryptPasswordHasher(cfg.BcryptCost)
	verifier := usecase.NewBcryptPasswordVerifier()

	//Usecase生成
	accountUC := usecase.NewAccountUsecase(accountRepo, txm, hasher, verifier, clock)
	catalogUC := usecase.NewCatalogUsecase(txm, modelRepo, variantRepo, inventoryRepo, clock)
	orderUC := usecase.NewOrderUsecase(txm, orderRepo, dispatcher, cfg.LoyaltyPercent, clock)
	adminOrderUC := usecase.NewAdminOrderUsecase(orderUC)
	auditUC := usecase.NewAuditLogUsecase(auditRepo)

	mailer := auth.NewMailer(dispatcher, cfg.BaseURL)
	registerUC := auth.NewRegisterUserUsecase(accountUC, issuer, mailer)
	loginUC := auth.NewLoginUsecase(accountUC, verifier, issuer, clock)
	verifyUC := auth.NewEmailVerificationUsecase(accountUC, issuer, mailer)
	resetUC := auth.NewPasswordResetUsecase(accountUC, issuer, used, mailer, clock)
	guard := auth.NewAccessGuard(accountUC, issuer)

	//Handler生成
	guards := handler.Guards{
		Auth:     middleware.AuthJWT(guard),
		Verified: middleware.VerifiedGuard(guard),
		Admin:    middleware.AdminRoleGuard(guard),
	}
	srv := server.New(cfg.HTTPAddr, logger, server.Handlers{
		Auth:         handler.NewAuthHandler(registerUC, loginUC, verifyUC, resetUC),
		Users:        handler.NewUserHandler(accountUC, verifyUC),
		AdminUsers:   handler.NewAdminUserHandler(accountUC, verifyUC),
		Products:     handler.NewProductHandler(catalogUC),
		AdminProduct: handler.NewAdminProductHandler(catalogUC),
		Orders:       handler.NewOrderHandler(orderUC),
		AdminOrders:  handler.NewAdminOrderHandler(adminOrderUC, auditUC),
	}, guards)

	//Server起動
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			_ = dispatcher.Close()
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown error", zap.Error(err))
	}

	//残った通知を送ってから閉じる
	if err := dispatcher.Close(); err != nil {
		logger.Warn("dispatcher close error", zap.Error(err))
	}
	logger.Info("stopped")
	return nil
}
