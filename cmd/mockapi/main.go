package main

import (
	"context"
	"crypto/tls"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"sqrts/internal/certs"
	"sqrts/internal/config"
	"sqrts/internal/logging"
	"sqrts/internal/mockapi"
)

func main() {
	configPath := flag.String("config", "sqrts.yaml", "Optional YAML config file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *addr != "" {
		cfg.MockAddr = *addr
	}

	logger := logging.Stderr()
	if cfg.LogFile != "" {
		if logger, err = logging.NewLogger(cfg.LogFile); err != nil {
			log.Fatalf("log file: %v", err)
		}
	}
	defer logger.Close()

	var otps mockapi.OTPStore
	if cfg.MockRedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.MockRedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			log.Fatalf("redis %s: %v", cfg.MockRedisAddr, err)
		}
		defer rdb.Close()
		otps = mockapi.NewRedisOTPStore(rdb)
		logger.Infof("OTP codes stored in redis at %s", cfg.MockRedisAddr)
	}

	var notifier mockapi.Notifier
	if cfg.TwilioSID != "" && cfg.TwilioToken != "" && cfg.TwilioFrom != "" {
		notifier = mockapi.NewTwilioNotifier(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom)
		logger.Info("SMS delivered through Twilio")
	}

	srv := mockapi.NewServer(mockapi.Config{
		Prefix:     cfg.MockPrefix,
		JWTSecret:  cfg.MockJWTSecret,
		JWTIssuer:  cfg.MockJWTIssuer,
		AccessTTL:  cfg.MockAccessTTL,
		RefreshTTL: cfg.MockRefreshTTL,
		OTPTTL:     cfg.MockOTPTTL,
	}, otps, notifier, logger)

	httpSrv := &http.Server{
		Addr:              cfg.MockAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.MockTLSCert != "" {
		pair, err := certs.NewCertManager("").LoadKeyPair(cfg.MockTLSCert, cfg.MockTLSKey)
		if err != nil {
			log.Fatalf("tls: %v", err)
		}
		httpSrv.TLSConfig = &tls.Config{Certificates: []tls.Certificate{pair}, MinVersion: tls.VersionTLS12}
	}

	go func() {
		var err error
		if httpSrv.TLSConfig != nil {
			logger.Infof("Mock API running on https://%s%s", cfg.MockAddr, cfg.MockPrefix)
			err = httpSrv.ListenAndServeTLS("", "")
		} else {
			logger.Infof("Mock API running on http://%s%s", cfg.MockAddr, cfg.MockPrefix)
			err = httpSrv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
	logger.Info("Mock API stopped")
}
