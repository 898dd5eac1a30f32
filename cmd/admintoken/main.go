package main

import (
	"flag"
	"fmt"

	"ai-detector/internal/config"
	"ai-detector/internal/middleware"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "configs/config.yml", "path to the YAML configuration file")
	subject := flag.String("subject", "admin", "token subject")
	role := flag.String("role", middleware.RoleAdmin, "role claim")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to auth.token_ttl)")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if cfg.Auth.JWTSecret == "" {
		logger.Fatal("auth.jwt_secret is not configured")
	}

	lifetime := cfg.Auth.TokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	token, expires, err := middleware.IssueToken([]byte(cfg.Auth.JWTSecret), *subject, *role, lifetime)
	if err != nil {
		logger.Fatal("Failed to issue token", zap.Error(err))
	}

	logger.Info("Token issued",
		zap.String("subject", *subject),
		zap.String("role", *role),
		zap.Time("expires_at", expires))
	fmt.Println(token)
}
