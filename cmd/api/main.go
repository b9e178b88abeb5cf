package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contacts-api/internal/config"
	"github.com/contacts-api/internal/infrastructure/dynamo"
	s3infra "github.com/contacts-api/internal/infrastructure/s3"
	"github.com/contacts-api/internal/infrastructure/smtp"
	"github.com/contacts-api/internal/infrastructure/sns"
	"github.com/contacts-api/internal/infrastructure/token"
	"github.com/contacts-api/internal/pkg/password"
	transporthttp "github.com/contacts-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// The signing secret is mandatory: every credential in the system
	// depends on it, so refuse to start without one.
	tokens, err := token.NewProvider(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.VerifyTokenTTL)
	if err != nil {
		log.Fatalf("JWT provider: %v (set JWT_SECRET_KEY)", err)
	}

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient, err := dynamo.NewClient(cfg)
	if err != nil {
		log.Fatalf("dynamodb client: %v", err)
	}
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// S3 avatar store.
	s3Client, err := s3infra.NewClient(cfg)
	if err != nil {
		log.Fatalf("s3 client: %v", err)
	}
	avatarStore := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// SNS account-event publisher (optional — graceful fallback).
	var events sns.EventPublisher
	if cfg.SNSTopicARN != "" {
		if p, err := sns.NewPublisher(cfg); err == nil {
			events = p
		} else {
			log.Printf("WARN: SNS publisher not available: %v", err)
		}
	}

	deps := &transporthttp.Deps{
		AccountRepo: dynamo.NewAccountRepo(dynamoClient, cfg.DynamoTables.Accounts),
		ContactRepo: dynamo.NewContactRepo(dynamoClient, cfg.DynamoTables.Contacts),
		AvatarStore: avatarStore,
		Mailer:      mailer,
		Events:      events,
		Tokens:      tokens,
		Hasher:      password.NewHasher(cfg.BcryptCost),
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
