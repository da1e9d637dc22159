// cmd/mailtest/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/nishantmakwanaa/clothing-store/internal/config"
	"github.com/nishantmakwanaa/clothing-store/internal/pkg/email"
	"github.com/nishantmakwanaa/clothing-store/internal/pkg/logger"
)

// Sends a sample password reset email through the configured provider
func main() {
	to := flag.String("to", "", "recipient address")
	name := flag.String("name", "Clothify Customer", "recipient name")
	flag.Parse()

	if *to == "" {
		fmt.Fprintln(os.Stderr, "usage: mailtest -to ADDRESS [-name NAME]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Logging)

	mailer, err := email.NewService(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to configure email")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := mailer.SendPasswordResetEmail(ctx, *to, *name, uuid.NewString()); err != nil {
		log.WithError(err).Fatal("send failed")
	}

	log.WithField("provider", cfg.Email.Provider).Infof("test email sent to %s", *to)
}
