package main

import (
	"fmt"
	"log"
	"os"

	"github.com/nishantmakwanaa/clothing-store/internal/config"
	"github.com/nishantmakwanaa/clothing-store/internal/pkg/auth"
)

// Prints a bcrypt hash for seeding accounts by hand, using BCRYPT_COST
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run scripts/generate_password.go <password>")
	}
	password := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	passwords := auth.NewPasswordManager(cfg)

	if err := passwords.ValidatePassword(password); err != nil {
		log.Fatal("Password rejected:", err)
	}

	hash, err := passwords.HashPassword(password)
	if err != nil {
		log.Fatal("Error generating hash:", err)
	}
	if err := passwords.VerifyPassword(password, hash); err != nil {
		log.Fatal("Hash verification failed:", err)
	}

	fmt.Printf("Cost: %d\n", cfg.Security.BcryptCost)
	fmt.Printf("Hash: %s\n", hash)
}
