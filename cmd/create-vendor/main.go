package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"syscall"

	"giftyy-backend/internal/auth"
	"giftyy-backend/internal/config"
	"giftyy-backend/internal/database"
	"giftyy-backend/internal/models"

	"golang.org/x/term"
)

func main() {
	fmt.Println("Creating Vendor Account")
	fmt.Println("=======================")

	cfg := config.Load()
	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.DatabaseURL, nil)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	// Run migrations to ensure database is up to date
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	vendorQueries := database.NewVendorQueries(db)
	reader := bufio.NewReader(os.Stdin)

	email := prompt(reader, "Enter vendor email: ")
	if email == "" {
		log.Fatal("Email cannot be empty")
	}

	existing, err := vendorQueries.GetVendorByEmail(ctx, email)
	if err == nil {
		fmt.Printf("Vendor with email %s already exists.\n", existing.Email)
		confirm := strings.ToLower(prompt(reader, "Do you want to update its shipping rules? (y/N): "))
		if confirm != "y" && confirm != "yes" {
			fmt.Println("Operation cancelled.")
			return
		}

		flatRate, threshold := promptShipping(reader)
		if err := vendorQueries.UpdateShippingRules(ctx, existing.ID, flatRate, threshold); err != nil {
			log.Fatal("Failed to update shipping rules:", err)
		}
		fmt.Printf("Successfully updated shipping rules of %s.\n", existing.Email)
		return
	}
	if !errors.Is(err, database.ErrNotFound) {
		log.Fatal("Failed to look up vendor:", err)
	}

	name := prompt(reader, "Enter vendor display name: ")
	if name == "" {
		log.Fatal("Name cannot be empty")
	}

	fmt.Print("Enter vendor password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatal("Failed to read password:", err)
	}
	password := string(passwordBytes)
	fmt.Println()

	if len(password) < auth.MinPasswordLength {
		log.Fatalf("Password must be at least %d characters long", auth.MinPasswordLength)
	}

	fmt.Print("Confirm vendor password: ")
	confirmPasswordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatal("Failed to read password confirmation:", err)
	}
	fmt.Println()

	if password != string(confirmPasswordBytes) {
		log.Fatal("Passwords do not match")
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	flatRate, threshold := promptShipping(reader)

	vendor := &models.Vendor{
		Name:                  name,
		Email:                 email,
		PasswordHash:          hashedPassword,
		ShippingFlatRate:      flatRate,
		FreeShippingThreshold: threshold,
	}
	if err := vendorQueries.CreateVendor(ctx, vendor); err != nil {
		log.Fatal("Failed to create vendor:", err)
	}

	fmt.Printf("Successfully created vendor: %s\n", vendor.Email)
	fmt.Printf("Vendor ID: %s\n", vendor.ID)
	fmt.Printf("Created at: %s\n", vendor.CreatedAt.Format("2006-01-02 15:04:05"))
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		log.Fatal("Failed to read input:", err)
	}
	return strings.TrimSpace(line)
}

func promptShipping(reader *bufio.Reader) (flatRate, threshold float64) {
	flatRate = promptAmount(reader, "Flat shipping rate (0 for free shipping): ")
	if flatRate > 0 {
		threshold = promptAmount(reader, "Free shipping from order subtotal (0 for never): ")
	}
	return flatRate, threshold
}

func promptAmount(reader *bufio.Reader, label string) float64 {
	raw := prompt(reader, label)
	if raw == "" {
		return 0
	}
	amount, err := strconv.ParseFloat(strings.TrimPrefix(raw, "$"), 64)
	if err != nil || amount < 0 {
		log.Fatalf("Invalid amount %q", raw)
	}
	return amount
}
