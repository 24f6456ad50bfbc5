package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// DemoEmail and DemoPassword are the credentials of the seeded demo user.
const (
	DemoEmail    = "demo@outfitguru.local"
	DemoPassword = "demo"
)

// starterWardrobe is enough for both separates and one-piece outfits.
var starterWardrobe = []struct {
	name, category, subtype, color, colorFamily, season string
}{
	{"White tee", "top", "T-shirt", "White", "White", "All-season"},
	{"Striped shirt", "top", "Shirt", "Navy stripe", "Blue", "All-season"},
	{"Grey sweater", "top", "Sweater", "Heather grey", "Grey", "Cold"},
	{"Dark jeans", "bottom", "Jeans", "Indigo", "Blue", "All-season"},
	{"Chinos", "bottom", "Trousers", "Khaki", "Beige", "Warm"},
	{"Black dress", "one_piece", "Dress", "Black", "Black", "All-season"},
	{"Sneakers", "footwear", "Sneakers", "White", "White", "All-season"},
	{"Chelsea boots", "footwear", "Boots", "Brown", "Brown", "Cold"},
	{"Denim jacket", "outerwear", "Jacket", "Mid blue", "Blue", "Warm"},
	{"Canvas tote", "accessories", "Bag", "Natural", "Beige", "All-season"},
}

// Seed populates the database with initial development data.
// It creates a demo user with a starter wardrobe if no users exist.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	var userID string
	err = tx.QueryRow(`
		INSERT INTO users (email, password_hash, display_name)
		VALUES ($1, $2, $3)
		RETURNING id
	`, DemoEmail, string(hash), "Demo").Scan(&userID)
	if err != nil {
		return fmt.Errorf("seed insert user: %w", err)
	}

	for _, g := range starterWardrobe {
		_, err := tx.Exec(`
			INSERT INTO garments (user_id, name, category, subtype, color, color_family, season)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, userID, g.name, g.category, g.subtype, g.color, g.colorFamily, g.season)
		if err != nil {
			return fmt.Errorf("seed insert garment %q: %w", g.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with demo user",
		"email", DemoEmail,
		"password", DemoPassword,
		"garments", len(starterWardrobe),
	)

	return nil
}
