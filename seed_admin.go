package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// seedAdmin provisions the initial superuser account. Credentials come
// from ADMIN_USERNAME, ADMIN_EMAIL and ADMIN_PASSWORD.
func seedAdmin() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	username := seedEnv("ADMIN_USERNAME", "admin")
	email := seedEnv("ADMIN_EMAIL", "admin@example.com")
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("ADMIN_PASSWORD must be set")
	}

	// Database connection parameters
	dbHost := seedEnv("DB_HOST", "localhost")
	dbPort := seedEnv("DB_PORT", "5432")
	dbUser := seedEnv("DB_USER", "postgres")
	dbPassword := seedEnv("DB_PASSWORD", "")
	dbName := seedEnv("DB_NAME", "growthflow_db")
	dbSSLMode := seedEnv("DB_SSL_MODE", "disable")

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}
	log.Println("✅ Successfully connected to database")

	var existingID uint
	err = db.QueryRow("SELECT id FROM users WHERE username = $1", username).Scan(&existingID)
	if err == nil {
		log.Printf("⚠️ User %q already exists (id %d), nothing to do", username, existingID)
		return
	}
	if err != sql.ErrNoRows {
		log.Fatal("Failed to check for existing admin:", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	now := time.Now().UTC()
	_, err = db.Exec(`
		INSERT INTO users (username, email, password_hash, role, is_superuser, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, 'manager', true, true, $4, $4)`,
		username, email, string(hash), now)
	if err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	log.Printf("✅ Superuser %q created successfully", username)
}

func seedEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
