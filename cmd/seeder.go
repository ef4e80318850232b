package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"activity_updates", "daily_handovers", "activities", "users"} {
				if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)

		users := []struct {
			Email      string
			Name       string
			Role       string
			IsAdmin    bool
			Department string
		}{
			{"admin@example.com", "Ama Admin", "admin", true, "Operations"},
			{"manager@example.com", "Kwame Manager", "manager", false, "Engineering"},
			{"kofi@example.com", "Kofi Mensah", "member", false, "Engineering"},
			{"abena@example.com", "Abena Osei", "member", false, "Engineering"},
		}

		for _, u := range users {
			var exists int
			row := db.Raw("SELECT 1 FROM users WHERE email = ?", u.Email).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Println("user already exists, skipping:", u.Email)
				continue
			}

			err := db.Exec(
				"INSERT INTO users (email, name, password_hash, role, is_admin, department, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, true, now(), now())",
				u.Email, u.Name, string(hash), u.Role, u.IsAdmin, u.Department,
			).Error
			if err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Println("Seeded user:", u.Email)
		}

		var memberID int64
		if err := db.Raw("SELECT id FROM users WHERE email = ?", "kofi@example.com").Row().Scan(&memberID); err != nil {
			log.Fatalf("failed to lookup member user id: %v", err)
		}

		activities := []struct {
			Title    string
			Category string
			Priority string
			Status   string
		}{
			{"Migrate reporting queries to read replica", "development", "high", "in_progress"},
			{"Write smoke tests for the deploy pipeline", "testing", "medium", "pending"},
			{"Document the on-call escalation flow", "documentation", "low", "pending"},
		}

		for _, a := range activities {
			var exists int
			row := db.Raw("SELECT 1 FROM activities WHERE title = ? AND deleted_at IS NULL", a.Title).Row()
			if err := row.Scan(&exists); err == nil {
				continue
			}

			err := db.Exec(
				"INSERT INTO activities (title, category, priority, status, created_by, assigned_to, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, now(), now())",
				a.Title, a.Category, a.Priority, a.Status, memberID, memberID,
			).Error
			if err != nil {
				log.Fatalf("failed to insert activity %q: %v", a.Title, err)
			}
			fmt.Println("Seeded activity:", a.Title)
		}

		fmt.Println("Seeding complete")
	},
}
