package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"activly/internal/activities"
	"activly/internal/shared/config"
	"activly/internal/shared/database"
	"activly/internal/users"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Activly Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"activity_attendees",
		"bookings",
		"activities",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	userIDs, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	if err := s.SeedActivities(userIDs["admin"]); err != nil {
		return fmt.Errorf("failed to seed activities: %w", err)
	}

	// Clear cached listings so the API serves fresh data
	if s.db.Redis != nil {
		if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
			log.Printf("Warning: Failed to clear Redis cache: %v", err)
		}
	}

	return nil
}

// SeedUsers creates 1 admin and 2 regular users, all with password "qwerty".
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  👤 Seeding users...")

	userIDs := make(map[string]uuid.UUID)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key       string
		firstName string
		lastName  string
		email     string
		role      users.Role
	}{
		{"admin", "Admin", "User", "admin@activly.test", users.RoleAdmin},
		{"user1", "Ana", "Garcia", "ana.garcia@activly.test", users.RoleUser},
		{"user2", "Luis", "Martinez", "luis.martinez@activly.test", users.RoleUser},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:        uuid.New(),
			FirstName: userData.firstName,
			LastName:  userData.lastName,
			Email:     userData.email,
			Password:  string(hashedPassword),
			Role:      userData.role,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		userIDs[userData.key] = user.ID
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}

	return userIDs, nil
}

// SeedActivities creates a spread of upcoming activities.
func (s *Seeder) SeedActivities(adminID uuid.UUID) error {
	fmt.Println("  🏃 Seeding activities...")

	activitiesData := []struct {
		name         string
		description  string
		location     string
		price        float64
		maxAttendees int
		daysFromNow  int
	}{
		{
			name:         "Sunrise Yoga in the Park",
			description:  "Start the day with a guided outdoor yoga session for all levels.",
			location:     "Parque Centenario",
			price:        1500.0,
			maxAttendees: 25,
			daysFromNow:  7,
		},
		{
			name:         "Indoor Climbing Intro",
			description:  "First steps on the wall with certified instructors, gear included.",
			location:     "Boulder Club Palermo",
			price:        4500.0,
			maxAttendees: 12,
			daysFromNow:  10,
		},
		{
			name:         "5K Night Run",
			description:  "Guided group run along the river with pace groups for every level.",
			location:     "Costanera Sur",
			price:        2000.0,
			maxAttendees: 100,
			daysFromNow:  14,
		},
		{
			name:         "Cooking Workshop: Fresh Pasta",
			description:  "Hands-on pasta workshop with dinner and wine tasting included.",
			location:     "Mercado de San Telmo",
			price:        8000.0,
			maxAttendees: 16,
			daysFromNow:  21,
		},
		{
			name:         "Weekend Kayak Trip",
			description:  "Full day kayaking in the delta, includes transport and lunch.",
			location:     "Tigre Delta",
			price:        12000.0,
			maxAttendees: 20,
			daysFromNow:  30,
		},
		{
			name:         "Beginner Padel Clinic",
			description:  "Two-hour clinic covering the basics, rackets provided.",
			location:     "Padel Center Nunez",
			price:        3500.0,
			maxAttendees: 8,
			daysFromNow:  5,
		},
	}

	for _, data := range activitiesData {
		activity := activities.Activity{
			ID:           uuid.New(),
			Name:         data.name,
			Description:  data.description,
			Location:     data.location,
			DateTime:     time.Now().AddDate(0, 0, data.daysFromNow),
			Price:        data.price,
			MaxAttendees: data.maxAttendees,
			CreatedBy:    adminID,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&activity).Error; err != nil {
			return fmt.Errorf("failed to create activity %s: %w", activity.Name, err)
		}

		fmt.Printf("    ✅ Created activity: %s\n", activity.Name)
	}

	return nil
}
