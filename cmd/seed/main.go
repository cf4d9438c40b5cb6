package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"mainstream-shop/internal/config"
	"mainstream-shop/internal/database"
	"mainstream-shop/internal/models"
	"mainstream-shop/internal/repositories"
	"mainstream-shop/internal/services"
	"mainstream-shop/internal/utils"
)

// Seeds a sample tournament with categories and athletes, the default video
// type catalog, and an admin account.
func main() {
	adminEmail := flag.String("admin-email", "admin@mainstream.local", "Admin account email")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewConnection(database.Config{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	eventRepo := repositories.NewEventRepository(db)
	athleteRepo := repositories.NewAthleteRepository(db)
	videoTypeRepo := repositories.NewVideoTypeRepository(db)
	userRepo := repositories.NewUserRepository(db)

	catalog := services.NewCatalogService(eventRepo, athleteRepo, videoTypeRepo)
	if err := catalog.EnsureDefaultVideoTypes(); err != nil {
		log.Fatalf("Failed to seed video types: %v", err)
	}
	fmt.Println("Video type catalog seeded")

	if err := seedAdmin(userRepo, *adminEmail); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	if err := seedTournament(eventRepo, athleteRepo); err != nil {
		log.Fatalf("Failed to seed tournament: %v", err)
	}
	fmt.Println("Sample tournament seeded")
}

func seedAdmin(users *repositories.UserRepository, email string) error {
	if _, err := users.GetByEmail(email); err == nil {
		fmt.Printf("Admin %s already exists\n", email)
		return nil
	}

	password, err := models.GeneratePassword()
	if err != nil {
		return err
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     "Shop Admin",
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := users.Create(admin); err != nil {
		return err
	}

	fmt.Printf("Admin created: %s / %s (change this password)\n", email, password)
	return nil
}

func seedTournament(events *repositories.EventRepository, athletes *repositories.AthleteRepository) error {
	start := time.Now().AddDate(0, 1, 0)
	end := start.AddDate(0, 0, 2)

	event, err := events.Create(&models.EventCreateRequest{
		Name:      "MainStream Open " + start.Format("2006"),
		Place:     "Moscow",
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		return err
	}

	categories := []struct {
		name   string
		gender models.Gender
		names  []string
	}{
		{"Juniors 12-14", models.GenderFemale, []string{"Anna Petrova", "Vera Smirnova", "Dina Orlova"}},
		{"Seniors", models.GenderFemale, []string{"Maria Ivanova", "Olga Kuznetsova"}},
		{"Mixed pairs", models.GenderMixed, nil},
	}

	for _, c := range categories {
		category, err := events.CreateCategory(&models.CategoryCreateRequest{
			Name:    c.name,
			Gender:  c.gender,
			EventID: event.ID,
		})
		if err != nil {
			return err
		}
		for _, name := range c.names {
			if _, err := athletes.Create(&models.AthleteCreateRequest{
				Name:       name,
				Gender:     c.gender,
				CategoryID: category.ID,
			}); err != nil {
				return err
			}
		}
		if c.gender == models.GenderMixed {
			if _, err := athletes.Create(&models.AthleteCreateRequest{
				Name:        "Boris Ivanov",
				Gender:      models.GenderMale,
				CategoryID:  category.ID,
				IsPair:      true,
				PartnerName: "Vera Ivanova",
			}); err != nil {
				return err
			}
		}
	}
	return nil
}
