package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/medconsole/admin-backend/internal/activity"
	"github.com/medconsole/admin-backend/internal/config"
	"github.com/medconsole/admin-backend/internal/database"
	"github.com/medconsole/admin-backend/internal/logger"
	"github.com/medconsole/admin-backend/internal/model"
	"github.com/medconsole/admin-backend/internal/repository"
	"github.com/medconsole/admin-backend/internal/service"
)

var (
	firstNames = []string{
		"Aliya", "Marat", "Elena", "Timur", "Saule", "Nurlan", "Dana", "Askar",
		"Madina", "Ruslan", "Zhanna", "Yerlan", "Kamila", "Bauyrzhan", "Aruzhan",
	}
	lastNames = []string{
		"Nurlanova", "Ospanov", "Petrova", "Akhmetov", "Bekova", "Serikov", "Ismailova",
		"Zhakupov", "Tulegenova", "Abenov", "Kim", "Omarov", "Sultanova",
	}
	diseaseTypes = []string{
		"cardiology", "oncology", "neurology", "orthopedics", "endocrinology", "gastroenterology",
	}
)

func main() {
	count := flag.Int("n", 50, "number of consultation requests to create")
	flag.Parse()

	cfg := config.MustLoad()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if cfg.DemoMode() {
		log.Fatal().Msg("DATABASE_URL is not set; demo mode already ships sample requests")
	}

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	consultationRepo := repository.NewConsultationRepository(pool)
	consultationService := service.NewConsultationService(consultationRepo, nil, activity.Nop{}, cfg.GatewayTimeout(), log)

	fmt.Printf("=== Seeding %d Consultation Requests ===\n", *count)

	successCount := 0
	for i := 0; i < *count; i++ {
		req := model.SubmitConsultationRequest{
			FirstName:   firstNames[i%len(firstNames)],
			LastName:    lastNames[i%len(lastNames)],
			Age:         18 + (i*7)%60,
			DiseaseType: diseaseTypes[i%len(diseaseTypes)],
			Phone:       fmt.Sprintf("+7701%07d", i+1),
		}
		if i%4 == 0 {
			note := "Prefers a call in the evening"
			req.Comments = &note
		}

		created, err := consultationService.Submit(ctx, req)
		if err != nil {
			fmt.Printf("Error creating request for %s %s: %v\n", req.FirstName, req.LastName, err)
			continue
		}
		successCount++

		// Spread statuses so the dashboard has something to show.
		if status := model.AllConsultationStatuses[i%len(model.AllConsultationStatuses)]; status != model.StatusPending {
			if err := consultationRepo.UpdateStatus(ctx, created.ID, status); err != nil {
				fmt.Printf("Error setting status of %s: %v\n", created.ID, err)
			}
		}

		if (i+1)%10 == 0 {
			fmt.Printf("Created %d requests...\n", i+1)
		}
	}

	fmt.Printf("\nSeed completed! Successfully added %d/%d requests.\n", successCount, *count)
}
