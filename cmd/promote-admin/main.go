package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/medconsole/admin-backend/internal/config"
	"github.com/medconsole/admin-backend/internal/database"
	"github.com/medconsole/admin-backend/internal/logger"
	"github.com/medconsole/admin-backend/internal/model"
	"github.com/medconsole/admin-backend/internal/repository"
)

// promote-admin restores console access when every admin has been demoted
// or deactivated. It bypasses the API, which refuses to remove the last admin
// but cannot undo direct table edits.
func main() {
	login := flag.String("login", "", "login of the identity to promote")
	flag.Parse()

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.MustLoad()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if *login == "" {
		fmt.Println("Usage: promote-admin -login <login>")
		return
	}

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	adminRepo := repository.NewAdminRepository(pool)

	fmt.Println("=== Promote Console Identity ===")

	admin, err := adminRepo.GetByLogin(ctx, *login)
	if err != nil {
		log.Fatal().Err(err).Str("login", *login).Msg("Failed to load identity")
	}

	if admin.Role == model.RoleAdmin && admin.Active {
		fmt.Printf("'%s' is already an active admin. Nothing to do.\n", admin.Login)
		return
	}

	admin.Role = model.RoleAdmin
	admin.Active = true
	if err := adminRepo.Update(ctx, admin); err != nil {
		log.Fatal().Err(err).Msg("Failed to promote identity")
	}

	fmt.Printf("\nSuccess! '%s' is now an active admin.\n", admin.Login)
}
