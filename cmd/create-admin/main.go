package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/medconsole/admin-backend/internal/config"
	"github.com/medconsole/admin-backend/internal/database"
	"github.com/medconsole/admin-backend/internal/logger"
	"github.com/medconsole/admin-backend/internal/model"
	"github.com/medconsole/admin-backend/internal/password"
	"github.com/medconsole/admin-backend/internal/repository"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.MustLoad()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if cfg.DemoMode() {
		log.Fatal().Msg("DATABASE_URL is not set; demo identities cannot be created")
	}

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	adminRepo := repository.NewAdminRepository(pool)
	hasher := password.NewHasher(cfg.BcryptCost)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create Console Identity ===")

	// Full name
	fmt.Print("Enter Full Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Error: Full name is required")
		return
	}

	// Login
	fmt.Print("Enter Login: ")
	login, _ := reader.ReadString('\n')
	login = strings.TrimSpace(login)
	if len(login) < 3 {
		fmt.Println("Error: Login must be at least 3 characters")
		return
	}

	// Password
	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	plain := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(plain) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	// Role
	fmt.Print("Enter Role [admin|moderator] (default admin): ")
	roleStr, _ := reader.ReadString('\n')
	role := model.AdminRole(strings.TrimSpace(roleStr))
	if role == "" {
		role = model.RoleAdmin
	}
	if !role.Valid() {
		fmt.Println("Error: Role must be admin or moderator")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	hash, err := hasher.Hash(plain)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	newAdmin := &model.Admin{
		Login:        login,
		FullName:     name,
		Role:         role,
		Active:       true,
		PasswordHash: hash,
	}

	if err := adminRepo.Create(ctx, newAdmin); err != nil {
		log.Fatal().Err(err).Msg("Failed to create identity")
	}

	fmt.Printf("\nSuccess! %s '%s' (%s) created with ID: %s\n", newAdmin.Role, newAdmin.FullName, newAdmin.Login, newAdmin.ID)
}
