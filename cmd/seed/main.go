package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/oksasatya/volunteer-hub/config"
	"github.com/oksasatya/volunteer-hub/internal/application"
	"github.com/oksasatya/volunteer-hub/internal/container"
	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
	"github.com/oksasatya/volunteer-hub/pkg/helpers"
	"github.com/oksasatya/volunteer-hub/pkg/validation"
)

// seed creates the ADMIN account from SEED_ADMIN_*. Admins cannot sign up.
func main() {
	config.LoadDotEnv()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()
	email := strings.ToLower(strings.TrimSpace(cfg.SeedAdminEmail))
	if !validation.Email(email) {
		log.Fatalf("SEED_ADMIN_EMAIL %q is not a valid email", email)
	}

	store, err := container.OpenStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer func() { _ = store.Close() }()

	users := application.NewUserService(store.Users(), nil, nil, logger)
	u, err := users.CreateUser(ctx, email, cfg.SeedAdminPassword, cfg.SeedAdminName, entity.RoleAdmin)
	if errors.Is(err, application.ErrValidation) {
		existing, gerr := store.Users().GetByEmail(ctx, email)
		if gerr == nil && existing.Role == entity.RoleAdmin {
			fmt.Printf("admin already seeded: id=%s email=%s\n", existing.ID, existing.Email)
			return
		}
		log.Fatalf("failed to seed admin: %v", err)
	}
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s name=%s\n", u.ID, u.Email, u.Name)
}
