package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/store-mgmt/store-api/internal/app"
	"github.com/store-mgmt/store-api/internal/platform/db"
	"github.com/store-mgmt/store-api/internal/rbac"
	"github.com/store-mgmt/store-api/internal/shared"
	"github.com/store-mgmt/store-api/migrations"
)

// demoCategories is loaded once into a fresh database.
var demoCategories = []struct{ name, note string }{
	{"Beverages", "Soft drinks, coffees, teas"},
	{"Condiments", "Sauces, relishes, spreads"},
	{"Confections", "Desserts and candies"},
	{"Dairy", "Cheeses"},
	{"Grains", "Breads, crackers, pasta"},
	{"Produce", "Dried fruit and bean curd"},
	{"Seafood", "Fish and shellfish"},
}

func main() {
	_ = godotenv.Load()

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.StoreDriver != app.DriverPostgres {
		log.Fatalf("seed requires STORE_DRIVER=%s", app.DriverPostgres)
	}
	password := getenv("SEED_PASSWORD", "changeme")

	ctx := context.Background()
	pool, err := db.New(ctx, cfg.DatabaseURL, cfg.PoolOptions())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	fmt.Println("→ Applying migrations...")
	if _, err := migrations.Apply(ctx, pool, nil); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	infra := app.Infra{Pool: pool}
	fmt.Println("→ Seeding users...")
	store, err := app.NewUserStore(cfg, infra)
	if err != nil {
		log.Fatalf("user store: %v", err)
	}
	for _, role := range rbac.DefaultTable().Names() {
		username := "demo-" + role
		_, err := store.Create(ctx, username, password, role)
		if skip(err) {
			continue
		}
		fmt.Printf("  %s (%s)\n", username, role)
	}

	fmt.Println("→ Seeding categories...")
	svc, err := app.NewCategoriesService(cfg, app.NewLogger(cfg), infra)
	if err != nil {
		log.Fatalf("categories service: %v", err)
	}
	for _, c := range demoCategories {
		if _, err := svc.Create(ctx, c.name, c.note); skip(err) {
			continue
		}
		fmt.Printf("  %s\n", c.name)
	}
	fmt.Println("✓ Seed complete")
}

// skip reports whether the record already existed; other errors abort.
func skip(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, shared.ErrDuplicate) {
		return true
	}
	log.Fatalf("seed: %v", err)
	return true
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
