package main

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"teasim/internal/config"
	"teasim/internal/container"
	"teasim/internal/errors"
	"teasim/internal/migration"
	"teasim/ui"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	c, err := container.New(cfg)
	if err != nil {
		log.Fatalf("Failed to build container: %v", err)
	}
	defer c.Close()

	if cfg.Database.URL != "" {
		db, err := initDatabase(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		if err := c.InitWithDatabase(db); err != nil {
			log.Fatalf("Failed to initialize container: %v", err)
		}
	} else {
		log.Println("DATABASE_URL not set; running without run persistence")
	}
	c.InitServices()

	// JSON API (chi) and dashboard (gin) listen on separate ports.
	api := ui.NewApp(c.Simulations)
	go func() {
		log.Printf("API listening on :%s", cfg.Server.APIPort)
		if err := api.Start(":" + cfg.Server.APIPort); err != nil {
			log.Fatalf("API server failed: %v", err)
		}
	}()

	dashboard, err := ui.NewServer(c.Simulations, cfg.Server.GinMode)
	if err != nil {
		log.Fatalf("Failed to build dashboard: %v", err)
	}
	log.Printf("Dashboard listening on :%s", cfg.Server.Port)
	if err := dashboard.Start(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Dashboard server failed: %v", err)
	}
}

// initDatabase connects to PostgreSQL and applies the schema.
func initDatabase(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	if err := migration.NewRunner().Run(context.Background(), db); err != nil {
		return nil, errors.Wrap(err, "migration failed")
	}
	return db, nil
}
