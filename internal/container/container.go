package container

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"teasim/adapters/postgres"
	"teasim/app"
	"teasim/internal/config"
	"teasim/internal/risk"
	"teasim/internal/simulation"
	"teasim/internal/tea"
	"teasim/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	DB *sqlx.DB

	// Repositories (data access layer)
	ResultRepo ports.ResultRepository

	// Engine components
	Engine    *simulation.Engine
	Evaluator ports.Evaluator

	// Application services
	Simulations *app.SimulationService
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{Config: cfg}

	c.Engine = simulation.NewEngine(
		simulation.WithRiskOptions(risk.WithDownsideThreshold(cfg.Simulation.DownsideThreshold)),
	)
	c.Evaluator = tea.NewEvaluator()

	return c, nil
}

// InitWithDatabase initializes components that require database access.
// Calling it is optional: without a database the service runs with
// persistence disabled.
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	c.DB = db

	// Test database connection
	if err := db.Ping(); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	c.ResultRepo = postgres.NewResultRepository(db)
	log.Printf("Container initialized with database connection")
	return nil
}

// InitServices builds the application services over whatever repositories
// are present. Call after InitWithDatabase, or directly for in-memory mode.
func (c *Container) InitServices() {
	c.Simulations = app.NewSimulationService(c.Engine, c.Evaluator, c.ResultRepo,
		app.WithRunDefaults(c.Config.Simulation.DefaultIterations, c.Config.Simulation.ParallelBatches))
}

// Close releases held resources.
func (c *Container) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
