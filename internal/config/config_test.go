package config

import (
	"testing"
)

func TestDatabaseDSN(t *testing.T) {
	testCases := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "sslmode appended",
			cfg:  DatabaseConfig{URL: "postgres://localhost/teasim", SSLMode: "disable"},
			want: "postgres://localhost/teasim?sslmode=disable",
		},
		{
			name: "existing query string extended",
			cfg:  DatabaseConfig{URL: "postgres://localhost/teasim?connect_timeout=5", SSLMode: "require"},
			want: "postgres://localhost/teasim?connect_timeout=5&sslmode=require",
		},
		{
			name: "sslmode in url wins",
			cfg:  DatabaseConfig{URL: "postgres://localhost/teasim?sslmode=verify-full", SSLMode: "disable"},
			want: "postgres://localhost/teasim?sslmode=verify-full",
		},
		{
			name: "empty url stays empty",
			cfg:  DatabaseConfig{URL: "", SSLMode: "disable"},
			want: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cfg.DSN(); got != tc.want {
				t.Errorf("DSN() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLoadSimulationDefaults(t *testing.T) {
	t.Setenv("SIM_DEFAULT_ITERATIONS", "2500")
	t.Setenv("SIM_PARALLEL_BATCHES", "4")
	t.Setenv("SIM_DOWNSIDE_THRESHOLD", "-500000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Simulation.DefaultIterations != 2500 {
		t.Errorf("DefaultIterations = %d, want 2500", cfg.Simulation.DefaultIterations)
	}
	if cfg.Simulation.ParallelBatches != 4 {
		t.Errorf("ParallelBatches = %d, want 4", cfg.Simulation.ParallelBatches)
	}
	if cfg.Simulation.DownsideThreshold != -500000 {
		t.Errorf("DownsideThreshold = %f, want -500000", cfg.Simulation.DownsideThreshold)
	}
}

func TestLoadRejectsBadSimulationConfig(t *testing.T) {
	t.Setenv("SIM_DEFAULT_ITERATIONS", "-1")

	if _, err := Load(); err == nil {
		t.Error("Expected error for negative SIM_DEFAULT_ITERATIONS")
	}
}
