package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"teasim/app"
	"teasim/domain/montecarlo"
	"teasim/domain/params"
	"teasim/internal/random"
	"teasim/internal/report"
	"teasim/internal/sampling"
	"teasim/internal/simulation"
	"teasim/internal/tea"
	"teasim/internal/testkit"

	excelexport "teasim/adapters/excel"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "teasim",
		Short: "Monte Carlo uncertainty analysis for techno-economic project evaluations",
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newSweepCmd(),
		newSampleCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var (
		requestFile string
		iterations  int
		seed        int64
		parallel    int
		label       string
		xlsxPath    string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a Monte Carlo simulation and print its report",
		Long: `Execute a Monte Carlo simulation against the built-in TEA evaluator.

Without --request the bundled 100 MW solar reference study runs; with it,
the JSON file supplies label, config, parameters and base inputs.

Example: teasim run --iterations 10000 --seed 42 --xlsx out.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loadRequest(requestFile)
			if err != nil {
				return err
			}
			if label != "" {
				req.Label = label
			}
			if iterations > 0 {
				req.Config.Iterations = iterations
			}
			if seed != 0 {
				req.Config.Seed = seed
			}
			if parallel > 0 {
				req.Config.ParallelBatches = parallel
			}

			engine := simulation.NewEngine(simulation.WithProgress(printProgress))
			svc := app.NewSimulationService(engine, tea.NewEvaluator(), nil)

			rec, err := svc.Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr)
			fmt.Print(report.Markdown(rec))

			if xlsxPath != "" {
				if err := excelexport.SaveAs(rec, xlsxPath); err != nil {
					return fmt.Errorf("failed to write workbook: %w", err)
				}
				fmt.Fprintf(os.Stderr, "workbook written to %s\n", xlsxPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&requestFile, "request", "", "JSON run request file (default: bundled solar study)")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "override iteration count")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for reproducible runs")
	cmd.Flags().IntVar(&parallel, "parallel", 0, "concurrent block limit (0 = sequential)")
	cmd.Flags().StringVar(&label, "label", "", "run label")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write an Excel workbook to this path")
	return cmd
}

func newSweepCmd() *cobra.Command {
	var variations []float64

	cmd := &cobra.Command{
		Use:   "sweep [parameter]",
		Short: "Deterministic one-parameter sensitivity sweep",
		Long: `Re-evaluate the bundled solar study while varying one input by fixed
percentages, all other inputs held at base values.

Example: teasim sweep capex_per_kw --variations=-30,-15,0,15,30`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := tea.Sweep(testkit.SolarBaseInputs(), args[0], variations)
			if err != nil {
				return err
			}

			fmt.Printf("Sweep of %s (base %.4g)\n\n", res.Parameter, res.BaseValue)
			fmt.Printf("%10s  %12s  %14s\n", "delta", "LCOE", "NPV")
			for i, pct := range res.Variations {
				fmt.Printf("%+9.0f%%  %12.2f  %14.0f\n", pct, res.LCOE[i], res.NPV[i])
			}
			return nil
		},
	}

	cmd.Flags().Float64SliceVar(&variations, "variations", nil, "percent deltas (default -20,-10,0,10,20)")
	return cmd
}

func newSampleCmd() *cobra.Command {
	var (
		n    int
		seed int64
	)

	cmd := &cobra.Command{
		Use:   "sample [parameter]",
		Short: "Inspect draws for one uncertain parameter of the bundled study",
		Long: `Draw n samples for the named parameter of the bundled solar study and
print summary statistics, for eyeballing distribution shapes before a run.

Example: teasim sample capex_per_kw --n 10000 --seed 42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			param, err := findParameter(args[0])
			if err != nil {
				return err
			}

			sampler := sampling.NewSampler(random.New(seed))
			min, max := 0.0, 0.0
			sum, sumSq := 0.0, 0.0
			for i := 0; i < n; i++ {
				v := sampler.Sample(param)
				if i == 0 || v < min {
					min = v
				}
				if i == 0 || v > max {
					max = v
				}
				sum += v
				sumSq += v * v
			}

			mean := sum / float64(n)
			variance := sumSq/float64(n) - mean*mean
			if variance < 0 {
				variance = 0
			}
			fmt.Printf("%s (%s, %d draws, seed %d)\n", param.Name, param.Distribution, n, seed)
			fmt.Printf("  mean %.6g  std %.6g  min %.6g  max %.6g\n",
				mean, math.Sqrt(variance), min, max)
			return nil
		},
	}

	cmd.Flags().IntVar(&n, "n", 10000, "number of draws")
	cmd.Flags().Int64Var(&seed, "seed", 42, "generator seed")
	return cmd
}

func loadRequest(path string) (app.RunRequest, error) {
	if path == "" {
		return app.RunRequest{
			Label:      "Solar 100 MW reference study",
			Config:     montecarlo.SimulationConfig{Iterations: montecarlo.DefaultIterations},
			Parameters: testkit.SolarParameters(),
			BaseInputs: testkit.SolarBaseInputs(),
		}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return app.RunRequest{}, fmt.Errorf("failed to read request file: %w", err)
	}
	var req app.RunRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return app.RunRequest{}, fmt.Errorf("failed to parse request file: %w", err)
	}
	return req, nil
}

func findParameter(name string) (params.UncertainParameter, error) {
	available := make([]string, 0)
	for _, p := range testkit.SolarParameters() {
		if p.Name.String() == name {
			return p, nil
		}
		available = append(available, p.Name.String())
	}
	return params.UncertainParameter{}, fmt.Errorf("unknown parameter %q (available: %s)",
		name, strings.Join(available, ", "))
}

func printProgress(processed, total int) {
	fmt.Fprintf(os.Stderr, "\r%d/%d iterations", processed, total)
}
