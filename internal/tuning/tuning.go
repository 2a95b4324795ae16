// Package tuning holds the operational knobs shared by the CLI tools,
// loaded from a YAML file with sane zero-value fallbacks.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	// DefaultMaxSteps is the step budget applied when a run does not
	// specify one.
	DefaultMaxSteps int `yaml:"default_max_steps"`

	// VerifyWorkers is the worker-pool size for verification sweeps.
	// Zero lets the harness pick GOMAXPROCS.
	VerifyWorkers int `yaml:"verify_workers"`

	// BatchMemoryBudgetBytes caps the visited-bitmap memory of a batch
	// run; past it, lanes are processed in sequential chunks.
	BatchMemoryBudgetBytes int `yaml:"batch_memory_budget_bytes"`

	// WatchTickRateHz is the frame rate of the live watch stream.
	WatchTickRateHz int `yaml:"watch_tick_rate_hz"`
}

func Default() Tuning {
	return Tuning{
		DefaultMaxSteps:        50000,
		VerifyWorkers:          0,
		BatchMemoryBudgetBytes: 64 << 20,
		WatchTickRateHz:        20,
	}
}

// Load reads a tuning file and fills unset fields from Default.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning: %s: %w", path, err)
	}
	def := Default()
	if t.DefaultMaxSteps <= 0 {
		t.DefaultMaxSteps = def.DefaultMaxSteps
	}
	if t.BatchMemoryBudgetBytes <= 0 {
		t.BatchMemoryBudgetBytes = def.BatchMemoryBudgetBytes
	}
	if t.WatchTickRateHz <= 0 {
		t.WatchTickRateHz = def.WatchTickRateHz
	}
	if t.VerifyWorkers < 0 {
		t.VerifyWorkers = 0
	}
	return t, nil
}
