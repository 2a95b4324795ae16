package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTuning(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeTuning(t, "default_max_steps: 1234\nverify_workers: 3\n")

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.DefaultMaxSteps != 1234 || got.VerifyWorkers != 3 {
		t.Fatalf("explicit fields = %d/%d, want 1234/3", got.DefaultMaxSteps, got.VerifyWorkers)
	}
	def := Default()
	if got.BatchMemoryBudgetBytes != def.BatchMemoryBudgetBytes {
		t.Fatalf("budget = %d, want default %d", got.BatchMemoryBudgetBytes, def.BatchMemoryBudgetBytes)
	}
	if got.WatchTickRateHz != def.WatchTickRateHz {
		t.Fatalf("tick rate = %d, want default %d", got.WatchTickRateHz, def.WatchTickRateHz)
	}
}

func TestLoad_ClampsBadValues(t *testing.T) {
	path := writeTuning(t, "default_max_steps: -4\nverify_workers: -2\nwatch_tick_rate_hz: 0\n")

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := Default()
	if got.DefaultMaxSteps != def.DefaultMaxSteps {
		t.Fatalf("max steps = %d, want default", got.DefaultMaxSteps)
	}
	if got.VerifyWorkers != 0 {
		t.Fatalf("workers = %d, want 0", got.VerifyWorkers)
	}
	if got.WatchTickRateHz != def.WatchTickRateHz {
		t.Fatalf("tick rate = %d, want default", got.WatchTickRateHz)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("missing file should fail")
	}
	path := writeTuning(t, "default_max_steps: [not, an, int]\n")
	if _, err := Load(path); err == nil {
		t.Fatal("malformed yaml should fail")
	}
}
