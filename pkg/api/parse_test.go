package api

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadManifest_Valid(t *testing.T) {
	content := `
context:
  farm: north
steps:
  - id: sim.weather
    type: counter
    role: authoritative
    counter:
      failOnTicks: [5]
  - id: sim.soil
    type: scripted
    scripted:
      rules:
        - every: 3
          kind: skipped
          reasonCode: DOMAIN.Soil.Saturated
    gate:
      denyEvery: 4
      reasonCode: STEP.GATE.NotReady
`
	dir := t.TempDir()
	f := filepath.Join(dir, ManifestFileName)
	if err := os.WriteFile(f, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	m, err := LoadManifest(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(m.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(m.Steps))
	}
	if m.Dir != dir {
		t.Fatalf("expected Dir=%q, got %q", dir, m.Dir)
	}
	if m.Context["farm"] != "north" {
		t.Fatalf("expected farm=north, got %v", m.Context["farm"])
	}
	if got := m.Steps[0].Counter.FailOnTicks; len(got) != 1 || got[0] != 5 {
		t.Fatalf("unexpected failOnTicks: %v", got)
	}
	if m.Steps[1].Gate == nil || m.Steps[1].Gate.DenyEvery != 4 {
		t.Fatalf("unexpected gate: %+v", m.Steps[1].Gate)
	}
	if r := m.Steps[1].Scripted.Rules[0]; r.Kind != KindSkipped || r.ReasonCode != "DOMAIN.Soil.Saturated" {
		t.Fatalf("unexpected rule: %+v", r)
	}
}

func TestLoadManifest_FileNotFound(t *testing.T) {
	_, err := LoadManifest("/nonexistent/.tick.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "reading manifest file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadManifest_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, ManifestFileName)
	if err := os.WriteFile(f, []byte("{{invalid"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadManifest(f)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "parsing manifest file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadManifest_ValidationFails(t *testing.T) {
	content := `
steps:
  - id: ""
    type: counter
`
	dir := t.TempDir()
	f := filepath.Join(dir, ManifestFileName)
	if err := os.WriteFile(f, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadManifest(f)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "validating manifest") {
		t.Fatalf("unexpected error: %v", err)
	}
}
