package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v, want nil", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   []error
	}{
		{
			name:   "min greater than max",
			mutate: func(c *Config) { c.SphereRadius = [2]float32{5, 2} },
			want:   []error{ErrRadiusRange},
		},
		{
			name:   "zero min radius",
			mutate: func(c *Config) { c.SphereRadius = [2]float32{0, 2} },
			want:   []error{ErrRadiusNonPositive},
		},
		{
			name:   "negative placement radius",
			mutate: func(c *Config) { c.SpherePlacementRadius = -1 },
			want:   []error{ErrPlacementRadius},
		},
		{
			name: "several at once",
			mutate: func(c *Config) {
				c.SphereRadius = [2]float32{-1, -2}
				c.SpherePlacementRadius = -10
			},
			want: []error{ErrRadiusRange, ErrRadiusNonPositive, ErrPlacementRadius},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			for _, want := range tt.want {
				if !errors.Is(err, want) {
					t.Errorf("Validate() = %v, want it to wrap %v", err, want)
				}
			}
		})
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rt.json")
	data := []byte(`{"spheres_max": 12, "progressive_sampling": false, "seed": 7}`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SpheresMax != 12 {
		t.Errorf("SpheresMax = %d, want 12", cfg.SpheresMax)
	}
	if cfg.ProgressiveSampling {
		t.Error("ProgressiveSampling = true, want false")
	}
	if cfg.Seed != 7 {
		t.Errorf("Seed = %d, want 7", cfg.Seed)
	}
	if cfg.SphereRadius != Default().SphereRadius {
		t.Errorf("SphereRadius = %v, want default %v", cfg.SphereRadius, Default().SphereRadius)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Load(missing) = nil error, want error")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load(bad json) = nil error, want error")
	}
}

func TestGenerationChanged(t *testing.T) {
	base := Default()

	sampling := base
	sampling.ProgressiveSampling = false
	sampling.ProgressiveSamplingMaxSamples = 4
	sampling.SkyboxPath = "sky.png"
	if base.GenerationChanged(sampling) {
		t.Error("GenerationChanged() = true for sampling-only edits, want false")
	}

	edits := []func(*Config){
		func(c *Config) { c.SphereRadius[1] = 9 },
		func(c *Config) { c.SpheresMax = 1 },
		func(c *Config) { c.SpherePlacementRadius = 1 },
		func(c *Config) { c.Seed = 99 },
	}
	for i, edit := range edits {
		other := base
		edit(&other)
		if !base.GenerationChanged(other) {
			t.Errorf("edit %d: GenerationChanged() = false, want true", i)
		}
	}
}
