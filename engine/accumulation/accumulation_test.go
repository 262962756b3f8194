package accumulation

import (
	"math"
	"testing"
)

func TestAdvanceSaturates(t *testing.T) {
	tests := []struct {
		name     string
		max      uint32
		advances int
		want     uint32
		state    State
	}{
		{"no advances", 4, 0, 0, StateAccumulating},
		{"below max", 4, 3, 3, StateAccumulating},
		{"reaches max", 4, 4, 4, StateAccumulating},
		{"one past max saturates", 4, 5, 4, StateSaturated},
		{"far past max", 4, 100, 4, StateSaturated},
		{"zero max", 0, 1, 0, StateSaturated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(WithMaxSamples(tt.max))
			for range tt.advances {
				c.Advance()
			}
			if got := c.Count(); got != tt.want {
				t.Errorf("Count() = %d, want %d", got, tt.want)
			}
			if got := c.State(); got != tt.state {
				t.Errorf("State() = %v, want %v", got, tt.state)
			}
			if c.Count() > tt.max {
				t.Errorf("Count() %d exceeds max %d", c.Count(), tt.max)
			}
		})
	}
}

func TestSampleIndexSentinel(t *testing.T) {
	c := NewController(WithMaxSamples(2))
	for range 3 {
		c.Advance()
	}
	if c.SampleIndex() != math.MaxUint32 {
		t.Errorf("SampleIndex() = %d, want MaxUint32", c.SampleIndex())
	}
	w := c.BlendWeight()
	c.Advance()
	if c.BlendWeight() != w {
		t.Error("blend weight changed after saturation")
	}
	if w <= 0 || w > 1e-9 {
		t.Errorf("saturated BlendWeight() = %v, want a tiny positive weight", w)
	}
}

func TestResetFromAnyState(t *testing.T) {
	for _, advances := range []int{0, 1, 5, 50} {
		c := NewController(WithMaxSamples(5))
		for range advances {
			c.Advance()
		}
		c.Reset()
		if c.Count() != 0 || c.State() != StateAccumulating || c.SampleIndex() != 0 {
			t.Errorf("after %d advances, Reset() left count %d state %v", advances, c.Count(), c.State())
		}
	}
}

func TestBlendWeight(t *testing.T) {
	c := NewController(WithMaxSamples(1024))
	for k := range 10 {
		want := float32(1 / float64(k+1))
		if got := c.BlendWeight(); got != want {
			t.Errorf("k=%d: BlendWeight() = %v, want %v", k, got, want)
		}
		c.Advance()
	}
}

func TestFirstSampleReplacesHistory(t *testing.T) {
	c := NewController()
	if c.BlendWeight() != 1 {
		t.Errorf("BlendWeight() at sample 0 = %v, want 1", c.BlendWeight())
	}
}

func TestDisabledProgressiveSampling(t *testing.T) {
	c := NewController(WithEnabled(false), WithMaxSamples(8))
	for range 20 {
		if c.BlendWeight() != 1 {
			t.Fatalf("BlendWeight() = %v while disabled, want 1", c.BlendWeight())
		}
		c.Advance()
	}
	if c.Count() != 0 {
		t.Errorf("Count() = %d while disabled, want 0", c.Count())
	}
}

func TestSettersReset(t *testing.T) {
	c := NewController(WithMaxSamples(8))
	c.Advance()
	c.Advance()

	c.SetMaxSamples(8)
	if c.Count() != 2 {
		t.Errorf("unchanged SetMaxSamples reset the count to %d", c.Count())
	}
	c.SetMaxSamples(16)
	if c.Count() != 0 || c.MaxSamples() != 16 {
		t.Errorf("SetMaxSamples(16): count %d max %d", c.Count(), c.MaxSamples())
	}

	c.Advance()
	c.SetEnabled(false)
	if c.Count() != 0 || c.Enabled() {
		t.Errorf("SetEnabled(false): count %d enabled %v", c.Count(), c.Enabled())
	}
	c.SetEnabled(true)
	c.Advance()
	if c.Count() != 1 {
		t.Errorf("re-enabled Advance(): count %d, want 1", c.Count())
	}
}

func TestStateString(t *testing.T) {
	if StateAccumulating.String() != "accumulating" || StateSaturated.String() != "saturated" || State(9).String() != "unknown" {
		t.Error("unexpected State strings")
	}
}
