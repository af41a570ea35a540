package core

import (
	"errors"
	"testing"
)

func TestProperties_TypedGetters(t *testing.T) {
	props := NewProperties().
		Set("nSamples", 16).
		Set("exponent", "20.5").
		Set("albedo", "0.5").
		Set("position", "1, 2, 3").
		Set("twoSided", "true").
		Set("measure", "area")

	if n, err := props.Int("nSamples", 1); err != nil || n != 16 {
		t.Errorf("Expected nSamples=16, got %d (%v)", n, err)
	}
	if e, err := props.Float("exponent", 0); err != nil || e != 20.5 {
		t.Errorf("Expected exponent=20.5, got %f (%v)", e, err)
	}
	if c, err := props.Color("albedo", Vec3{}); err != nil || c != Splat(0.5) {
		t.Errorf("Expected grey albedo, got %v (%v)", c, err)
	}
	if p, err := props.Point("position", Vec3{}); err != nil || p != NewVec3(1, 2, 3) {
		t.Errorf("Expected position (1,2,3), got %v (%v)", p, err)
	}
	if b, err := props.Bool("twoSided", false); err != nil || !b {
		t.Errorf("Expected twoSided=true, got %v (%v)", b, err)
	}
	if s, err := props.String("measure", ""); err != nil || s != "area" {
		t.Errorf("Expected measure=area, got %q (%v)", s, err)
	}
	if d, err := props.Float("missing", 2.5); err != nil || d != 2.5 {
		t.Errorf("Expected default 2.5, got %f (%v)", d, err)
	}
}

func TestProperties_Errors(t *testing.T) {
	props := NewProperties().Set("nSamples", "many").Set("position", "1,2")

	var cfgErr *ConfigurationError
	if _, err := props.Int("nSamples", 1); !errors.As(err, &cfgErr) {
		t.Errorf("Expected ConfigurationError for malformed int, got %v", err)
	}
	if _, err := props.Point("position", Vec3{}); !errors.As(err, &cfgErr) {
		t.Errorf("Expected ConfigurationError for short vector, got %v", err)
	}
	if err := props.ParseAssignment("novalue"); !errors.As(err, &cfgErr) {
		t.Errorf("Expected ConfigurationError for missing '=', got %v", err)
	}
}

func TestProperties_ParseAssignment(t *testing.T) {
	props := NewProperties()
	if err := props.ParseAssignment("warp-type = cosine-hemisphere"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s, _ := props.String("warp-type", ""); s != "cosine-hemisphere" {
		t.Errorf("Expected cosine-hemisphere, got %q", s)
	}
}

func TestParseMeasure(t *testing.T) {
	for _, name := range []string{"area", "solid-angle", "hemisphere", "bsdf", "discrete"} {
		m, err := ParseMeasure(name)
		if err != nil {
			t.Errorf("Unexpected error for %q: %v", name, err)
		}
		if m.String() != name {
			t.Errorf("Expected %q, got %q", name, m.String())
		}
	}
	if _, err := ParseMeasure("volume"); err == nil {
		t.Error("Expected error for unknown measure")
	}
}

func TestRandomSampler_CloneAndSeed(t *testing.T) {
	s := NewRandomSampler(7)
	first := s.Get1D()

	clone := s.Clone()
	if clone.Get1D() != first {
		t.Error("Clone should restart from the same seed")
	}

	s.Seed(PixelSeed(7, 3, 4))
	a := s.Get2D()
	s.Seed(PixelSeed(7, 3, 4))
	if b := s.Get2D(); a != b {
		t.Error("Reseeding with the same pixel seed should reproduce the stream")
	}
	if PixelSeed(7, 3, 4) == PixelSeed(7, 4, 3) {
		t.Error("Pixel seeds should differ for transposed coordinates")
	}
}

func TestProperties_Overlay(t *testing.T) {
	base := NewProperties().Set("fov", 30).Set("width", 64)
	merged := base.Overlay(NewProperties().Set("fov", "45").Set("seed", 7))

	if f, err := merged.Float("fov", 0); err != nil || f != 45 {
		t.Errorf("Expected overridden fov=45, got %v (%v)", f, err)
	}
	if w, err := merged.Int("width", 0); err != nil || w != 64 {
		t.Errorf("Expected width=64 from the base, got %d (%v)", w, err)
	}
	if !merged.Has("seed") {
		t.Error("Expected seed from the overlay")
	}
	if f, _ := base.Float("fov", 0); f != 30 || base.Has("seed") {
		t.Error("Overlay must not modify the base bag")
	}
	if copied := base.Overlay(nil); len(copied.Names()) != 2 {
		t.Errorf("Expected a copy of the base, got %v", copied.Names())
	}
}
