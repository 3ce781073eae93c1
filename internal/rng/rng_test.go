package rng

import "testing"

func TestSeeded_Deterministic(t *testing.T) {
	a := Seeded(42)
	b := Seeded(42)
	for i := 0; i < 10; i++ {
		if x, y := a.Float64(), b.Float64(); x != y {
			t.Fatalf("draw %d differs: %v vs %v", i, x, y)
		}
	}
}

func TestUniform_Bounds(t *testing.T) {
	src := Seeded(7)
	for i := 0; i < 1000; i++ {
		v := Uniform(src, 300, 350)
		if v < 300 || v >= 350 {
			t.Fatalf("Uniform = %v, want [300, 350)", v)
		}
	}
}

func TestUniform_Fixed(t *testing.T) {
	if got := Uniform(Fixed(0.5), 10, 20); got != 15 {
		t.Errorf("Uniform(0.5) = %v, want 15", got)
	}
	if got := Uniform(Fixed(0), -0.05, 0.05); got != -0.05 {
		t.Errorf("Uniform(0) = %v, want -0.05", got)
	}
}

func TestFromSeed_ZeroIsSystem(t *testing.T) {
	if _, ok := FromSeed(0).(systemSource); !ok {
		t.Error("FromSeed(0) should return the system source")
	}
	if _, ok := FromSeed(3).(*seededSource); !ok {
		t.Error("FromSeed(3) should return a seeded source")
	}
}
