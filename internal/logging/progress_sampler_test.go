package logging

import "testing"

func TestProgressSamplerEveryN(t *testing.T) {
	s := NewProgressSampler(3, 7)
	var fired []int
	for i := 1; i <= 7; i++ {
		if s.Tick() {
			fired = append(fired, i)
		}
	}
	want := []int{3, 6, 7}
	if len(fired) != len(want) {
		t.Fatalf("fired at %v, want %v", fired, want)
	}
	for i := range want {
		if fired[i] != want[i] {
			t.Fatalf("fired at %v, want %v", fired, want)
		}
	}
	if s.Seen() != 7 {
		t.Fatalf("Seen = %d, want 7", s.Seen())
	}
}

func TestProgressSamplerDefaults(t *testing.T) {
	s := NewProgressSampler(0, 0)
	if s.every != 10 {
		t.Fatalf("every = %d, want 10", s.every)
	}
	for i := 1; i < 10; i++ {
		if s.Tick() {
			t.Fatalf("unexpected report at %d", i)
		}
	}
	if !s.Tick() {
		t.Fatal("expected report at 10")
	}
}

func TestProgressSamplerNilAndReset(t *testing.T) {
	var nilSampler *ProgressSampler
	if !nilSampler.Tick() {
		t.Fatal("nil sampler should always report")
	}
	nilSampler.Reset(5)

	s := NewProgressSampler(2, 2)
	s.Tick()
	s.Reset(4)
	if s.Seen() != 0 {
		t.Fatalf("Seen after reset = %d", s.Seen())
	}
	if s.Tick() {
		t.Fatal("first tick after reset should not report")
	}
}
