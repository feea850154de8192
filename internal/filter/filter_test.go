package filter

import (
	"math"
	"testing"
)

func fp(v float64) *float64 { return &v }

func pushAll(s Smoother, in []*float64) []*float64 {
	out := make([]*float64, len(in))
	for i, v := range in {
		out[i] = s.Push(v)
	}
	return out
}

func TestMovingAverageWindow(t *testing.T) {
	m := NewMovingAverage(3)

	cases := []struct {
		in   *float64
		want float64
	}{
		{fp(10), 10}, // [10]
		{fp(20), 15}, // [10 20]
		{fp(30), 20}, // [10 20 30]
		{fp(40), 30}, // oldest dropped: [20 30 40]
	}
	for i, tc := range cases {
		got := m.Push(tc.in)
		if got == nil {
			t.Fatalf("push %d: got nil", i)
		}
		if math.Abs(*got-tc.want) > 1e-12 {
			t.Errorf("push %d: got %v, want %v", i, *got, tc.want)
		}
	}
}

func TestMovingAverageHoldsOnNil(t *testing.T) {
	m := NewMovingAverage(3)
	if got := m.Push(nil); got != nil {
		t.Errorf("nil before any data: got %v, want nil", *got)
	}

	m.Push(fp(10))
	m.Push(fp(20))
	got := m.Push(nil)
	if got == nil || *got != 15 {
		t.Errorf("nil input should hold last average 15, got %v", got)
	}
	// The window itself is untouched by the nil.
	got = m.Push(fp(30))
	if got == nil || *got != 20 {
		t.Errorf("window corrupted by nil input: got %v, want 20", got)
	}
}

func TestMovingAverageReset(t *testing.T) {
	m := NewMovingAverage(3)
	m.Push(fp(10))
	m.Reset()
	if got := m.Push(nil); got != nil {
		t.Errorf("after reset: got %v, want nil", *got)
	}
}

func TestEMASeedAndBlend(t *testing.T) {
	e := NewEMA(0.5)

	got := e.Push(fp(100))
	if got == nil || *got != 100 {
		t.Fatalf("first value should seed the state, got %v", got)
	}

	got = e.Push(fp(200))
	if got == nil || *got != 150 {
		t.Errorf("blend: got %v, want 150", got)
	}
	got = e.Push(fp(200))
	if got == nil || *got != 175 {
		t.Errorf("blend: got %v, want 175", got)
	}
}

func TestEMAHoldsOnNil(t *testing.T) {
	e := NewEMA(0.5)
	if got := e.Push(nil); got != nil {
		t.Errorf("nil before seed: got %v, want nil", *got)
	}

	e.Push(fp(100))
	got := e.Push(nil)
	if got == nil || *got != 100 {
		t.Errorf("nil input should hold state 100, got %v", got)
	}
	// State resumes blending from where it held.
	got = e.Push(fp(200))
	if got == nil || *got != 150 {
		t.Errorf("resume after nil: got %v, want 150", got)
	}
}

func TestEMAReset(t *testing.T) {
	e := NewEMA(0.5)
	e.Push(fp(100))
	e.Reset()
	if got := e.Push(nil); got != nil {
		t.Errorf("after reset: got %v, want nil", *got)
	}
	if got := e.Push(fp(40)); got == nil || *got != 40 {
		t.Errorf("reseed after reset: got %v, want 40", got)
	}
}

func TestNewKindSelection(t *testing.T) {
	if _, ok := New(KindWindow, 5, 0).(*MovingAverage); !ok {
		t.Error("KindWindow should build a MovingAverage")
	}
	if _, ok := New(KindEMA, 0, 0.3).(*EMA); !ok {
		t.Error("KindEMA should build an EMA")
	}
	// Unknown kinds fall back to EMA.
	if _, ok := New(Kind("median"), 0, 0.3).(*EMA); !ok {
		t.Error("unknown kind should fall back to EMA")
	}
}

func TestConstructorFallbacks(t *testing.T) {
	m := NewMovingAverage(0)
	if m.size != DefaultWindowSize {
		t.Errorf("window size fallback: got %d, want %d", m.size, DefaultWindowSize)
	}
	e := NewEMA(1.5)
	if e.alpha != DefaultEMAAlpha {
		t.Errorf("alpha fallback: got %v, want %v", e.alpha, DefaultEMAAlpha)
	}
	// Smoothed output never precedes input.
	out := pushAll(NewEMA(0.3), []*float64{nil, nil})
	for i, v := range out {
		if v != nil {
			t.Errorf("output %d: got %v, want nil", i, *v)
		}
	}
}
