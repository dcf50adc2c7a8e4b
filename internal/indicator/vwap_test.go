package indicator

import (
	"math"
	"testing"
)

func TestVWAPCumulative(t *testing.T) {
	bars := barsFrom([]float64{10, 11, 12, 11, 13}, []float64{100, 100, 100, 100, 100})
	vwap := VWAP(bars)
	if len(vwap) != len(bars) {
		t.Fatalf("expected %d values, got %d", len(bars), len(vwap))
	}
	want := []float64{10, 10.5, 11, 11, 11.4}
	for i, w := range want {
		if !closeEnough(vwap[i], w) {
			t.Fatalf("expected vwap[%d]=%f, got %f", i, w, vwap[i])
		}
	}
}

func TestVWAPWeightsByVolume(t *testing.T) {
	bars := barsFrom([]float64{10, 20}, []float64{300, 100})
	last, ok := VWAP(bars).Last()
	if !ok {
		t.Fatalf("expected defined vwap")
	}
	if !closeEnough(last, 12.5) {
		t.Fatalf("expected 12.5, got %f", last)
	}
}

func TestVWAPStaysWithinCloseRange(t *testing.T) {
	closes := []float64{101.2, 99.8, 103.4, 98.1, 100.7, 102.2}
	bars := barsFrom(closes, []float64{1200, 50, 900, 3000, 10, 640})
	last, _ := VWAP(bars).Last()
	lo, hi := closes[0], closes[0]
	for _, c := range closes {
		lo = math.Min(lo, c)
		hi = math.Max(hi, c)
	}
	if last < lo || last > hi {
		t.Fatalf("expected vwap in [%f, %f], got %f", lo, hi, last)
	}
}

func TestVWAPScaleInvariant(t *testing.T) {
	closes := []float64{50, 52, 51, 55}
	volumes := []float64{10, 40, 25, 5}
	scaled := make([]float64, len(volumes))
	for i, v := range volumes {
		scaled[i] = v * 7
	}
	a := VWAP(barsFrom(closes, volumes))
	b := VWAP(barsFrom(closes, scaled))
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			t.Fatalf("expected scaled vwap[%d]=%f, got %f", i, a[i], b[i])
		}
	}
}

func TestVWAPZeroVolumeUndefined(t *testing.T) {
	bars := barsFrom([]float64{10, 11}, []float64{0, 100})
	vwap := VWAP(bars)
	if _, ok := vwap.At(0); ok {
		t.Fatalf("expected undefined vwap with zero volume, got %f", vwap[0])
	}
	if !closeEnough(vwap[1], 11) {
		t.Fatalf("expected 11 once volume arrives, got %f", vwap[1])
	}
}

func TestVWAPEmpty(t *testing.T) {
	vwap := VWAP(nil)
	if len(vwap) != 0 {
		t.Fatalf("expected empty series, got %d", len(vwap))
	}
	if _, ok := vwap.Last(); ok {
		t.Fatalf("expected undefined last on empty series")
	}
}

func TestVWAPLeavesInputUntouched(t *testing.T) {
	bars := barsFrom([]float64{10, 12}, []float64{5, 5})
	before := bars[1]
	_ = VWAP(bars)
	if bars[1] != before {
		t.Fatalf("expected input bar unchanged, got %+v", bars[1])
	}
}
