package murmur

import "testing"

func TestFieldDepositAndSample(t *testing.T) {
	f := newInteractionField(32, 2.0)
	f.Deposit(0.5, 0.5, 1.0)

	if got := f.Sample(0.5, 0.5); got <= 0 {
		t.Errorf("Sample at deposit = %v, want positive", got)
	}
	// Far corner stays untouched.
	if got := f.Sample(0.02, 0.02); got != 0 {
		t.Errorf("Sample far from deposit = %v, want 0", got)
	}
}

func TestFieldDepositsAccumulate(t *testing.T) {
	f := newInteractionField(32, 2.0)
	f.Deposit(0.5, 0.5, 1.0)
	one := f.Sample(0.5, 0.5)
	f.Deposit(0.5, 0.5, 1.0)
	if got := f.Sample(0.5, 0.5); got <= one {
		t.Errorf("second deposit did not accumulate: %v -> %v", one, got)
	}
}

func TestFieldDecaysToZero(t *testing.T) {
	f := newInteractionField(16, 3.0)
	f.Deposit(0.5, 0.5, 1.0)

	before := f.Sample(0.5, 0.5)
	f.Step(0.1)
	after := f.Sample(0.5, 0.5)
	if after >= before {
		t.Errorf("intensity %v -> %v, want decay", before, after)
	}

	for i := 0; i < 600; i++ {
		f.Step(1.0 / 60)
	}
	for y := 0; y < f.Size(); y++ {
		for x := 0; x < f.Size(); x++ {
			if f.at(x, y) != 0 {
				t.Fatalf("cell (%d,%d) = %v after long decay, want exact 0", x, y, f.at(x, y))
			}
		}
	}
}

func TestFieldOutOfRangeIsSafe(t *testing.T) {
	f := newInteractionField(16, 2.0)
	f.Deposit(-0.1, 0.5, 1.0)
	f.Deposit(0.5, 1.3, 1.0)
	for i := range f.intensity {
		if f.intensity[i] != 0 {
			t.Fatal("out-of-range deposit wrote to the grid")
		}
	}
	if got := f.Sample(-0.5, 0.5); got != 0 {
		t.Errorf("out-of-range sample = %v, want 0", got)
	}
	if got := f.Sample(0.5, 2.0); got != 0 {
		t.Errorf("out-of-range sample = %v, want 0", got)
	}
}

func TestFieldBilinearIsContinuous(t *testing.T) {
	f := newInteractionField(16, 2.0)
	f.Deposit(0.5, 0.5, 1.0)

	// Neighboring sample positions should differ by a bounded amount, not
	// jump cell to cell.
	prev := f.Sample(0.3, 0.5)
	for u := 0.3; u <= 0.7; u += 0.01 {
		cur := f.Sample(u, 0.5)
		if d := cur - prev; d > 0.5 || d < -0.5 {
			t.Fatalf("discontinuity at u=%v: %v -> %v", u, prev, cur)
		}
		prev = cur
	}
}

func TestFieldZeroSizeGetsFloor(t *testing.T) {
	f := newInteractionField(0, 2.0)
	if f.Size() <= 0 {
		t.Errorf("Size = %d, want positive floor", f.Size())
	}
	f.Deposit(0.5, 0.5, 1)
	f.Step(testDT)
}
