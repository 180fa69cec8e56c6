package pulsecheck

import (
	"sync"
	"testing"
)

func TestTally_Percentage(t *testing.T) {
	tests := []struct {
		name    string
		success int
		total   int
		want    int
	}{
		{"no probes", 0, 0, 0},
		{"all available", 4, 4, 100},
		{"none available", 0, 4, 0},
		{"half", 1, 2, 50},
		{"one third floors", 1, 3, 33},
		{"two thirds floors", 2, 3, 66},
		{"near full floors", 99, 100, 99},
		{"single success", 1, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tally := Tally{Success: tt.success, Total: tt.total}
			if got := tally.Percentage(); got != tt.want {
				t.Errorf("Percentage() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTally_Record(t *testing.T) {
	var tally Tally
	tally.Record(true)
	tally.Record(false)
	tally.Record(true)

	if tally.Success != 2 || tally.Total != 3 {
		t.Errorf("Tally = %+v, want {Success:2 Total:3}", tally)
	}
	if tally.Percentage() != 66 {
		t.Errorf("Percentage() = %d, want 66", tally.Percentage())
	}
}

func TestCounter_ConcurrentRecord(t *testing.T) {
	var c Counter
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(ok bool) {
			defer wg.Done()
			c.Record(ok)
		}(i%2 == 0)
	}
	wg.Wait()

	snap := c.Snapshot()
	if snap.Total != 50 {
		t.Errorf("Total = %d, want 50", snap.Total)
	}
	if snap.Success != 25 {
		t.Errorf("Success = %d, want 25", snap.Success)
	}
	if c.Percentage() != 50 {
		t.Errorf("Percentage() = %d, want 50", c.Percentage())
	}
}

func TestCounter_SuccessNeverExceedsTotal(t *testing.T) {
	var c Counter
	outcomes := []bool{true, true, false, true, false, false, true}
	for _, ok := range outcomes {
		c.Record(ok)
		snap := c.Snapshot()
		if snap.Success > snap.Total {
			t.Fatalf("Success %d exceeds Total %d", snap.Success, snap.Total)
		}
	}
}
