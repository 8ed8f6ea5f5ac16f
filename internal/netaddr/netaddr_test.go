package netaddr

import (
	"errors"
	"testing"

	"FlowForge/internal/ferrors"
	"FlowForge/internal/rng"
)

func TestParseCIDR(t *testing.T) {
	cases := []struct {
		subnet    string
		wantBase  uint32
		wantCount uint32
		wantErr   bool
	}{
		{"192.168.1.0/24", 0xC0A80100, 256, false},
		{"10.0.0.0/8", 0x0A000000, 1 << 24, false},
		{"192.168.1.5/32", 0xC0A80105, 1, false},
		{"192.168.1.5", 0xC0A80105, 1, false},
		{"0.0.0.0/0", 0, 0xFFFFFFFF, false},
		{"bad-addr/24", 0, 0, true},
		{"192.168.1.0/33", 0, 0, true},
		{"192.168.1.0/-1", 0, 0, true},
	}
	for _, c := range cases {
		base, count, err := ParseCIDR(c.subnet)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseCIDR(%q): expected error, got none", c.subnet)
			} else if !errors.Is(err, ferrors.ErrInvalidCidr) {
				t.Errorf("ParseCIDR(%q): expected ErrInvalidCidr, got %v", c.subnet, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCIDR(%q): unexpected error: %v", c.subnet, err)
			continue
		}
		if base != c.wantBase || count != c.wantCount {
			t.Errorf("ParseCIDR(%q) = (%#x, %d), want (%#x, %d)", c.subnet, base, count, c.wantBase, c.wantCount)
		}
	}
}

func TestRandomIPv4InSubnetStaysInRange(t *testing.T) {
	r := rng.New(1)
	base, count, err := ParseCIDR("192.168.1.0/24")
	if err != nil {
		t.Fatalf("ParseCIDR: %v", err)
	}
	for i := 0; i < 1000; i++ {
		ip := RandomIPv4InSubnet(r, base, count)
		if ip <= base || ip >= base+count-1 {
			t.Fatalf("RandomIPv4InSubnet returned %#x outside (%#x, %#x)", ip, base, base+count-1)
		}
	}
}

func TestRandomIPv4InSubnetTinyBlock(t *testing.T) {
	r := rng.New(1)
	got := RandomIPv4InSubnet(r, 0xC0A80100, 2)
	if got != 0xC0A80101 {
		t.Errorf("RandomIPv4InSubnet with hostCount=2 = %#x, want base+1", got)
	}
}

func TestWeightedChoiceUniform(t *testing.T) {
	r := rng.New(42)
	items := []string{"a", "b", "c"}
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		v, err := WeightedChoice(r, items, nil)
		if err != nil {
			t.Fatalf("WeightedChoice: %v", err)
		}
		seen[v] = true
	}
	if len(seen) != 3 {
		t.Errorf("expected all 3 items drawn over 100 tries, got %d distinct", len(seen))
	}
}

func TestWeightedChoiceSkewed(t *testing.T) {
	r := rng.New(7)
	items := []string{"rare", "common"}
	weights := []float64{0.01, 0.99}
	counts := map[string]int{}
	for i := 0; i < 2000; i++ {
		v, err := WeightedChoice(r, items, weights)
		if err != nil {
			t.Fatalf("WeightedChoice: %v", err)
		}
		counts[v]++
	}
	if counts["common"] < counts["rare"]*10 {
		t.Errorf("expected common to dominate rare by at least 10x, got common=%d rare=%d", counts["common"], counts["rare"])
	}
}

func TestWeightedChoiceErrors(t *testing.T) {
	r := rng.New(1)
	if _, err := WeightedChoice[string](r, nil, nil); !errors.Is(err, ferrors.ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput for empty items, got %v", err)
	}
	if _, err := WeightedChoice(r, []string{"a", "b"}, []float64{1.0}); !errors.Is(err, ferrors.ErrWeightSizeMismatch) {
		t.Errorf("expected ErrWeightSizeMismatch, got %v", err)
	}
}

func TestUint32ToIPStringRoundTrip(t *testing.T) {
	ip := uint32(0xC0A80101)
	s := Uint32ToIPString(ip)
	if s != "192.168.1.1" {
		t.Errorf("Uint32ToIPString(%#x) = %q, want 192.168.1.1", ip, s)
	}
	back, err := IPStringToUint32(s)
	if err != nil {
		t.Fatalf("IPStringToUint32: %v", err)
	}
	if back != ip {
		t.Errorf("round trip = %#x, want %#x", back, ip)
	}
}

func TestIPStringToUint32Invalid(t *testing.T) {
	if _, err := IPStringToUint32("not.an.ip"); err == nil {
		t.Error("expected error for non-numeric octet")
	}
	if _, err := IPStringToUint32("1.2.3"); err == nil {
		t.Error("expected error for wrong octet count")
	}
	if _, err := IPStringToUint32("1.2.3.256"); err == nil {
		t.Error("expected error for out-of-range octet")
	}
}

func TestCalculateFlowsPerSecond(t *testing.T) {
	got := CalculateFlowsPerSecond(10.0, 800)
	want := 10.0 * 1e9 / 8.0 / 800.0
	if got != want {
		t.Errorf("CalculateFlowsPerSecond(10, 800) = %f, want %f", got, want)
	}
}
