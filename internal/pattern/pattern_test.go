package pattern

import (
	"errors"
	"testing"

	"FlowForge/internal/core/model"
	"FlowForge/internal/ferrors"
	"FlowForge/internal/rng"
)

var subnets = []string{"192.168.1.0/24"}
var dstSubnets = []string{"10.0.0.0/24"}

func TestNewKnownTypes(t *testing.T) {
	cases := map[string]string{
		"random":            "random",
		"web_traffic":       "web_traffic",
		"http_traffic":      "web_traffic",
		"https_traffic":     "web_traffic",
		"dns_traffic":       "dns_traffic",
		"ssh_traffic":       "ssh_traffic",
		"database_traffic":  "database_traffic",
		"smtp_traffic":      "smtp_traffic",
		"email_traffic":     "smtp_traffic",
		"ftp_traffic":       "ftp_traffic",
		"RANDOM":            "random",
	}
	for in, wantType := range cases {
		g, err := New(in)
		if err != nil {
			t.Errorf("New(%q): unexpected error %v", in, err)
			continue
		}
		if g.Type() != wantType {
			t.Errorf("New(%q).Type() = %q, want %q", in, g.Type(), wantType)
		}
	}
}

func TestNewUnknownType(t *testing.T) {
	_, err := New("carrier_pigeon")
	if !errors.Is(err, ferrors.ErrUnknownPattern) {
		t.Errorf("expected ErrUnknownPattern, got %v", err)
	}
}

func TestWebPatternPort(t *testing.T) {
	g, _ := New("web_traffic")
	r := rng.New(1)
	for i := 0; i < 200; i++ {
		rec, err := g.Generate(r, 1000, subnets, dstSubnets, nil, 64, 1500)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if rec.Protocol != model.ProtocolTCP {
			t.Fatalf("web_traffic produced non-TCP protocol %d", rec.Protocol)
		}
		if rec.DestinationPort != 80 && rec.DestinationPort != 443 {
			t.Fatalf("web_traffic dest port = %d, want 80 or 443", rec.DestinationPort)
		}
	}
}

func TestDNSPatternFixedFields(t *testing.T) {
	g, _ := New("dns_traffic")
	r := rng.New(1)
	for i := 0; i < 50; i++ {
		rec, err := g.Generate(r, 1000, subnets, dstSubnets, nil, 64, 1500)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if rec.Protocol != model.ProtocolUDP {
			t.Errorf("dns_traffic protocol = %d, want UDP", rec.Protocol)
		}
		if rec.DestinationPort != 53 {
			t.Errorf("dns_traffic dest port = %d, want 53", rec.DestinationPort)
		}
		if rec.PacketLength < 64 || rec.PacketLength > 512 {
			t.Errorf("dns_traffic packet length %d out of [64,512]", rec.PacketLength)
		}
	}
}

func TestDatabasePatternPorts(t *testing.T) {
	g, _ := New("database_traffic")
	r := rng.New(5)
	allowed := map[uint16]bool{3306: true, 5432: true, 27017: true, 6379: true}
	for i := 0; i < 100; i++ {
		rec, err := g.Generate(r, 1000, subnets, dstSubnets, nil, 64, 1500)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if !allowed[rec.DestinationPort] {
			t.Errorf("database_traffic dest port = %d, not a known database port", rec.DestinationPort)
		}
	}
}

func TestFTPPatternPortAndLength(t *testing.T) {
	g, _ := New("ftp_traffic")
	r := rng.New(3)
	for i := 0; i < 200; i++ {
		rec, err := g.Generate(r, 1000, subnets, dstSubnets, nil, 64, 1500)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		switch rec.DestinationPort {
		case 20:
			if rec.PacketLength < 1000 {
				t.Errorf("ftp data port packet length %d below 1000", rec.PacketLength)
			}
		case 21:
			if rec.PacketLength < 64 || rec.PacketLength > 500 {
				t.Errorf("ftp control port packet length %d out of [64,500]", rec.PacketLength)
			}
		default:
			t.Errorf("ftp_traffic dest port = %d, want 20 or 21", rec.DestinationPort)
		}
	}
}

func TestAddressesRespectSubnets(t *testing.T) {
	g, _ := New("random")
	r := rng.New(9)
	for i := 0; i < 50; i++ {
		rec, err := g.Generate(r, 1000, subnets, dstSubnets, nil, 64, 1500)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if rec.SourceIP < 0xC0A80100 || rec.SourceIP > 0xC0A801FF {
			t.Errorf("source IP %#x outside 192.168.1.0/24", rec.SourceIP)
		}
		if rec.DestinationIP < 0x0A000000 || rec.DestinationIP > 0x0A0000FF {
			t.Errorf("dest IP %#x outside 10.0.0.0/24", rec.DestinationIP)
		}
	}
}
