package enrich

import (
	"testing"

	"portfolio-backend/config"
)

func TestLookupLoopbackSentinel(t *testing.T) {
	g := NewGeolocator(config.GeoIPConfig{})
	defer g.Close()

	for _, ip := range []string{"127.0.0.1", "::1", "::ffff:127.0.0.1"} {
		loc := g.Lookup(ip)
		if loc.Country == nil || *loc.Country != "Local" {
			t.Errorf("Lookup(%q) country = %v, want Local", ip, loc.Country)
		}
		if loc.City == nil || *loc.City != "Localhost" {
			t.Errorf("Lookup(%q) city = %v, want Localhost", ip, loc.City)
		}
		if loc.Region == nil || *loc.Region != "Development" {
			t.Errorf("Lookup(%q) region = %v, want Development", ip, loc.Region)
		}
	}
}

func TestLookupWithoutDatabase(t *testing.T) {
	g := NewGeolocator(config.GeoIPConfig{})
	defer g.Close()

	loc := g.Lookup("203.0.113.9")
	if loc.Country != nil || loc.City != nil || loc.Region != nil {
		t.Errorf("Lookup without database = %+v, want empty", loc)
	}
}

func TestNewGeolocatorMissingDatabase(t *testing.T) {
	// Unreadable path degrades to no-op lookups rather than failing
	g := NewGeolocator(config.GeoIPConfig{DatabasePath: "/nonexistent/GeoLite2-City.mmdb"})
	defer g.Close()

	if loc := g.Lookup("203.0.113.9"); loc.Country != nil {
		t.Errorf("Lookup = %+v, want empty", loc)
	}
}
