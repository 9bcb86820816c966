package enrich

import (
	"net"
	"time"

	"portfolio-backend/config"

	"github.com/dgraph-io/ristretto"
	"github.com/oschwald/geoip2-golang"
	"github.com/rs/zerolog/log"
)

// Location is the geography resolved from a client IP. Nil fields mean the
// database had no answer for that field.
type Location struct {
	Country *string
	City    *string
	Region  *string
}

// Geolocator resolves IP addresses against a local MaxMind database, with a
// ristretto cache in front of the mmdb reads. When no database is configured
// every lookup resolves to an empty Location.
type Geolocator struct {
	reader *geoip2.Reader
	cache  *ristretto.Cache
	ttl    time.Duration
}

// NewGeolocator opens the configured database. A missing or unreadable
// database is not fatal: lookups simply return empty locations.
func NewGeolocator(cfg config.GeoIPConfig) *Geolocator {
	g := &Geolocator{ttl: time.Duration(cfg.CacheTTLSec) * time.Second}

	if cfg.DatabasePath == "" {
		log.Info().Msg("No GeoIP database configured - visits will not be geolocated")
		return g
	}

	reader, err := geoip2.Open(cfg.DatabasePath)
	if err != nil {
		log.Error().Err(err).Str("path", cfg.DatabasePath).
			Msg("Failed to open GeoIP database - visits will not be geolocated")
		return g
	}
	g.reader = reader

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 100_000,
		MaxCost:     int64(cfg.CacheSizeMB) * 1024 * 1024,
		BufferItems: 64,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize GeoIP cache - lookups will hit the database directly")
	} else {
		g.cache = cache
	}

	log.Info().Str("path", cfg.DatabasePath).Msg("GeoIP database loaded")
	return g
}

// Lookup resolves an IP to country/city/region. Loopback addresses map to the
// development sentinel; lookup misses yield all-nil fields.
func (g *Geolocator) Lookup(ip string) Location {
	if ip == "127.0.0.1" || ip == "::1" || ip == "::ffff:127.0.0.1" {
		country, city, region := "Local", "Localhost", "Development"
		return Location{Country: &country, City: &city, Region: &region}
	}

	if g.reader == nil {
		return Location{}
	}

	if g.cache != nil {
		if cached, found := g.cache.Get(ip); found {
			if loc, ok := cached.(Location); ok {
				return loc
			}
		}
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return Location{}
	}

	record, err := g.reader.City(parsed)
	if err != nil {
		log.Debug().Err(err).Str("ip", ip).Msg("GeoIP lookup failed")
		return Location{}
	}

	var loc Location
	if code := record.Country.IsoCode; code != "" {
		loc.Country = &code
	}
	if name := record.City.Names["en"]; name != "" {
		loc.City = &name
	}
	if len(record.Subdivisions) > 0 {
		if code := record.Subdivisions[0].IsoCode; code != "" {
			loc.Region = &code
		}
	}

	if g.cache != nil {
		g.cache.SetWithTTL(ip, loc, 1, g.ttl)
	}
	return loc
}

// Close releases the database reader and cache
func (g *Geolocator) Close() {
	if g.reader != nil {
		if err := g.reader.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close GeoIP database")
		}
	}
	if g.cache != nil {
		g.cache.Close()
	}
}
