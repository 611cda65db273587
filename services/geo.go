package services

import (
	"fmt"
	"log"
	"net"

	"github.com/oschwald/geoip2-golang"

	"github.com/insightly/insightly-go/config"
)

// GeoLocation is the resolved location of a caller IP. Fields stay
// empty when resolution is unavailable — geo is best-effort metadata,
// never a reason to reject an event.
type GeoLocation struct {
	CountryCode string
	Region      string
	City        string
}

// GeoResolver wraps the MaxMind city database.
type GeoResolver struct {
	reader *geoip2.Reader
}

// NewGeoResolver opens the GeoIP database at path. A missing database
// yields a disabled resolver, not an error.
func NewGeoResolver(path string) *GeoResolver {
	reader, err := geoip2.Open(path)
	if err != nil {
		log.Printf("WARNING: GeoIP database unavailable, location resolution disabled: %v", err)
		return &GeoResolver{}
	}
	return &GeoResolver{reader: reader}
}

// Close releases the database handle.
func (g *GeoResolver) Close() error {
	if g.reader == nil {
		return nil
	}
	return g.reader.Close()
}

// Resolve maps an IP to a location. Loopback callers are remapped to
// the configured fallback address so local testing still resolves.
func (g *GeoResolver) Resolve(ipStr string) GeoLocation {
	if g.reader == nil {
		return GeoLocation{}
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return GeoLocation{}
	}
	if ip.IsLoopback() {
		ip = net.ParseIP(config.GeoFallbackIP)
		if ip == nil {
			return GeoLocation{}
		}
	}

	record, err := g.reader.City(ip)
	if err != nil {
		log.Printf("WARNING: geo lookup failed for %s: %v", ipStr, err)
		return GeoLocation{}
	}

	loc := GeoLocation{CountryCode: record.Country.IsoCode}
	if len(record.Subdivisions) > 0 {
		loc.Region = record.Subdivisions[0].Names["en"]
	}
	loc.City = record.City.Names["en"]
	return loc
}

// String implements fmt.Stringer for log context.
func (l GeoLocation) String() string {
	return fmt.Sprintf("%s/%s/%s", l.CountryCode, l.Region, l.City)
}
