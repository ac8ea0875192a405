package geo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"

	"github.com/oschwald/geoip2-golang"

	"github.com/August26/httpbench-go/internal/model"
)

// Resolver maps an IP address to location info.
type Resolver interface {
	Lookup(ip string) (model.GeoInfo, error)
}

// HostResolver resolves a hostname to its addresses.
type HostResolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// MaxMind looks addresses up in a GeoLite2/GeoIP2 City database.
type MaxMind struct {
	db *geoip2.Reader
}

// OpenMaxMind opens the .mmdb file at path.
func OpenMaxMind(path string) (*MaxMind, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip db: %w", err)
	}
	return &MaxMind{db: db}, nil
}

func (m *MaxMind) Lookup(ip string) (model.GeoInfo, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return model.GeoInfo{}, fmt.Errorf("parse ip %q", ip)
	}
	rec, err := m.db.City(parsed)
	if err != nil {
		return model.GeoInfo{}, fmt.Errorf("geoip lookup: %w", err)
	}

	country := rec.Country.Names["en"]
	if country == "" {
		country = rec.Country.IsoCode
	}
	return model.GeoInfo{
		Country: country,
		City:    rec.City.Names["en"],
		IP:      ip,
	}, nil
}

func (m *MaxMind) Close() error {
	return m.db.Close()
}

// Annotator attaches location info to host reports.
type Annotator struct {
	resolver Resolver
	dns      HostResolver
	log      *slog.Logger
}

// NewAnnotator uses net.DefaultResolver when dns is nil.
func NewAnnotator(resolver Resolver, dns HostResolver, log *slog.Logger) *Annotator {
	if dns == nil {
		dns = net.DefaultResolver
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Annotator{resolver: resolver, dns: dns, log: log}
}

// Annotate returns a copy of reports with Geo set where the host resolves.
// Lookup failures are logged and leave Geo nil.
func (a *Annotator) Annotate(ctx context.Context, reports []model.HostReport) []model.HostReport {
	out := make([]model.HostReport, len(reports))
	copy(out, reports)

	for i := range out {
		info, err := a.lookupHost(ctx, out[i].Host)
		if err != nil {
			a.log.Debug("geo lookup failed", "host", out[i].Host, "err", err)
			continue
		}
		out[i].Geo = &info
	}
	return out
}

func (a *Annotator) lookupHost(ctx context.Context, rawURL string) (model.GeoInfo, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return model.GeoInfo{}, err
	}
	hostname := u.Hostname()

	ip := hostname
	if net.ParseIP(hostname) == nil {
		addrs, err := a.dns.LookupIPAddr(ctx, hostname)
		if err != nil {
			return model.GeoInfo{}, fmt.Errorf("resolve %s: %w", hostname, err)
		}
		if len(addrs) == 0 {
			return model.GeoInfo{}, fmt.Errorf("resolve %s: no addresses", hostname)
		}
		ip = addrs[0].IP.String()
	}

	return a.resolver.Lookup(ip)
}
