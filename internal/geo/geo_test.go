package geo

import (
	"context"
	"errors"
	"net"
	"path/filepath"
	"testing"

	"github.com/August26/httpbench-go/internal/model"
)

type fakeResolver map[string]model.GeoInfo

func (f fakeResolver) Lookup(ip string) (model.GeoInfo, error) {
	info, ok := f[ip]
	if !ok {
		return model.GeoInfo{}, errors.New("not found")
	}
	info.IP = ip
	return info, nil
}

type fakeDNS map[string]string

func (f fakeDNS) LookupIPAddr(_ context.Context, host string) ([]net.IPAddr, error) {
	ip, ok := f[host]
	if !ok {
		return nil, errors.New("no such host")
	}
	return []net.IPAddr{{IP: net.ParseIP(ip)}}, nil
}

func TestAnnotate(t *testing.T) {
	a := NewAnnotator(
		fakeResolver{"192.0.2.10": {Country: "Germany", City: "Berlin"}},
		fakeDNS{"a.example.com": "192.0.2.10"},
		nil,
	)

	in := []model.HostReport{
		{Host: "https://a.example.com/path", Success: 1},
		{Host: "https://unknown.example.com", Success: 1},
	}
	out := a.Annotate(context.Background(), in)

	if len(out) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(out))
	}
	if out[0].Geo == nil || out[0].Geo.City != "Berlin" || out[0].Geo.IP != "192.0.2.10" {
		t.Fatalf("bad geo for a: %#v", out[0].Geo)
	}
	if out[1].Geo != nil {
		t.Fatalf("unresolvable host should have no geo: %#v", out[1].Geo)
	}
	if in[0].Geo != nil {
		t.Fatal("input reports must not be modified")
	}
}

func TestAnnotate_IPLiteralSkipsDNS(t *testing.T) {
	a := NewAnnotator(
		fakeResolver{"198.51.100.7": {Country: "France"}},
		fakeDNS{},
		nil,
	)
	out := a.Annotate(context.Background(), []model.HostReport{{Host: "http://198.51.100.7:8080"}})
	if out[0].Geo == nil || out[0].Geo.Country != "France" {
		t.Fatalf("bad geo: %#v", out[0].Geo)
	}
}

func TestOpenMaxMind_Missing(t *testing.T) {
	if _, err := OpenMaxMind(filepath.Join(t.TempDir(), "missing.mmdb")); err == nil {
		t.Fatal("expected error for missing database")
	}
}
