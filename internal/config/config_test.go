package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/August26/httpbench-go/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "httpbench.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
timeout: 2.5
count: 4
workers: 8
hosts:
  - https://a.example.com
  - https://b.example.com
format: json
proxy: socks5://127.0.0.1:1080
verbose: true
`)

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Timeout == nil || *f.Timeout != 2.5 {
		t.Errorf("timeout = %v", f.Timeout)
	}
	if f.Count == nil || *f.Count != 4 {
		t.Errorf("count = %v", f.Count)
	}
	if len(f.Hosts) != 2 {
		t.Errorf("hosts = %v", f.Hosts)
	}
	if f.Output != nil || f.HostsFile != nil {
		t.Errorf("unset fields should stay nil: %#v", f)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr string
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") },
			wantErr: "read config",
		},
		{
			name:    "bad yaml",
			path:    func(t *testing.T) string { return writeConfig(t, "count: [1, 2\n") },
			wantErr: "parse config",
		},
		{
			name:    "wrong type",
			path:    func(t *testing.T) string { return writeConfig(t, "count: many\n") },
			wantErr: "parse config",
		},
		{
			name: "both host sources",
			path: func(t *testing.T) string {
				return writeConfig(t, "hosts: [https://a.example.com]\nhosts_file: hosts.txt\n")
			},
			wantErr: "mutually exclusive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path(t))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q should contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestApply_FlagsWin(t *testing.T) {
	timeout, count, format := 3.0, 7, "csv"
	f := &File{
		Timeout: &timeout,
		Count:   &count,
		Format:  &format,
		Hosts:   []string{"https://file.example.com"},
	}

	base := model.DefaultConfig()
	base.Count = 2
	base.Hosts = []string{"https://flag.example.com"}

	changed := map[string]bool{"count": true, "hosts": true}
	got := Apply(base, f, func(name string) bool { return changed[name] })

	if got.TimeoutSeconds != 3.0 {
		t.Errorf("timeout from file not applied: %v", got.TimeoutSeconds)
	}
	if got.Count != 2 {
		t.Errorf("count flag should win, got %d", got.Count)
	}
	if got.OutputFormat != "csv" {
		t.Errorf("format from file not applied: %q", got.OutputFormat)
	}
	if !reflect.DeepEqual(got.Hosts, []string{"https://flag.example.com"}) {
		t.Errorf("hosts flag should win, got %v", got.Hosts)
	}
}

func TestApply_HostsFileReplacesDefaultSource(t *testing.T) {
	hostsFile := "hosts.txt"
	got := Apply(model.DefaultConfig(), &File{HostsFile: &hostsFile}, nil)

	if got.HostsFile != "hosts.txt" || got.Hosts != nil {
		t.Fatalf("unexpected host source: %#v", got)
	}
}

func TestApply_NilFile(t *testing.T) {
	base := model.DefaultConfig()
	if got := Apply(base, nil, nil); !reflect.DeepEqual(got, base) {
		t.Fatalf("nil file must not change config: %#v", got)
	}
}
