package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadFromFile reads one host per line from path.
//
// Lines are trimmed; empty lines and lines starting with '#' are ignored.
// Hosts are returned as written, validation happens later.
func LoadFromFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open hosts file: %w", err)
	}
	defer f.Close()

	hosts, err := ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("scan hosts file: %w", err)
	}
	return hosts, nil
}

// ReadLines is LoadFromFile for an arbitrary reader.
func ReadLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseList splits a comma-separated host list, dropping empty items.
func ParseList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if h := strings.TrimSpace(p); h != "" {
			out = append(out, h)
		}
	}
	return out
}
