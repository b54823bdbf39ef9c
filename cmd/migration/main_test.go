package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseSteps(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    int
		wantErr bool
	}{
		{name: "default one step", args: nil, want: 1},
		{name: "explicit", args: []string{" 3 "}, want: 3},
		{name: "zero", args: []string{"0"}, wantErr: true},
		{name: "not a number", args: []string{"two"}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseSteps(tc.args)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("parseSteps(%v) = %d, %v; want %d", tc.args, got, err, tc.want)
			}
		})
	}
}

func TestParseVersionAndTarget(t *testing.T) {
	if v, err := parseVersion("1"); err != nil || v != 1 {
		t.Fatalf("parseVersion: %d, %v", v, err)
	}
	if _, err := parseVersion("-1"); err == nil {
		t.Fatalf("expected error for negative version")
	}
	if v, err := parseTarget(" 2 "); err != nil || v != 2 {
		t.Fatalf("parseTarget: %d, %v", v, err)
	}
	if _, err := parseTarget("x"); err == nil {
		t.Fatalf("expected error for invalid target")
	}
}

func TestResolveMigrationsDir_PrefersEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MIGRATIONS_DIR", dir)

	got, err := resolveMigrationsDir()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want, _ := filepath.Abs(dir)
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}

	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("remove dir: %v", err)
	}
}
