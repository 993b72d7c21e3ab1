package directive

import (
	"log/slog"
	"os"
	"testing"
)

func TestResolvePrefersEnv(t *testing.T) {
	t.Setenv(EnvVar, "api=warn")

	d, err := Resolve("debug")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	clauses := d.Clauses()
	if len(clauses) != 1 || clauses[0] != (Clause{Target: "api", Level: slog.LevelWarn}) {
		t.Errorf("Resolve used %q, want the environment directive", d)
	}
}

func TestResolveFallsBackWhenUnset(t *testing.T) {
	t.Setenv(EnvVar, "")
	os.Unsetenv(EnvVar)

	d, err := Resolve("debug")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if level, ok := d.DefaultLevel(); !ok || level != slog.LevelDebug {
		t.Errorf("Resolve = %q, want the default directive", d)
	}
}

func TestResolveFallsBackOnInvalidEnv(t *testing.T) {
	t.Setenv(EnvVar, "!!not-a-directive!!")

	d, err := Resolve("info")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if level, ok := d.DefaultLevel(); !ok || level != slog.LevelInfo {
		t.Errorf("Resolve = %q, want the default directive", d)
	}
}

func TestResolveInvalidDefault(t *testing.T) {
	t.Setenv(EnvVar, "")
	os.Unsetenv(EnvVar)

	if _, err := Resolve("nope"); err == nil {
		t.Error("Resolve succeeded with an invalid default and no environment")
	}

	// A valid environment directive still wins over a broken default.
	t.Setenv(EnvVar, "trace")
	if _, err := Resolve("nope"); err != nil {
		t.Errorf("Resolve failed despite a valid environment directive: %v", err)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvVar, "streams=debug")
	if _, ok := FromEnv(); !ok {
		t.Error("FromEnv did not see a valid directive")
	}

	t.Setenv(EnvVar, "=broken")
	if _, ok := FromEnv(); ok {
		t.Error("FromEnv accepted an invalid directive")
	}
}

func TestPackageDirective(t *testing.T) {
	tests := []struct {
		level, pkg, bin string
		want            string
	}{
		{"info", "my-crate", "my-crate", "my_crate=info"},
		{"debug", "my-crate", "my-bin", "my_crate=debug,my_bin=debug"},
		{"warn", "lib", "lib", "lib=warn"},
		{"trace", "a-b-c", "a-b-c", "a_b_c=trace"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := PackageDirective(tt.level, tt.pkg, tt.bin)
			if got != tt.want {
				t.Errorf("PackageDirective(%q, %q, %q) = %q, want %q", tt.level, tt.pkg, tt.bin, got, tt.want)
			}
			if _, err := Parse(got); err != nil {
				t.Errorf("PackageDirective output does not parse: %v", err)
			}
		})
	}
}
