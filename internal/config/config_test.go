package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ruchy-lang/ruchy/internal/config"
)

func TestDefaultPolicy(t *testing.T) {
	p := config.Default()
	if p.Ownership.Mode != config.OwnershipBorrowLocal {
		t.Errorf("default ownership mode = %q, want %q", p.Ownership.Mode, config.OwnershipBorrowLocal)
	}
	if p.Ownership.MaxCalleeSize != 0 {
		t.Errorf("default max_callee_size = %d, want 0", p.Ownership.MaxCalleeSize)
	}
	if p.Strings.DefaultOwned {
		t.Error("default strings.default_owned = true, want false")
	}
	if !p.Warnings.Clones || !p.Warnings.Hints {
		t.Errorf("default warnings = %+v, want all enabled", p.Warnings)
	}
}

func TestParseFullDocument(t *testing.T) {
	src := `
ownership:
  mode: duplicate
  max_callee_size: 12
strings:
  default_owned: true
warnings:
  clones: false
  hints: false
`
	p, err := config.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Ownership.Mode != config.OwnershipDuplicate {
		t.Errorf("mode = %q, want duplicate", p.Ownership.Mode)
	}
	if p.Ownership.MaxCalleeSize != 12 {
		t.Errorf("max_callee_size = %d, want 12", p.Ownership.MaxCalleeSize)
	}
	if !p.Strings.DefaultOwned {
		t.Error("strings.default_owned not applied")
	}
	if p.Warnings.Clones || p.Warnings.Hints {
		t.Errorf("warnings = %+v, want all disabled", p.Warnings)
	}
}

func TestParsePartialDocumentKeepsDefaults(t *testing.T) {
	p, err := config.Parse([]byte("strings:\n  default_owned: true\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !p.Strings.DefaultOwned {
		t.Error("strings.default_owned not applied")
	}
	// Untouched sections keep their defaults.
	if p.Ownership.Mode != config.OwnershipBorrowLocal {
		t.Errorf("mode = %q, want default borrow-local", p.Ownership.Mode)
	}
	if !p.Warnings.Clones {
		t.Error("warnings.clones lost its default")
	}
}

func TestParseEmptyDocumentIsDefault(t *testing.T) {
	p, err := config.Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Ownership.Mode != config.OwnershipBorrowLocal {
		t.Errorf("mode = %q, want default borrow-local", p.Ownership.Mode)
	}
}

func TestParseUnknownFieldRejected(t *testing.T) {
	src := "ownership:\n  mod: duplicate\n"
	_, err := config.Parse([]byte(src))
	if !errors.Is(err, config.ErrUnknownField) {
		t.Fatalf("Parse error = %v, want ErrUnknownField", err)
	}
	// The message names the key and carries its position.
	if !strings.Contains(err.Error(), "mod") {
		t.Errorf("error does not name the bad key: %v", err)
	}
	if !strings.Contains(err.Error(), "[2:3]") {
		t.Errorf("error does not carry the file position: %v", err)
	}
}

func TestParseUnknownModeRejected(t *testing.T) {
	_, err := config.Parse([]byte("ownership:\n  mode: copy\n"))
	if err == nil {
		t.Fatal("Parse accepted an unknown ownership mode")
	}
	if !strings.Contains(err.Error(), "copy") {
		t.Errorf("error does not name the bad mode: %v", err)
	}
}

func TestParseNegativeCalleeSizeRejected(t *testing.T) {
	_, err := config.Parse([]byte("ownership:\n  mode: borrow-local\n  max_callee_size: -3\n"))
	if err == nil {
		t.Fatal("Parse accepted a negative max_callee_size")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ruchy.yaml")
	if err := os.WriteFile(path, []byte("ownership:\n  mode: duplicate\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Ownership.Mode != config.OwnershipDuplicate {
		t.Errorf("mode = %q, want duplicate", p.Ownership.Mode)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("Load of a missing file succeeded")
	}
}

func TestLoadErrorNamesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ruchy.yaml")
	if err := os.WriteFile(path, []byte("ownerships: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := config.Load(path)
	if !errors.Is(err, config.ErrUnknownField) {
		t.Fatalf("Load error = %v, want ErrUnknownField", err)
	}
	if !strings.Contains(err.Error(), "ruchy.yaml") {
		t.Errorf("error does not name the file: %v", err)
	}
}

func TestFingerprintTracksPolicy(t *testing.T) {
	a := config.Default()
	b := config.Default()
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("identical policies produced different fingerprints")
	}
	b.Ownership.Mode = config.OwnershipDuplicate
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("changing the ownership mode did not change the fingerprint")
	}
	c := config.Default()
	c.Strings.DefaultOwned = true
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("changing default_owned did not change the fingerprint")
	}
}
