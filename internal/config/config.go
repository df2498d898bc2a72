// Package config holds the transpiler policy: the tunable decisions the
// inference passes and the generator consult when the source alone does not
// determine an emission. Policies load from YAML (ruchy.yaml by convention);
// every field has a safe default so an absent file is never an error for
// callers that want one.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// ErrUnknownField reports a YAML key that no policy field accepts. The
// wrapped message carries the offending key and its file position.
var ErrUnknownField = errors.New("unknown config field")

// OwnershipMode selects how a call that would move a value out of a live
// binding is repaired.
type OwnershipMode string

const (
	// OwnershipDuplicate clones the argument at every such call site.
	// Always safe, never fast.
	OwnershipDuplicate OwnershipMode = "duplicate"

	// OwnershipBorrowLocal reclassifies the callee parameter as a borrow
	// when the callee is defined in the same unit and only reads the
	// parameter; otherwise it falls back to a clone plus a warning.
	OwnershipBorrowLocal OwnershipMode = "borrow-local"
)

func (m OwnershipMode) valid() bool {
	return m == OwnershipDuplicate || m == OwnershipBorrowLocal
}

// Policy is the full set of transpiler tunables. The zero value is not
// usable; start from Default, Parse, or Load.
type Policy struct {
	Ownership Ownership `yaml:"ownership"`
	Strings   Strings   `yaml:"strings"`
	Warnings  Warnings  `yaml:"warnings"`
}

// Ownership controls the borrow-versus-clone repair for arguments passed to
// same-unit callees.
type Ownership struct {
	Mode OwnershipMode `yaml:"mode"`

	// MaxCalleeSize caps how many statements a callee body may contain and
	// still be eligible for borrow reclassification. Zero means no cap.
	MaxCalleeSize int `yaml:"max_callee_size"`
}

// Strings controls text-ownership defaults.
type Strings struct {
	// DefaultOwned treats every string binding as owned (String) even when
	// nothing in the body forces ownership. Off by default; borrowed &str
	// is the cheaper shape when it suffices.
	DefaultOwned bool `yaml:"default_owned"`
}

// Warnings toggles the non-fatal diagnostic classes.
type Warnings struct {
	// Clones reports call sites where a clone was inserted because a
	// borrow could not be proven safe.
	Clones bool `yaml:"clones"`

	// Hints reports the inferred types chosen for parameters written
	// without annotations.
	Hints bool `yaml:"hints"`
}

// Default returns the policy used when no config file is given: borrow-local
// ownership, borrowed strings, all warnings on.
func Default() *Policy {
	return &Policy{
		Ownership: Ownership{Mode: OwnershipBorrowLocal},
		Warnings:  Warnings{Clones: true, Hints: true},
	}
}

// Parse decodes a YAML policy document over the defaults. Keys that match no
// policy field are rejected with ErrUnknownField rather than ignored, so a
// typoed tunable cannot silently revert to its default.
func Parse(data []byte) (*Policy, error) {
	p := Default()
	if err := yaml.UnmarshalWithOptions(data, p, yaml.Strict()); err != nil {
		if strings.Contains(err.Error(), "unknown field") {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, yaml.FormatError(err, false, true))
		}
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Load reads and parses the policy file at path.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func (p *Policy) validate() error {
	if !p.Ownership.Mode.valid() {
		return fmt.Errorf("unknown ownership mode %q (valid: %q, %q)",
			p.Ownership.Mode, OwnershipDuplicate, OwnershipBorrowLocal)
	}
	if p.Ownership.MaxCalleeSize < 0 {
		return fmt.Errorf("ownership max_callee_size must not be negative, got %d",
			p.Ownership.MaxCalleeSize)
	}
	return nil
}

// Fingerprint returns a stable encoding of every field that influences
// generated output. Build caches mix it into their content keys so a policy
// change invalidates previous entries.
func (p *Policy) Fingerprint() string {
	return fmt.Sprintf("ownership=%s/%d;strings=%t;warnings=%t/%t",
		p.Ownership.Mode, p.Ownership.MaxCalleeSize,
		p.Strings.DefaultOwned,
		p.Warnings.Clones, p.Warnings.Hints)
}
