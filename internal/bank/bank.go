// Package bank loads and validates question banks.
package bank

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path"
	"slices"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/skillcheck/internal/assessment"
)

// SchemaVersion is the version written into new banks.
const SchemaVersion = "v1.0.0"

var (
	ErrNotFound           = errors.New("bank not found")
	ErrUnsupportedVersion = errors.New("unsupported bank schema version")
	ErrInvalidBank        = errors.New("invalid bank")
)

//go:embed banks/*.yaml
var embedded embed.FS

// Bank is a titled, versioned set of questions.
type Bank struct {
	ID            string                `yaml:"id" json:"id"`
	Title         string                `yaml:"title" json:"title"`
	SchemaVersion string                `yaml:"schema_version" json:"schema_version"`
	Questions     []assessment.Question `yaml:"questions" json:"questions"`
}

// Validate checks the header fields and the question set.
func (b *Bank) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidBank)
	}
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("%w: %s: missing title", ErrInvalidBank, b.ID)
	}
	if !semver.IsValid(b.SchemaVersion) {
		return fmt.Errorf("%w: %s: %q is not a semantic version", ErrUnsupportedVersion, b.ID, b.SchemaVersion)
	}
	if semver.Major(b.SchemaVersion) != semver.Major(SchemaVersion) {
		return fmt.Errorf("%w: %s: %s (want %s.x)", ErrUnsupportedVersion, b.ID, b.SchemaVersion, semver.Major(SchemaVersion))
	}
	if err := assessment.ValidateQuestions(b.Questions); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidBank, b.ID, err)
	}
	return nil
}

// Shuffled returns a copy of the questions in an order derived from seed.
// Option order is left alone so answer indices stay valid.
func (b *Bank) Shuffled(seed uint64) []assessment.Question {
	qs := slices.Clone(b.Questions)
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	r.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
	return qs
}

// Parse decodes and validates a YAML bank.
func Parse(data []byte) (*Bank, error) {
	var b Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrInvalidBank, err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Marshal encodes b as YAML.
func Marshal(b *Bank) ([]byte, error) {
	return yaml.Marshal(b)
}

// Load returns the embedded bank with the given id.
func Load(id string) (*Bank, error) {
	data, err := embedded.ReadFile(path.Join("banks", id+".yaml"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// LoadFile reads a bank from disk.
func LoadFile(name string) (*Bank, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read bank: %w", err)
	}
	return Parse(data)
}

// Resolve loads ref as an embedded bank id, or as a file path when ref
// looks like one.
func Resolve(ref string) (*Bank, error) {
	if strings.HasSuffix(ref, ".yaml") || strings.HasSuffix(ref, ".yml") || strings.ContainsRune(ref, os.PathSeparator) {
		return LoadFile(ref)
	}
	return Load(ref)
}

// List returns the ids of the embedded banks, sorted.
func List() []string {
	entries, err := embedded.ReadDir("banks")
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".yaml"); ok {
			ids = append(ids, name)
		}
	}
	slices.Sort(ids)
	return ids
}
