package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of a catalog. The same schema is decoded from
// HCL blocks and YAML documents.
type File struct {
	Config *FileConfig `hcl:"config,block" yaml:"config"`
	Cards  []FileCard  `hcl:"card,block" yaml:"cards"`
}

// FileConfig holds optional overrides of DefaultConfig. A nil field means
// "use the default"; an explicit zero is kept.
type FileConfig struct {
	MaxCards              *int `hcl:"max_cards,optional" yaml:"max_cards,omitempty"`
	MinCards              *int `hcl:"min_cards,optional" yaml:"min_cards,omitempty"`
	DefaultCards          *int `hcl:"default_cards,optional" yaml:"default_cards,omitempty"`
	MaxStackSize          *int `hcl:"max_stack_size,optional" yaml:"max_stack_size,omitempty"`
	FlipResolutionDelayMs *int `hcl:"flip_resolution_delay_ms,optional" yaml:"flip_resolution_delay_ms,omitempty"`
	MatchDelayMs          *int `hcl:"match_delay_ms,optional" yaml:"match_delay_ms,omitempty"`
}

// FileCard is one card definition in a catalog file.
type FileCard struct {
	Name   string `hcl:"name,label" yaml:"name"`
	ID     int    `hcl:"id" yaml:"id"`
	Icon   string `hcl:"icon,optional" yaml:"icon"`
	Color  string `hcl:"color,optional" yaml:"color"`
	Points int    `hcl:"points,optional" yaml:"points"`
	Rarity string `hcl:"rarity,optional" yaml:"rarity"`
}

// Load reads a catalog from path, choosing the decoder by extension (.hcl,
// .yaml or .yml). When path is empty Load returns the fallback catalog. When
// the file is missing or invalid Load returns the fallback catalog together
// with the error so the caller can report the degradation.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Fallback(), nil
	}

	cat, err := LoadFile(path)
	if err != nil {
		return Fallback(), err
	}
	return cat, nil
}

// LoadFile reads and validates a catalog file without any fallback.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var file *File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hcl":
		file, err = ParseHCL(data, path)
	case ".yaml", ".yml":
		file, err = ParseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", ext)
	}
	if err != nil {
		return nil, err
	}

	cat, err := file.Catalog()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cat.Source = path
	return cat, nil
}

// ParseHCL decodes an HCL catalog. filename is only used in diagnostics.
func ParseHCL(data []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var file File
	diags = gohcl.DecodeBody(hclFile.Body, nil, &file)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	return &file, nil
}

// ParseYAML decodes a YAML catalog. Unknown keys are rejected.
func ParseYAML(data []byte) (*File, error) {
	var file File
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode YAML: %w", err)
	}
	return &file, nil
}

// Catalog applies defaults and validates the decoded file.
func (f *File) Catalog() (*Catalog, error) {
	cfg := DefaultConfig()
	if c := f.Config; c != nil {
		setInt(&cfg.MaxCards, c.MaxCards)
		setInt(&cfg.MinCards, c.MinCards)
		setInt(&cfg.DefaultCards, c.DefaultCards)
		setInt(&cfg.MaxStackSize, c.MaxStackSize)
		setMillis(&cfg.FlipResolutionDelay, c.FlipResolutionDelayMs)
		setMillis(&cfg.MatchDelay, c.MatchDelayMs)
	}

	cards := make([]Card, 0, len(f.Cards))
	for _, fc := range f.Cards {
		rarity, err := ParseRarity(fc.Rarity)
		if err != nil {
			return nil, fmt.Errorf("card %q: %w", fc.Name, err)
		}
		cards = append(cards, Card{
			ID:     fc.ID,
			Name:   fc.Name,
			Icon:   fc.Icon,
			Color:  fc.Color,
			Points: fc.Points,
			Rarity: rarity,
		})
	}

	cat := &Catalog{Cards: cards, Config: cfg}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setMillis(dst *time.Duration, ms *int) {
	if ms != nil {
		*dst = time.Duration(*ms) * time.Millisecond
	}
}

func ptr[T any](v T) *T {
	return &v
}

// EncodeYAML renders a catalog in the YAML file format.
func EncodeYAML(c *Catalog) ([]byte, error) {
	file := File{
		Config: &FileConfig{
			MaxCards:              ptr(c.Config.MaxCards),
			MinCards:              ptr(c.Config.MinCards),
			DefaultCards:          ptr(c.Config.DefaultCards),
			MaxStackSize:          ptr(c.Config.MaxStackSize),
			FlipResolutionDelayMs: ptr(int(c.Config.FlipResolutionDelay / time.Millisecond)),
			MatchDelayMs:          ptr(int(c.Config.MatchDelay / time.Millisecond)),
		},
	}
	for _, card := range c.Cards {
		file.Cards = append(file.Cards, FileCard{
			Name:   card.Name,
			ID:     card.ID,
			Icon:   card.Icon,
			Color:  card.Color,
			Points: card.Points,
			Rarity: card.Rarity.String(),
		})
	}

	out, err := yaml.Marshal(&file)
	if err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return out, nil
}
