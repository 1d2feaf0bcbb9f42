package content

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON string

var documentSchema = jsonschema.MustCompileString("content.schema.json", schemaJSON)

// document is the on-disk shape of a content file. Any file may carry any
// subset of the sections; LoadDir merges them.
type document struct {
	Items     []ItemDef          `yaml:"items"`
	Enemies   []EnemyDef         `yaml:"enemies"`
	Locations []LocationDef      `yaml:"locations"`
	Recipes   []RecipeDef        `yaml:"recipes"`
	Quests    []QuestTemplateDef `yaml:"quests"`
}

// LoadDir reads every *.yaml, *.yml and *.json file in dir, validates each
// against the content schema, merges them into one Index and checks
// cross-references.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a validated Index or the first error encountered.
// Files are merged in lexical order, so errors are reported deterministically.
func LoadDir(dir string) (*Index, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading content dir %q: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !isContentFile(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	idx := NewIndex()
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		if err := idx.merge(data); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
	}

	if err := idx.Validate(); err != nil {
		return nil, err
	}
	return idx, nil
}

// LoadFromBytes parses a single content document into a validated Index.
//
// Postcondition: Returns a validated Index or a non-nil error.
func LoadFromBytes(data []byte) (*Index, error) {
	idx := NewIndex()
	if err := idx.merge(data); err != nil {
		return nil, err
	}
	if err := idx.Validate(); err != nil {
		return nil, err
	}
	return idx, nil
}

func isContentFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}

func (idx *Index) merge(data []byte) error {
	if err := validateSchema(data); err != nil {
		return err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing content: %w", err)
	}

	for _, d := range doc.Items {
		if _, dup := idx.ItemsByID[d.ID]; dup {
			return fmt.Errorf("duplicate item id %q", d.ID)
		}
		idx.ItemsByID[d.ID] = d
	}
	for _, d := range doc.Enemies {
		if _, dup := idx.EnemiesByID[d.ID]; dup {
			return fmt.Errorf("duplicate enemy id %q", d.ID)
		}
		idx.EnemiesByID[d.ID] = d
	}
	for _, d := range doc.Locations {
		if _, dup := idx.LocationsByID[d.ID]; dup {
			return fmt.Errorf("duplicate location id %q", d.ID)
		}
		idx.LocationsByID[d.ID] = d
	}
	for _, d := range doc.Recipes {
		if _, dup := idx.RecipesByID[d.ID]; dup {
			return fmt.Errorf("duplicate recipe id %q", d.ID)
		}
		idx.RecipesByID[d.ID] = d
	}
	for _, d := range doc.Quests {
		if _, dup := idx.QuestTemplatesByID[d.ID]; dup {
			return fmt.Errorf("duplicate quest id %q", d.ID)
		}
		idx.QuestTemplatesByID[d.ID] = d
	}
	return nil
}

// validateSchema checks a raw YAML/JSON document against the embedded schema.
// The document is normalised through encoding/json so the validator sees the
// same value types regardless of the source format.
func validateSchema(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing content: %w", err)
	}
	if raw == nil {
		return nil
	}
	normalized, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("normalising content: %w", err)
	}
	var v any
	if err := json.Unmarshal(normalized, &v); err != nil {
		return fmt.Errorf("normalising content: %w", err)
	}
	if err := documentSchema.Validate(v); err != nil {
		return fmt.Errorf("content schema: %w", err)
	}
	return nil
}
