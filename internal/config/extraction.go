package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"seoaudit/internal/domain"
)

// FieldSet is the flattened allow-list computed once from an extraction
// config and applied over the canonical record's optional fields.
type FieldSet map[string]bool

// Enabled reports whether a field survives filtering.
func (f FieldSet) Enabled(name string) bool {
	return f[name]
}

// extractionFile mirrors the on-disk extraction config: a flat or nested map
// of field name to boolean. Nested groups merge into one flat namespace.
type extractionFile struct {
	Fields map[string]any `yaml:"fields"`
}

// LoadExtraction resolves a named extraction config from
// {dir}/extraction/{name}.yaml. The name "default" is built in and enables
// every field; a missing named file is a fatal ConfigError.
func LoadExtraction(dir, name string) (FieldSet, error) {
	if name == "" || name == "default" {
		return DefaultFieldSet(), nil
	}

	path := filepath.Join(dir, "extraction", name+".yaml")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: extraction config %q: %v", domain.ErrConfig, name, err)
	}

	var file extractionFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("%w: parse extraction config %q: %v", domain.ErrConfig, name, err)
	}
	if len(file.Fields) == 0 {
		return nil, fmt.Errorf("%w: extraction config %q has no fields", domain.ErrConfig, name)
	}

	set := FieldSet{}
	if err := flattenFields("", file.Fields, set); err != nil {
		return nil, fmt.Errorf("%w: extraction config %q: %v", domain.ErrConfig, name, err)
	}
	return set, nil
}

// flattenFields merges nested boolean groups into one flat namespace keyed
// by the leaf field name.
func flattenFields(group string, fields map[string]any, out FieldSet) error {
	for key, value := range fields {
		switch v := value.(type) {
		case bool:
			out[key] = v
		case map[string]any:
			if err := flattenFields(key, v, out); err != nil {
				return err
			}
		default:
			return fmt.Errorf("field %q in group %q must be a bool or a group, got %T", key, group, value)
		}
	}
	return nil
}

// Optional field names recognized by the extraction allow-list. The five
// essential fields (post_id, slug, url, title, content) are not listed;
// they are force-included regardless of configuration.
var optionalFields = []string{
	"html",
	"excerpt",
	"meta_description",
	"keywords",
	"headings",
	"word_count",
	"reading_time",
	"last_modified",
	"canonical_url",
	"robots",
	"og_title",
	"og_description",
	"og_image",
	"twitter_title",
	"twitter_description",
	"twitter_image",
	"focus_keyword",
	"primary_category",
}

// DefaultFieldSet enables every optional field.
func DefaultFieldSet() FieldSet {
	set := make(FieldSet, len(optionalFields))
	for _, f := range optionalFields {
		set[f] = true
	}
	return set
}
