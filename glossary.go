package lingo

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Glossary carries site-specific translation guidance loaded from a YAML
// file: preferred renderings for domain phrases, terms to leave untouched,
// and a context hint describing the content.
type Glossary struct {
	Context  string            `yaml:"context"`
	Terms    map[string]string `yaml:"terms"`
	Excluded []string          `yaml:"excluded"`
}

// LoadGlossary reads a glossary YAML file. A missing path returns an empty
// glossary without error so deployments can omit the file entirely.
func LoadGlossary(path string) (*Glossary, error) {
	if path == "" {
		return &Glossary{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Glossary{}, nil
		}
		return nil, fmt.Errorf("reading glossary: %w", err)
	}

	var g Glossary
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parsing glossary: %w", err)
	}

	return &g, nil
}

// TranslatorOptions converts the glossary into Translator options.
func (g *Glossary) TranslatorOptions() []TranslatorOption {
	var opts []TranslatorOption
	if g.Context != "" {
		opts = append(opts, WithContextHint(g.Context))
	}
	if len(g.Terms) > 0 {
		opts = append(opts, WithGlossary(g.Terms))
	}
	if len(g.Excluded) > 0 {
		opts = append(opts, WithExcludedTerms(g.Excluded))
	}
	return opts
}
