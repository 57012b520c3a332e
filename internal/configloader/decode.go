package configloader

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gostyle/pkg/config"
)

// layer is one decoded configuration file.
type layer struct {
	path string
	cfg  *config.Config

	// defined reports whether the file set the dotted key explicitly.
	// Zero values are indistinguishable from absent keys after decoding.
	defined func(key string) bool
}

// loadConfigFile decodes a configuration file, choosing the decoder by extension.
func loadConfigFile(path string) (*layer, error) {
	var (
		l   *layer
		err error
	)

	switch configFormat(path) {
	case formatTOML:
		l, err = decodeTOML(path)
	case formatJSON:
		l, err = decodeJSON(path)
	default:
		l, err = decodeYAML(path)
	}
	if err != nil {
		return nil, err
	}

	if l.cfg.Rules == nil {
		l.cfg.Rules = make(map[string]config.RuleConfig)
	}

	return l, nil
}

func decodeYAML(path string) (*layer, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg := &config.Config{}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("%w: parse YAML: %w", config.ErrInvalidConfig, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse YAML: %w", config.ErrInvalidConfig, err)
	}

	return &layer{path: path, cfg: cfg, defined: mapLookup(raw)}, nil
}

func decodeTOML(path string) (*layer, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg, meta, err := config.FromTOML(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	return &layer{
		path: path,
		cfg:  cfg,
		defined: func(key string) bool {
			return meta.IsDefined(splitKey(key)...)
		},
	}, nil
}

func decodeJSON(path string) (*layer, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return nil, fmt.Errorf("%w: parse JSON: %w", config.ErrInvalidConfig, err)
	}

	cfg := &config.Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "mapstructure"}); err != nil {
		return nil, fmt.Errorf("%w: decode JSON: %w", config.ErrInvalidConfig, err)
	}

	return &layer{path: path, cfg: cfg, defined: k.Exists}, nil
}

// mapLookup returns a defined func over a generic decoded document.
func mapLookup(raw map[string]any) func(string) bool {
	return func(key string) bool {
		var current any = raw
		for _, part := range splitKey(key) {
			m, ok := current.(map[string]any)
			if !ok {
				return false
			}
			current, ok = m[part]
			if !ok {
				return false
			}
		}
		return true
	}
}

func splitKey(key string) []string {
	return strings.Split(key, ".")
}
