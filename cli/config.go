package cli

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// loadYAML is a [kong.ConfigurationLoader] for YAML config files.
//
// Top-level keys are flag names, with either hyphens or underscores.
// Nested mappings are joined with a hyphen, so both files below set
// --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Command-line flags override config file values.
func loadYAML(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	cfg := yamlConfig{}
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}

	cfg.flatten("", raw)

	return cfg, nil
}

// yamlConfig implements [kong.Resolver] over a flattened YAML document.
type yamlConfig map[string]any

// Validate implements [kong.Resolver].
func (c yamlConfig) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (c yamlConfig) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "max-depth") but YAML keys often use
	// underscores. Try both forms.
	name := flag.Name
	if value, ok := c[name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(name, "-", "_")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

func (c yamlConfig) flatten(prefix string, m map[string]any) {
	for key, val := range m {
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := val.(map[string]any); ok {
			c.flatten(key, sub)

			continue
		}

		c[key] = scalar(val)
	}
}

// scalar converts a decoded YAML value into a form Kong's mappers accept:
// strings and booleans pass through, numbers become strings and
// sequences become comma-separated lists.
func scalar(val any) any {
	switch v := val.(type) {
	case string, bool, nil:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(v))
		for _, elem := range v {
			parts = append(parts, fmt.Sprint(scalar(elem)))
		}

		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}
