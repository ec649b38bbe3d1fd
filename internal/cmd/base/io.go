package base

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/ansys/conceptev-go/pkg/conceptev"
)

// ReadPayload reads a JSON or YAML file (by extension) and returns it as
// JSON.
func (c *Command) ReadPayload(path string) (json.RawMessage, error) {
	data, err := afero.ReadFile(c.Fs, path)
	if err != nil {
		return nil, fmt.Errorf("error reading payload file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("error parsing payload file %s: %w", path, err)
		}
		out, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("error converting payload file %s: %w", path, err)
		}
		return out, nil
	default:
		if !json.Valid(data) {
			return nil, fmt.Errorf("error parsing payload file %s: invalid JSON", path)
		}
		return data, nil
	}
}

// Print writes v to the UI as indented JSON, or as YAML when format is
// "yaml". Raw bodies that are not JSON are written unchanged.
func (c *Command) Print(v any, format string) error {
	if raw, ok := rawBytes(v); ok {
		if !json.Valid(raw) {
			c.UI.Output(string(raw))
			return nil
		}
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return fmt.Errorf("error formatting output: %w", err)
		}
		v = decoded
	}

	var out []byte
	var err error

	switch format {
	case "", "json":
		out, err = json.MarshalIndent(v, "", "  ")
	case "yaml":
		out, err = yaml.Marshal(v)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
	if err != nil {
		return fmt.Errorf("error formatting output: %w", err)
	}

	c.UI.Output(strings.TrimRight(string(out), "\n"))
	return nil
}

// PrintMap writes a name to id map as sorted "name: id" lines.
func (c *Command) PrintMap(m map[string]string) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		c.UI.Output(fmt.Sprintf("%s: %s", name, m[name]))
	}
}

func rawBytes(v any) ([]byte, bool) {
	switch t := v.(type) {
	case json.RawMessage:
		return t, true
	case []byte:
		return t, true
	}
	return nil, false
}

// ResolveRoute maps a CLI resource name such as "drive-cycles", "DriveCycles"
// or "components:calculate-loss-map" to a route.
func ResolveRoute(name string) (conceptev.Route, error) {
	collection, verb, hasVerb := strings.Cut(strings.TrimPrefix(name, "/"), ":")

	path := "/" + strcase.ToSnake(collection)
	if hasVerb {
		path += ":" + strcase.ToSnake(verb)
	}

	route, err := conceptev.ParseRoute(path)
	if err != nil {
		return "", fmt.Errorf("%w (known resources: %s)", err, knownResources())
	}
	return route, nil
}

func knownResources() string {
	var names []string
	for _, r := range conceptev.Routes() {
		if !strings.Contains(string(r), ":") {
			names = append(names, strcase.ToKebab(strings.TrimPrefix(string(r), "/")))
		}
	}
	return strings.Join(names, ", ")
}
