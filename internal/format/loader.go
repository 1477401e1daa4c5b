package format

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/vburojevic/ltail/internal/errs"
)

// LoadResult is the outcome of reading a custom formats file
type LoadResult struct {
	Formats  []Descriptor
	Warnings []string
	// Skipped holds one error per entry that could not be compiled
	Skipped []error
}

// LoadFile reads custom formats from a JSON file. The file holds an array of
// format objects; a single object is accepted with a warning. Property names
// are matched case-insensitively. A missing file yields an empty result.
// A file that cannot be read or is not JSON returns an error and the caller
// should continue with the built-ins only.
func LoadFile(path string) (LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return LoadResult{}, nil
		}
		return LoadResult{}, errs.FromIO(path, err)
	}
	return Parse(data)
}

// Parse decodes custom formats from JSON data. See LoadFile.
func Parse(data []byte) (LoadResult, error) {
	var res LoadResult
	if len(strings.TrimSpace(string(data))) == 0 {
		return res, nil
	}
	if !gjson.ValidBytes(data) {
		return res, errs.NewMalformedInput("custom formats file is not valid JSON", nil)
	}

	root := gjson.ParseBytes(data)
	var entries []gjson.Result
	switch {
	case root.IsArray():
		entries = root.Array()
	case root.IsObject():
		res.Warnings = append(res.Warnings, "custom formats file holds a single object; expected an array")
		entries = []gjson.Result{root}
	default:
		return res, errs.NewMalformedInput("custom formats file must hold an array of formats", nil)
	}

	for i, entry := range entries {
		if !entry.IsObject() {
			res.Skipped = append(res.Skipped, errs.NewMalformedInput(fmt.Sprintf("entry %d is not an object", i), nil))
			continue
		}
		d, err := New(specFromJSON(entry))
		if err != nil {
			res.Skipped = append(res.Skipped, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		res.Formats = append(res.Formats, d)
	}
	return res, nil
}

func specFromJSON(obj gjson.Result) Spec {
	spec := Spec{LevelMappings: map[string]string{}}
	obj.ForEach(func(key, value gjson.Result) bool {
		switch strings.ToLower(key.String()) {
		case "name":
			spec.Name = value.String()
		case "description":
			spec.Description = value.String()
		case "fulllogpattern", "headerpattern":
			spec.HeaderPattern = value.String()
		case "levelpattern":
			spec.LevelPattern = value.String()
		case "levelmappings", "levelmap":
			value.ForEach(func(token, level gjson.Result) bool {
				spec.LevelMappings[token.String()] = level.String()
				return true
			})
		}
		return true
	})
	return spec
}

// SaveFile writes custom formats to path as an indented JSON array
func SaveFile(path string, formats []Descriptor) error {
	specs := make([]Spec, 0, len(formats))
	for _, d := range formats {
		if d.BuiltIn {
			continue
		}
		specs = append(specs, d.Spec())
	}

	data, err := json.MarshalIndent(specs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode formats: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create formats dir: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return errs.FromIO(tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errs.FromIO(path, err)
	}
	return nil
}
