package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Document is the parsed resume exactly as the remote service returned it.
type Document map[string]any

type Resume struct {
	FullName   string       `mapstructure:"full_name"`
	Email      string       `mapstructure:"email"`
	Title      string       `mapstructure:"title"`
	Summary    string       `mapstructure:"summary"`
	Skills     []string     `mapstructure:"skills"`
	Experience []Experience `mapstructure:"experience"`
	Education  []any        `mapstructure:"education"`
}

type Experience struct {
	Role    string   `mapstructure:"role"`
	Company string   `mapstructure:"company"`
	Start   string   `mapstructure:"start"`
	End     string   `mapstructure:"end"`
	Bullets []string `mapstructure:"bullets"`
}

// Resume decodes the typed view of d. Fields that cannot be decoded are left
// at their zero value.
func (d Document) Resume() Resume {
	var resume Resume
	if len(d) == 0 {
		return resume
	}

	_ = weakDecode(map[string]any(d), &resume)
	return resume
}

// EducationLines flattens education entries, which arrive either as plain
// strings or as small records.
func (r Resume) EducationLines() []string {
	lines := make([]string, 0, len(r.Education))
	for _, entry := range r.Education {
		switch v := entry.(type) {
		case nil:
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				lines = append(lines, trimmed)
			}
		case map[string]any:
			keys := make([]string, 0, len(v))
			for key := range v {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			parts := make([]string, 0, len(keys))
			for _, key := range keys {
				if v[key] == nil {
					continue
				}
				parts = append(parts, fmt.Sprint(v[key]))
			}
			if len(parts) > 0 {
				lines = append(lines, strings.Join(parts, ", "))
			}
		default:
			lines = append(lines, fmt.Sprint(v))
		}
	}

	return lines
}

func weakDecode(input any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}
