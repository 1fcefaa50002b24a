// Package yaml loads the fallback id-to-label mapping file.
package yaml

import (
	"errors"
	"fmt"
	"os"

	"github.com/fwojciec/credex"
	"gopkg.in/yaml.v3"
)

// mappingFile accepts both camelCase and snake_case keys. JSON mapping
// files parse as YAML unchanged.
type mappingFile struct {
	CompanyTypes      map[string]string `yaml:"companyTypes"`
	RoleMappings      map[string]string `yaml:"roleMappings"`
	CompanyTypesSnake map[string]string `yaml:"company_types"`
	RoleMappingsSnake map[string]string `yaml:"role_mappings"`
}

// LoadMapping reads the mapping file at path. A missing file yields an
// empty mapping so callers can load an optional default location.
func LoadMapping(path string) (*credex.Mapping, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &credex.Mapping{CompanyTypes: map[string]string{}, RoleMappings: map[string]string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping: %w", err)
	}
	return ParseMapping(data)
}

// ParseMapping decodes a YAML or JSON mapping document.
func ParseMapping(data []byte) (*credex.Mapping, error) {
	var f mappingFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, credex.Errorf(credex.EINVALID, "failed to parse mapping: %v", err)
	}
	return &credex.Mapping{
		CompanyTypes: merged(f.CompanyTypesSnake, f.CompanyTypes),
		RoleMappings: merged(f.RoleMappingsSnake, f.RoleMappings),
	}, nil
}

// merged returns base overlaid with overrides.
func merged(base, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
