package algorithm

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/feedkit/core"
)

//go:embed presets/*.yaml
var presetFS embed.FS

// Preset 是市场中的一个预置算法。
type Preset struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Author      string   `yaml:"author" json:"author"`
	Tags        []string `yaml:"tags" json:"tags"`
	Downloads   int      `yaml:"downloads" json:"downloads"`
	Rating      int      `yaml:"rating" json:"rating"`
	Config      *Config  `yaml:"config" json:"config"`
}

// Marketplace 返回内置的全部预置算法（按名称排序）。每次调用返回新副本。
func Marketplace() ([]Preset, error) {
	files, err := fs.Glob(presetFS, "presets/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	out := make([]Preset, 0, len(files))
	for _, name := range files {
		data, err := presetFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read preset %s: %w", name, err)
		}
		var p Preset
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("parse preset %s: %w", name, err)
		}
		if p.Config == nil {
			return nil, fmt.Errorf("preset %s: missing config", name)
		}
		if err := finish(p.Config); err != nil {
			return nil, fmt.Errorf("preset %s: %w", name, err)
		}
		if err := Validate(p.Config); err != nil {
			return nil, fmt.Errorf("preset %s: %w", name, err)
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// FindPreset 按名称查找预置算法。
func FindPreset(name string) (*Preset, error) {
	presets, err := Marketplace()
	if err != nil {
		return nil, err
	}
	for i := range presets {
		if presets[i].Name == name {
			return &presets[i], nil
		}
	}
	return nil, core.NewDomainError(core.ModuleAlgorithm, core.ErrorCodeNotFound, fmt.Sprintf("preset %q not found", name))
}
