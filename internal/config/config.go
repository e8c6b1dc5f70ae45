// Package config loads the calculation parameters shared by the CLI
// commands: lattice geometry, nuclear charge, adaptive tolerance and
// the self-energy store settings.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultNumPoints = 1000
	DefaultRmin      = 1e-6
	DefaultH         = 0.01
	DefaultZ         = 1.0
	DefaultTolerance = 1e-10
)

type Config struct {
	Lattice           LatticeConfig `yaml:"lattice"`
	Z                 float64       `yaml:"z"`
	AlphaSquaredRatio float64       `yaml:"alpha_squared_ratio"`
	Tolerance         float64       `yaml:"tolerance"`
	Sigma             SigmaConfig   `yaml:"sigma"`
}

type LatticeConfig struct {
	NumPoints int     `yaml:"num_points"`
	Rmin      float64 `yaml:"rmin"`
	H         float64 `yaml:"h"`
}

type SigmaConfig struct {
	Identifier  string  `yaml:"identifier"`
	Lambda      float64 `yaml:"lambda"`
	MatrixStart int     `yaml:"matrix_start"`
	UseFG       bool    `yaml:"use_fg"`
	UseGG       bool    `yaml:"use_gg"`
}

func DefaultConfig() *Config {
	return &Config{
		Lattice: LatticeConfig{
			NumPoints: DefaultNumPoints,
			Rmin:      DefaultRmin,
			H:         DefaultH,
		},
		Z:                 DefaultZ,
		AlphaSquaredRatio: 1.0,
		Tolerance:         DefaultTolerance,
		Sigma: SigmaConfig{
			Lambda:      1.0,
			MatrixStart: 100,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
