// Package profile loads named traffic-pattern profiles from YAML:
// read the whole file, unmarshal, wrap errors with %w.
package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"FlowForge/internal/core/model"
	"FlowForge/internal/ferrors"
)

// patternDef mirrors one entry of a profile's pattern list in YAML.
type patternDef struct {
	Type       string  `yaml:"type"`
	Percentage float64 `yaml:"percentage"`
}

// profileDef mirrors one named profile in YAML.
type profileDef struct {
	Patterns            []patternDef `yaml:"patterns"`
	SourceSubnets       []string     `yaml:"source_subnets"`
	SourceWeights       []float64    `yaml:"source_weights"`
	DestinationSubnets  []string     `yaml:"destination_subnets"`
}

// fileDef is the top-level shape of a profile YAML document.
type fileDef struct {
	Profiles map[string]profileDef `yaml:"profiles"`
}

// Default is the built-in mix used when no --profile-file/--profile is
// given.
func Default() model.TrafficProfile {
	return model.TrafficProfile{
		Patterns: []model.TrafficPattern{
			{Type: "web_traffic", Percentage: 40},
			{Type: "dns_traffic", Percentage: 20},
			{Type: "database_traffic", Percentage: 15},
			{Type: "ssh_traffic", Percentage: 10},
			{Type: "random", Percentage: 15},
		},
		SourceSubnets:      []string{"192.168.1.0/24", "192.168.2.0/24"},
		SourceWeights:      []float64{70, 30},
		DestinationSubnets: []string{"10.0.0.0/8", "172.16.0.0/12"},
	}
}

// Load reads a YAML document of named profiles from path.
func Load(path string) (map[string]model.TrafficProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	var doc fileDef
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile YAML: %w", err)
	}

	out := make(map[string]model.TrafficProfile, len(doc.Profiles))
	for name, p := range doc.Profiles {
		tp := model.TrafficProfile{
			SourceSubnets:      p.SourceSubnets,
			SourceWeights:      p.SourceWeights,
			DestinationSubnets: p.DestinationSubnets,
		}
		for _, pd := range p.Patterns {
			tp.Patterns = append(tp.Patterns, model.TrafficPattern{Type: pd.Type, Percentage: pd.Percentage})
		}
		out[name] = tp
	}
	return out, nil
}

// Resolve picks profile name out of profiles, or returns a
// ConfigInvalid-flavored error if it isn't present.
func Resolve(profiles map[string]model.TrafficProfile, name string) (model.TrafficProfile, error) {
	p, ok := profiles[name]
	if !ok {
		return model.TrafficProfile{}, fmt.Errorf("%w: unknown profile %q", ferrors.ErrConfigInvalid, name)
	}
	return p, nil
}
