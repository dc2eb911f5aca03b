package tacos

import (
	"encoding/json"
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

// Variant names a synthesis strategy a RunConfig selects.
type Variant string

const (
	VariantRandom   Variant = "random"
	VariantGreedy   Variant = "greedy"
	VariantMultiple Variant = "multiple"
	VariantBeam     Variant = "beam"
)

// RunConfig describes one synthesis run: which topology and collective to
// build, which variant to run, and where to put the result.
type RunConfig struct {
	TopologyFile string  `yaml:"topologyFile" json:"topologyFile"`
	ChunkSize    int64   `yaml:"chunkSize" json:"chunkSize"`
	ChunksPerNpu int     `yaml:"chunksPerNpu" json:"chunksPerNpu"`
	Variant      Variant `yaml:"variant" json:"variant"`
	K            int     `yaml:"k" json:"k"`
	Seed         string  `yaml:"seed" json:"seed"`
	Verbose      bool    `yaml:"verbose" json:"verbose"`
	OutputFile   string  `yaml:"outputFile" json:"outputFile"`
}

// DefaultRunConfig returns a RunConfig with every field at a reasonable
// default; callers override what they need before calling Validate.
func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		ChunkSize:    1 << 20,
		ChunksPerNpu: 1,
		Variant:      VariantGreedy,
		K:            1,
		Seed:         "tacos",
	}
}

// Validate reports whether rc is complete and internally consistent.
func (rc *RunConfig) Validate() error {
	if rc.TopologyFile == "" {
		return fmt.Errorf("tacos: RunConfig.TopologyFile is required")
	}
	if rc.ChunkSize <= 0 {
		return fmt.Errorf("tacos: RunConfig.ChunkSize must be positive, got %d", rc.ChunkSize)
	}
	if rc.ChunksPerNpu <= 0 {
		return fmt.Errorf("tacos: RunConfig.ChunksPerNpu must be positive, got %d", rc.ChunksPerNpu)
	}
	switch rc.Variant {
	case VariantRandom, VariantGreedy, VariantMultiple, VariantBeam:
	default:
		return fmt.Errorf("tacos: RunConfig.Variant %q is not one of random, greedy, multiple, beam", rc.Variant)
	}
	if (rc.Variant == VariantMultiple || rc.Variant == VariantBeam) && rc.K < 1 {
		return fmt.Errorf("tacos: RunConfig.K must be >= 1 for variant %q, got %d", rc.Variant, rc.K)
	}
	if rc.Seed == "" {
		return fmt.Errorf("tacos: RunConfig.Seed is required")
	}
	return nil
}

// WriteToFile serializes rc and writes it to filename. Format is selected
// by filename's extension (.yaml/.yml or .json).
func (rc *RunConfig) WriteToFile(filename string) error {
	pathExt := path.Ext(filename)
	var bytes []byte
	var merr error

	switch pathExt {
	case ".yaml", ".YAML", ".yml":
		bytes, merr = yaml.Marshal(*rc)
	case ".json", ".JSON":
		bytes, merr = json.MarshalIndent(*rc, "", "\t")
	default:
		merr = fmt.Errorf("tacos: unrecognized config extension %q", pathExt)
	}
	if merr != nil {
		panic(merr)
	}

	return os.WriteFile(filename, bytes, 0o644)
}

// ReadRunConfig reads and deserializes a RunConfig from filename. Format is
// selected by filename's extension (.yaml/.yml or .json).
func ReadRunConfig(filename string) (*RunConfig, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	rc := DefaultRunConfig()
	pathExt := path.Ext(filename)
	switch pathExt {
	case ".yaml", ".YAML", ".yml":
		err = yaml.Unmarshal(bytes, rc)
	case ".json", ".JSON":
		err = json.Unmarshal(bytes, rc)
	default:
		return nil, fmt.Errorf("tacos: unrecognized config extension %q", pathExt)
	}
	if err != nil {
		return nil, err
	}
	return rc, nil
}
