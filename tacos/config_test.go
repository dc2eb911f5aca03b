package tacos

import (
	"path/filepath"
	"testing"
)

func TestRunConfigValidateRequiresTopologyFile(t *testing.T) {
	rc := DefaultRunConfig()
	if err := rc.Validate(); err == nil {
		t.Fatalf("expected an error for a missing TopologyFile")
	}
}

func TestRunConfigValidateRejectsUnknownVariant(t *testing.T) {
	rc := DefaultRunConfig()
	rc.TopologyFile = "topo.csv"
	rc.Variant = Variant("nonsense")
	if err := rc.Validate(); err == nil {
		t.Fatalf("expected an error for an unknown variant")
	}
}

func TestRunConfigYAMLRoundTrip(t *testing.T) {
	rc := DefaultRunConfig()
	rc.TopologyFile = "topo.csv"
	rc.Variant = VariantBeam
	rc.K = 4

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := rc.WriteToFile(path); err != nil {
		t.Fatalf("WriteToFile() error: %v", err)
	}

	loaded, err := ReadRunConfig(path)
	if err != nil {
		t.Fatalf("ReadRunConfig() error: %v", err)
	}
	if loaded.TopologyFile != rc.TopologyFile || loaded.Variant != rc.Variant || loaded.K != rc.K {
		t.Fatalf("round-tripped config = %+v, want %+v", loaded, rc)
	}
}

func TestRunConfigJSONRoundTrip(t *testing.T) {
	rc := DefaultRunConfig()
	rc.TopologyFile = "topo.csv"

	path := filepath.Join(t.TempDir(), "config.json")
	if err := rc.WriteToFile(path); err != nil {
		t.Fatalf("WriteToFile() error: %v", err)
	}

	loaded, err := ReadRunConfig(path)
	if err != nil {
		t.Fatalf("ReadRunConfig() error: %v", err)
	}
	if loaded.TopologyFile != rc.TopologyFile {
		t.Fatalf("round-tripped config TopologyFile = %q, want %q", loaded.TopologyFile, rc.TopologyFile)
	}
}
