package platform

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// KaMinParConfig configures the external balanced k-way partitioner call
// (partition.Partitioner), mirroring KaMinParConfig (common/config.rs).
type KaMinParConfig struct {
	Seed    uint64  `yaml:"seed"`
	Epsilon float64 `yaml:"epsilon"`
	Threads uint32  `yaml:"nthreads"`
}

// DefaultKaMinParConfig matches the original's Default impl.
func DefaultKaMinParConfig() KaMinParConfig {
	return KaMinParConfig{Seed: 123, Epsilon: 0.03, Threads: 16}
}

// CompilerConfig holds top-level driver settings, mirroring CompilerConfig
// (common/config.rs).
type CompilerConfig struct {
	TopModule        string `yaml:"top_module"`
	OutputDir        string `yaml:"output_dir"`
	DbgTailLength    uint32 `yaml:"dbg_tail_length"`
	DbgTailThreshold uint32 `yaml:"dbg_tail_threshold"`
}

// DefaultCompilerConfig mirrors the original CLI's default flag values
// (Args::dbg_tail_length, Args::dbg_tail_threshold).
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{DbgTailLength: 10, DbgTailThreshold: 5}
}

// FileConfig is the top-level YAML document shape consumed by `beec`,
// following the teacher's YAMLRoot/LoadProgramFileFromYAML pattern
// (core/program.go) of one struct mirroring the on-disk layout exactly.
type FileConfig struct {
	Platform Config         `yaml:"platform"`
	Compiler CompilerConfig `yaml:"compiler"`
	KaMinPar KaMinParConfig `yaml:"kaminpar"`
}

// LoadFileConfig reads a FileConfig from a YAML file, defaulting any
// section left absent from the document.
func LoadFileConfig(path string) (FileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("platform: read config %s: %w", path, err)
	}

	fc := FileConfig{
		Platform: Default(),
		Compiler: DefaultCompilerConfig(),
		KaMinPar: DefaultKaMinParConfig(),
	}
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return FileConfig{}, fmt.Errorf("platform: parse config %s: %w", path, err)
	}
	fc.Platform.Topology = NewGlobalNetworkTopology(fc.Platform.NumMods, fc.Platform.NumProcs)
	return fc, nil
}
