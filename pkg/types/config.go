package types

// BuildConfig holds settings for the external Isabelle invocation.
type BuildConfig struct {
	// Binary is the isabelle executable name or path (default "isabelle").
	Binary string `json:"binary" yaml:"binary"`

	// Library selects HOL-Library instead of HOL as the session parent
	// when a ROOT file is synthesized for a single-file run.
	Library bool `json:"library" yaml:"library"`

	// QuickAndDirty passes the quick_and_dirty option to the build,
	// skipping proof checking.
	QuickAndDirty bool `json:"quick_and_dirty" yaml:"quick_and_dirty"`
}

// ExtractConfig holds settings for one extraction run.
type ExtractConfig struct {
	Build BuildConfig `json:"build" yaml:"build"`

	// Input is the theory file or session directory to process.
	Input string `json:"input" yaml:"input"`

	// Output is the path the snippet file is written to.
	Output string `json:"output" yaml:"output"`

	// Theories optionally restricts directory runs to the named theories.
	// Empty means every .thy file found.
	Theories []string `json:"theories,omitempty" yaml:"theories,omitempty"`

	// SymbolsFile is an optional YAML file of symbol-table overrides.
	SymbolsFile string `json:"symbols_file,omitempty" yaml:"symbols_file,omitempty"`

	// IndexDir is the directory holding the snippet index database.
	// Empty disables the index.
	IndexDir string `json:"index_dir,omitempty" yaml:"index_dir,omitempty"`

	// KeepWorkDir keeps the temporary session directory for inspection.
	KeepWorkDir bool `json:"keep_work_dir" yaml:"keep_work_dir"`
}
