package config

// Stampfile represents the structure of the vcsstamp.yaml configuration file.
// Every field is optional; empty fields keep the default. BranchEnv is a pointer
// so that an explicit empty name disables the override.
type Stampfile struct {
	Version        string  `yaml:"version"`
	CacheFile      string  `yaml:"cache_file"`
	BranchEnv      *string `yaml:"branch_env"`
	DetachedPolicy string  `yaml:"detached_policy"`
	Git            string  `yaml:"git"`
	HeaderPrefix   string  `yaml:"header_prefix"`
}
