package config

type extractorsConfig struct {
	PluginEnable bool     `toml:"plugin_enable" mapstructure:"plugin_enable" json:"plugin_enable"`
	PluginDirs   []string `toml:"plugin_dirs" mapstructure:"plugin_dirs" json:"plugin_dirs"`
	// Per extractor sections such as [extractors.generic], keyed by name.
	Configs map[string]map[string]any `mapstructure:",remain" json:"configs"`
}

func (c Config) GetExtractorConfigByName(name string) map[string]any {
	if c.Extractors.Configs == nil {
		return nil
	}
	return c.Extractors.Configs[name]
}
