package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps flag names to the config keys they override.
var flagKeys = map[string]string{
	"log-level":       "log.level",
	"proxy":           "proxy",
	"strict":          "extract.strict",
	"plugin-dirs":     "extractors.plugin_dirs",
	"host":            "server.host",
	"port":            "server.port",
	"cors-origins":    "server.cors_origins",
	"archive-workers": "archive.workers",
}

// RegisterFlags adds the flags shared by every command.
func RegisterFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringP("config", "c", "", "config file path")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("proxy", "", "proxy URL for upstream requests (http, https, socks5, socks5h)")
	flags.Bool("strict", false, "reject urls without a dedicated extractor")
	flags.StringSlice("plugin-dirs", nil, "extractor plugin directories")
}

// RegisterServeFlags adds the flags of the server.
func RegisterServeFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.String("host", "", "listen host")
	flags.IntP("port", "p", 0, "listen port")
	flags.StringSlice("cors-origins", nil, "allowed CORS origins, * for any")
	flags.Int("archive-workers", 0, "concurrent asset fetches per archive")
}

// BindFlags binds the flags of the command being run to their config keys.
// Only flags set on the command line override the config file.
func BindFlags(cmd *cobra.Command) {
	bind := func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			viper.BindPFlag(key, f)
		}
	}
	cmd.Flags().VisitAll(bind)
	cmd.InheritedFlags().VisitAll(bind)
}

func GetConfigFile(cmd *cobra.Command) string {
	configFile, _ := cmd.Flags().GetString("config")
	return configFile
}
