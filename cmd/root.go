// Package cmd wires the tintex command line interface.
package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/softquill/tintex/internal/config"
	"github.com/softquill/tintex/internal/log"
)

var (
	version  = "dev"
	cfgFile  string
	debug    bool
	cfg      config.Config
	closeLog = func() {}
)

var rootCmd = &cobra.Command{
	Use:     "tintex",
	Short:   "Render highlight markers to typeset wrapper markup",
	Long: `Tintex converts marker-annotated documents into typeset wrapper markup.

Highlight start/end markers and annotation markers embedded in the text
become nested fill and stroke wrappers plus margin notes, driven by a
YAML sidecar that carries each highlight's style, note, and author.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/tintex/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"enable debug logging")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("palette", defaults.Palette)
	viper.SetDefault("output.extension", defaults.Output.Extension)
	viper.SetDefault("output.preamble", defaults.Output.Preamble)
	viper.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .tintex/config.yaml (current directory)
		// 2. ~/.config/tintex/config.yaml (user config)
		if _, err := os.Stat(".tintex/config.yaml"); err == nil {
			viper.SetConfigFile(".tintex/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "tintex"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// Missing config is fine; run with defaults.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.ErrorErr(log.CatConfig, "Failed to read config", err)
		}
	}

	_ = viper.Unmarshal(&cfg)
	initLogging()
}

func initLogging() {
	logPath := cfg.LogFile
	if logPath == "" {
		logPath = config.DefaultLogFilePath()
	}
	if logPath == "" {
		return
	}
	closer, err := log.Init(logPath)
	if err != nil {
		return
	}
	closeLog = closer
	if cfg.Debug {
		log.SetEnabled(true)
		log.SetMinLevel(log.LevelDebug)
	}
}

// Execute runs the root command.
func Execute() error {
	defer closeLog()
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
