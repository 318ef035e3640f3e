// Copyright © 2018 One Concern

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CLIConfig describes the CLI configuration, from a config file or SPLITSIP_* environment variables.
type CLIConfig struct {
	// bug in viper? Need to keep names of fields the same as the serialized names..
	MaxObjects      int    `json:"max_objects" yaml:"max_objects" mapstructure:"max_objects"`
	CSVDelimiter    string `json:"csv_delimiter" yaml:"csv_delimiter" mapstructure:"csv_delimiter"`
	OutputDelimiter string `json:"output_delimiter" yaml:"output_delimiter" mapstructure:"output_delimiter"`
	Prefix          string `json:"prefix" yaml:"prefix" mapstructure:"prefix"`
	Copier          string `json:"copier" yaml:"copier" mapstructure:"copier"`
	Checksum        bool   `json:"checksum" yaml:"checksum" mapstructure:"checksum"`
	RsyncBinary     string `json:"rsync_binary" yaml:"rsync_binary" mapstructure:"rsync_binary"`
	LogLevel        string `json:"loglevel" yaml:"loglevel" mapstructure:"loglevel"`
}

func setConfigDefaults() {
	viper.SetDefault("max_objects", defaultMaxObjects)
	viper.SetDefault("csv_delimiter", defaultDelimiter)
	viper.SetDefault("output_delimiter", defaultDelimiter)
	viper.SetDefault("prefix", "")
	viper.SetDefault("copier", defaultCopier)
	viper.SetDefault("checksum", false)
	viper.SetDefault("rsync_binary", "rsync")
	viper.SetDefault("loglevel", defaultLogLevel)
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// apply config file + env vars to flags not set on the command line
func (flags *flagsT) setDefaultsFromConfig(cmd *cobra.Command, c *CLIConfig) {
	if c == nil {
		return
	}
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if !changed("max_objects") {
		flags.split.MaxObjects = c.MaxObjects
	}
	if !changed("csv-delimiter") {
		flags.split.CSVDelimiter = c.CSVDelimiter
	}
	if !changed("output-delimiter") {
		flags.split.OutputDelimiter = c.OutputDelimiter
	}
	if !changed("prefix") {
		flags.split.Prefix = c.Prefix
	}
	if !changed("copier") {
		flags.copy.Copier = c.Copier
	}
	if !changed("checksum") {
		flags.copy.Checksum = c.Checksum
	}
	if !changed("rsync-binary") {
		flags.copy.RsyncBinary = c.RsyncBinary
	}
	if !changed("loglevel") {
		flags.root.logLevel = c.LogLevel
	}
}
