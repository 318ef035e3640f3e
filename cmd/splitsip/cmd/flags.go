// Copyright © 2018 One Concern

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	defaultMaxObjects = 100
	defaultDelimiter  = ","
	defaultCopier     = copierNative
	defaultLogLevel   = "info"

	copierNative = "native"
	copierRsync  = "rsync"
)

type flagsT struct {
	split struct {
		MaxObjects      int
		CSVDelimiter    string
		OutputDelimiter string
		Prefix          string
		Report          string
	}
	copy struct {
		Copier      string
		Checksum    bool
		RsyncBinary string
	}
	root struct {
		logLevel string
	}
}

var splitFlags = flagsT{}

func addMaxObjectsFlag(cmd *cobra.Command) string {
	maxObjects := "max_objects"
	cmd.Flags().IntVar(&splitFlags.split.MaxObjects, maxObjects, defaultMaxObjects,
		"The maximum number of objects held by each package")
	return maxObjects
}

func addCSVDelimiterFlag(cmd *cobra.Command) string {
	c := "csv-delimiter"
	cmd.Flags().StringVar(&splitFlags.split.CSVDelimiter, c, defaultDelimiter,
		`The single character separating fields in the source metadata/metadata.csv. Use '\t' for tab`)
	return c
}

func addOutputDelimiterFlag(cmd *cobra.Command) string {
	c := "output-delimiter"
	cmd.Flags().StringVar(&splitFlags.split.OutputDelimiter, c, defaultDelimiter,
		"The single character separating fields in the metadata.csv of produced packages. "+
			"This is independent from --csv-delimiter")
	return c
}

func addPrefixFlag(cmd *cobra.Command) string {
	c := "prefix"
	cmd.Flags().StringVar(&splitFlags.split.Prefix, c, "",
		`The prefix of package folder names, followed by a 2-digit package number (e.g. "Foobar_" yields Foobar_01, Foobar_02...). `+
			`Without a prefix, all packages are written to the same folder named "package"`)
	return c
}

func addReportFlag(cmd *cobra.Command) string {
	c := "report"
	cmd.Flags().StringVar(&splitFlags.split.Report, c, "", "Write a YAML report of the split to this file")
	return c
}

func addCopierFlag(cmd *cobra.Command) string {
	c := "copier"
	cmd.Flags().StringVar(&splitFlags.copy.Copier, c, defaultCopier,
		`How folders are copied: "native" (built-in) or "rsync" (runs rsync --archive)`)
	return c
}

func addChecksumFlag(cmd *cobra.Command) string {
	c := "checksum"
	cmd.Flags().BoolVar(&splitFlags.copy.Checksum, c, false,
		"Compare file checksums rather than size and modification time to skip files already copied")
	return c
}

func addRsyncBinaryFlag(cmd *cobra.Command) string {
	c := "rsync-binary"
	cmd.Flags().StringVar(&splitFlags.copy.RsyncBinary, c, "rsync", "The rsync executable, when --copier=rsync")
	return c
}

func addLogLevel(cmd *cobra.Command) string {
	loglevel := "loglevel"
	cmd.PersistentFlags().StringVar(&splitFlags.root.logLevel, loglevel, defaultLogLevel,
		"The logging level. Levels by increasing order of verbosity: none, error, warn, info, debug")
	return loglevel
}

// normalizeFlagName accepts dashes in place of underscores, e.g. --max-objects
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if name == "max-objects" {
		name = "max_objects"
	}
	return pflag.NormalizedName(name)
}
