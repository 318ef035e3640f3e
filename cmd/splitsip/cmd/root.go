// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/oneconcern/splitsip/pkg/copier"
	"github.com/oneconcern/splitsip/pkg/copier/localfs"
	"github.com/oneconcern/splitsip/pkg/copier/rsync"
	"github.com/oneconcern/splitsip/pkg/dlogger"
	"github.com/oneconcern/splitsip/pkg/metadata"
	"github.com/oneconcern/splitsip/pkg/sip"
	"github.com/oneconcern/splitsip/pkg/splitter"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "splitsip <source_sip> <target_dir>",
	Short: "splitsip splits a submission information package into smaller packages",
	Long: `splitsip splits a submission information package (SIP) into several packages,
each holding no more than --max_objects objects.

The source SIP is expected to hold:
  metadata/metadata.csv
  metadata/submissionDocumentation/
  objects/edited/<object>/
  objects/unedited/<object>/

Objects are the folders found under objects/edited. Each produced package gets a copy of the
submission documentation, the edited and unedited folders of its objects, and the rows of
metadata.csv describing its objects.

The source SIP is never modified. Folders are copied like "rsync --archive" would: files already
up to date in the target are not copied again, so a split may be safely run again.
However, rows are appended to the metadata.csv of produced packages, so running a split again
duplicates these rows.

Example:
  splitsip --prefix="Foobar_" /var/archivematica/sources/Foobar-SIP/ /var/archivematica/sources/Foobar-SIP-splitted/
`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		splitFlags.setDefaultsFromConfig(cmd, config)

		logger, err := dlogger.GetLogger(splitFlags.root.logLevel)
		if err != nil {
			wrapFatalln("failed to set log level", err)
			return
		}
		defer func() { _ = logger.Sync() }()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		result, s, err := runSplit(ctx, cmd, args[0], args[1], logger)
		if err != nil {
			wrapFatalln("split failed", err)
			return
		}

		if splitFlags.split.Report != "" {
			if err = s.Report(result).WriteFile(afero.NewOsFs(), splitFlags.split.Report); err != nil {
				wrapFatalln("write report", err)
				return
			}
			infoLogger.Println("Report written to", splitFlags.split.Report)
		}
		printSummary(cmd.OutOrStdout(), result)
	},
}

var config *CLIConfig

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		osExit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	addMaxObjectsFlag(rootCmd)
	addCSVDelimiterFlag(rootCmd)
	addOutputDelimiterFlag(rootCmd)
	addPrefixFlag(rootCmd)
	addReportFlag(rootCmd)
	addCopierFlag(rootCmd)
	addChecksumFlag(rootCmd)
	addRsyncBinaryFlag(rootCmd)
	addLogLevel(rootCmd)
	rootCmd.SetGlobalNormalizationFunc(normalizeFlagName)

	rootCmd.Version = NewVersionInfo().Version
	rootCmd.SetVersionTemplate(NewVersionInfo().String())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.Reset()
	setConfigDefaults()
	if os.Getenv("SPLITSIP_CONFIG") != "" {
		// Use config file from the env.
		viper.SetConfigFile(os.Getenv("SPLITSIP_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.splitsip")
		viper.AddConfigPath("/etc/splitsip")
		viper.SetConfigName("splitsip")
	}

	viper.SetEnvPrefix("splitsip")
	viper.AutomaticEnv() // read in environment variables that match
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		infoLogger.Println("Using config file:", viper.ConfigFileUsed())
	} else if os.Getenv("SPLITSIP_CONFIG") != "" {
		wrapFatalln("read config file", err)
		return
	}
	var err error
	config, err = newConfig()
	if err != nil {
		wrapFatalln("decode config", err)
	}
}

// runSplit loads the metadata index of the source package, then splits it into the target directory
func runSplit(ctx context.Context, cmd *cobra.Command, sourceArg, targetArg string, logger *zap.Logger) (*splitter.Result, *splitter.Splitter, error) {
	source, err := sanitizePath(sourceArg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to sanitize source: %s: %w", sourceArg, err)
	}
	if err = requireDirectory(source); err != nil {
		return nil, nil, err
	}
	target, err := sanitizePath(targetArg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to sanitize target: %s: %w", targetArg, err)
	}
	inputDelimiter, err := metadata.ParseDelimiter(splitFlags.split.CSVDelimiter)
	if err != nil {
		return nil, nil, fmt.Errorf("--csv-delimiter: %w", err)
	}
	outputDelimiter, err := metadata.ParseDelimiter(splitFlags.split.OutputDelimiter)
	if err != nil {
		return nil, nil, fmt.Errorf("--output-delimiter: %w", err)
	}

	fs := afero.NewOsFs()
	src := sip.NewSource(fs, source)
	index, err := metadata.Load(fs, src.MetadataCSV(), inputDelimiter)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("indexed metadata", zap.String("csv", src.MetadataCSV()), zap.Int("rows", index.Len()))

	treeCopier, err := newTreeCopier(fs, logger)
	if err != nil {
		return nil, nil, err
	}

	s, err := splitter.New(src, target, index,
		splitter.FS(fs),
		splitter.MaxObjects(splitFlags.split.MaxObjects),
		splitter.Prefix(splitFlags.split.Prefix),
		splitter.OutputDelimiter(outputDelimiter),
		splitter.TreeCopier(treeCopier),
		splitter.Output(cmd.OutOrStdout()),
		splitter.Logger(logger),
	)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("splitting package",
		zap.String("source", source),
		zap.String("target", target),
		zap.Int("max objects", splitFlags.split.MaxObjects),
		zap.Stringer("copier", treeCopier),
	)

	result, err := s.Run(ctx)
	return result, s, err
}

func newTreeCopier(fs afero.Fs, logger *zap.Logger) (copier.TreeCopier, error) {
	switch splitFlags.copy.Copier {
	case copierNative:
		return localfs.New(fs,
			localfs.Checksum(splitFlags.copy.Checksum),
			localfs.Logger(logger),
		), nil
	case copierRsync:
		c := rsync.New(
			rsync.Binary(splitFlags.copy.RsyncBinary),
			rsync.Checksum(splitFlags.copy.Checksum),
			rsync.Logger(logger),
		)
		if err := c.Available(); err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown copier %q: expected %q or %q", splitFlags.copy.Copier, copierNative, copierRsync)
	}
}
