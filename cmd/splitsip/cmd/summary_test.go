package cmd

import (
	"bytes"
	"testing"

	"github.com/oneconcern/splitsip/pkg/copier"
	"github.com/oneconcern/splitsip/pkg/splitter"
	"github.com/stretchr/testify/assert"
)

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, &splitter.Result{Outcome: splitter.OutcomeNoSplit, Objects: 2})
	assert.Empty(t, buf.String())

	printSummary(&buf, nil)
	assert.Empty(t, buf.String())

	printSummary(&buf, &splitter.Result{
		Outcome: splitter.OutcomeSplit,
		Objects: 3,
		Packages: []splitter.PackageResult{
			{Name: "p01", Path: "/out/p01", Objects: []string{"a", "b"}, MetadataRows: 2},
			{Name: "p02", Path: "/out/p02", Objects: []string{"c"}, MetadataRows: 0, Missing: []string{"c"}},
		},
		Stats: copier.Stats{Files: 6, Bytes: 2000},
	})
	out := buf.String()
	assert.Contains(t, out, "PACKAGE")
	assert.Contains(t, out, "/out/p02")
	assert.Contains(t, out, "6 files copied (2kB), 0 up to date")
}

func TestSetDefaultsFromConfig(t *testing.T) {
	resetFlags()
	defer resetFlags()
	a := assert.New(t)

	a.NoError(rootCmd.ParseFlags([]string{"--prefix", "cli_"}))
	var flags flagsT
	flags.split.Prefix = "cli_"
	flags.setDefaultsFromConfig(rootCmd, &CLIConfig{
		MaxObjects:      7,
		CSVDelimiter:    ";",
		OutputDelimiter: ",",
		Prefix:          "cfg_",
		Copier:          copierRsync,
		LogLevel:        "debug",
	})
	a.Equal(7, flags.split.MaxObjects)
	a.Equal(";", flags.split.CSVDelimiter)
	a.Equal("cli_", flags.split.Prefix)
	a.Equal(copierRsync, flags.copy.Copier)
	a.Equal("debug", flags.root.logLevel)

	flags.setDefaultsFromConfig(rootCmd, nil)
	a.Equal(7, flags.split.MaxObjects)
}
