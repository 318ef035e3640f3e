// Copyright © 2018 One Concern

package cmd

import (
	"fmt"
	"io"

	"github.com/gosuri/uitable"
	"github.com/oneconcern/splitsip/pkg/splitter"
)

// printSummary lists the packages produced by a split
func printSummary(w io.Writer, result *splitter.Result) {
	if result == nil || result.Outcome != splitter.OutcomeSplit {
		return
	}
	table := uitable.New()
	table.MaxColWidth = 80
	table.AddRow("PACKAGE", "OBJECTS", "METADATA ROWS", "PATH")
	for _, pkg := range result.Packages {
		table.AddRow(pkg.Name, len(pkg.Objects), pkg.MetadataRows, pkg.Path)
	}
	_, _ = fmt.Fprintln(w, table)
	_, _ = fmt.Fprintln(w, result.Stats)
}
