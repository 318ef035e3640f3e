// Copyright © 2018 One Concern

package main

import (
	"github.com/oneconcern/splitsip/cmd/splitsip/cmd"
)

func main() {
	cmd.Execute()
}
