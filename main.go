// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/jcodagnone/polyfix/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
