// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Build compiles the switchyard binary into bin/.
func Build() error {
	return sh.RunV("go", "build", "-o", "bin/switchyard", "./cmd/switchyard")
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Install installs switchyard into GOBIN.
func Install() error {
	mg.Deps(Test)
	return sh.RunV("go", "install", "./cmd/switchyard")
}

// Clean removes build artifacts.
func Clean() error {
	return sh.Rm("bin")
}
