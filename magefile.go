//go:build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binaryName = "ruverbs"

// Default target to run when none is specified
var Default = Build

// Build builds the ruverbs binary
func Build() error {
	return sh.RunV("go", "build", "-o", binaryName, "./cmd/ruverbs")
}

// Test runs all tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet on all packages
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install installs the binary into $GOPATH/bin
func Install() error {
	mg.Deps(Build)

	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}

	dest := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dest, binaryName)
}

// Clean removes the binary and generated decks
func Clean() error {
	for _, path := range []string{binaryName, "Russian_Verbs_1000_Literal.apkg", "russian_verbs_1000.csv"} {
		if err := os.RemoveAll(path); err != nil {
			return err
		}
	}
	return os.RemoveAll("Russian_Verbs_1000_Literal_media")
}
