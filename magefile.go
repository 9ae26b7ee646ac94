//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target to run when no target is specified.
var Default = Test

// Test runs the full unit test suite.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// TestRace runs the suite with the race detector enabled, since
// CachedSource's singleflight-backed memoization and the pooled column
// indexers in internal/colindex are the two places this module shares
// mutable state across goroutines.
func TestRace() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Bench runs every benchmark with allocation reporting.
func Bench() error {
	return sh.RunV("go", "test", "-run=^$", "-bench=.", "-benchmem", "./...")
}

// Vet runs go vet across the module.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// CI runs Vet and TestRace in sequence, the gate a PR has to clear.
func CI() {
	mg.SerialDeps(Vet, TestRace)
	fmt.Println("ci: ok")
}
