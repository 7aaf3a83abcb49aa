// Package version holds the release versions of engcalc and its components.
package version

import (
	"fmt"
	"runtime"
)

// Name is the program name shown by the CLI
const Name = "engcalc"

// Version constants for engcalc and its components
const (
	// Release version of the module
	Platform = "0.2.0"

	// Component versions
	Units       = "0.2.0"
	Validation  = "0.2.0"
	Calculation = "0.2.0"
	History     = "0.1.0"
)

// Commit is set at build time via -ldflags "-X .../version.Commit=<sha>"
var Commit = "dev"

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "units":
		return Units
	case "validation":
		return Validation
	case "calculation":
		return Calculation
	case "history":
		return History
	default:
		return Platform
	}
}

// Info returns a one-line version banner
func Info() string {
	return fmt.Sprintf("%s %s (%s, %s %s/%s)",
		Name, Platform, Commit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
