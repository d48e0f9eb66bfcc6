package swiftpm

import (
	"fmt"
	"path/filepath"
)

// Sanitizer names one of the runtime instrumentation modes SwiftPM understands.
type Sanitizer string

const (
	SanitizerAddress   Sanitizer = "address"
	SanitizerThread    Sanitizer = "thread"
	SanitizerUndefined Sanitizer = "undefined"
)

// AllSanitizers lists every sanitizer in the order --sanitize-all runs them.
var AllSanitizers = []Sanitizer{SanitizerAddress, SanitizerThread, SanitizerUndefined}

// ParseSanitizer validates a --sanitize value.
func ParseSanitizer(name string) (Sanitizer, error) {
	for _, san := range AllSanitizers {
		if string(san) == name {
			return san, nil
		}
	}

	return "", configErrorf("unknown sanitizer '%s' (expected address, thread or undefined)", name)
}

// ShortName returns the abbreviation used for per-sanitizer build directories (asan, tsan, ubsan).
func (s Sanitizer) ShortName() string {
	switch s {
	case SanitizerAddress:
		return "asan"
	case SanitizerThread:
		return "tsan"
	case SanitizerUndefined:
		return "ubsan"
	default:
		return string(s)
	}
}

// SupportedOn reports whether --sanitize-all should run this sanitizer on the given platform.
// UBSan is broken on Linux (SR-12550).
func (s Sanitizer) SupportedOn(p Platform) bool {
	return !(s == SanitizerUndefined && p == PlatformLinux)
}

// Flag returns the SwiftPM flag enabling this sanitizer.
func (s Sanitizer) Flag() string {
	return fmt.Sprintf("--sanitize=%s", s)
}

// runtimeOptions returns the name and value of the environment variable configuring the sanitizer runtime.
func (s Sanitizer) runtimeOptions(packagePath string, profile *Profile) (string, string) {
	switch s {
	case SanitizerAddress:
		// Foundation reports leaks we can't do anything about (SR-12551).
		return "ASAN_OPTIONS", "detect_leaks=false"
	case SanitizerUndefined:
		supp := filepath.Join(packagePath, filepath.FromSlash(profile.UBSanSuppressions))
		return "UBSAN_OPTIONS", fmt.Sprintf("halt_on_error=true,suppressions=%s", supp)
	case SanitizerThread:
		return "TSAN_OPTIONS", "halt_on_error=true"
	}

	return "", ""
}
