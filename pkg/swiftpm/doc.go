// Package swiftpm drives SwiftPM builds of sourcekit-lsp the way the Swift build-script expects them.
// It assembles the flags and environment for `swift build` / `swift test`, runs them through an embedded
// shell interpreter (mvdan.cc/sh) and optionally repeats the whole action once per sanitizer.
package swiftpm
