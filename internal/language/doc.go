// Package language maps the language codes reported by track analyzers to
// human-readable display names.
package language
