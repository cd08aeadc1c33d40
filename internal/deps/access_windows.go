//go:build windows

package deps

func isExecutable(string) bool { return true }
