package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"trackmix/internal/services"
)

// goos is swapped by tests to exercise the Windows suffix rules.
var goos = runtime.GOOS

// Candidates yields the paths a tool may live at, most preferred first.
type Candidates func(name string) []string

// Dir searches a single directory, trying the platform executable suffix
// first where one applies.
func Dir(dir string) Candidates {
	dir = strings.TrimSpace(dir)
	return func(name string) []string {
		if dir == "" {
			return nil
		}
		if goos == "windows" && !strings.EqualFold(filepath.Ext(name), ".exe") {
			return []string{filepath.Join(dir, name+".exe"), filepath.Join(dir, name)}
		}
		return []string{filepath.Join(dir, name)}
	}
}

// SystemPath defers to the PATH lookup of the host.
func SystemPath() Candidates {
	return func(name string) []string {
		path, err := exec.LookPath(name)
		if err != nil {
			return nil
		}
		return []string{path}
	}
}

// Locator resolves external executables through an ordered chain of
// candidate generators. Successful lookups are cached per name.
type Locator struct {
	chain []Candidates

	mu    sync.RWMutex
	cache map[string]string
}

// NewLocator builds a locator that evaluates the chain in order.
func NewLocator(chain ...Candidates) *Locator {
	filtered := make([]Candidates, 0, len(chain))
	for _, c := range chain {
		if c != nil {
			filtered = append(filtered, c)
		}
	}
	return &Locator{chain: filtered, cache: make(map[string]string)}
}

// Options selects which locations a configured locator searches.
type Options struct {
	ResourceDir   string
	DevToolsDir   string
	Development   bool
	UseSystemPath bool
}

// NewFromOptions wires the packaged directory, the development directory
// (development mode only) and, optionally, the system PATH.
func NewFromOptions(opts Options) *Locator {
	chain := []Candidates{Dir(opts.ResourceDir)}
	if opts.Development {
		chain = append(chain, Dir(opts.DevToolsDir))
	}
	if opts.UseSystemPath {
		chain = append(chain, SystemPath())
	}
	return NewLocator(chain...)
}

// Resolve returns the absolute path of the first candidate that exists.
func (l *Locator) Resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", services.Wrap(services.ErrValidation, "deps", "resolve tool", "tool name is empty", nil)
	}

	l.mu.RLock()
	cached, ok := l.cache[name]
	l.mu.RUnlock()
	if ok {
		return cached, nil
	}

	searched := make([]string, 0, len(l.chain)*2)
	for _, generate := range l.chain {
		for _, candidate := range generate(name) {
			searched = append(searched, candidate)
			info, err := os.Stat(candidate)
			if err != nil || info.IsDir() {
				continue
			}
			resolved, err := filepath.Abs(candidate)
			if err != nil {
				resolved = candidate
			}
			l.mu.Lock()
			l.cache[name] = resolved
			l.mu.Unlock()
			return resolved, nil
		}
	}

	message := fmt.Sprintf("%s not found", name)
	if len(searched) > 0 {
		message += " (searched " + strings.Join(searched, ", ") + ")"
	}
	return "", services.Wrap(services.ErrToolNotFound, "deps", "resolve tool", message, nil)
}
