package deps

import (
	"errors"
	"fmt"
	"strings"

	"trackmix/internal/services"
)

// Tool roles the pipeline depends on.
const (
	RoleGenericAnalyzer  = "generic analyzer"
	RoleMatroskaAnalyzer = "matroska analyzer"
	RoleMuxer            = "muxer"
)

// Requirement defines an external tool trackmix relies on.
type Requirement struct {
	Role        string
	Command     string
	Description string
}

// Status reports the availability of a tool.
type Status struct {
	Role        string `json:"role"`
	Command     string `json:"command"`
	Description string `json:"description,omitempty"`
	Path        string `json:"path,omitempty"`
	Available   bool   `json:"available"`
	Executable  bool   `json:"executable"`
	Detail      string `json:"detail,omitempty"`
}

// Resolver is satisfied by *Locator.
type Resolver interface {
	Resolve(name string) (string, error)
}

// DefaultRequirements lists the three tools with their configured names.
func DefaultRequirements(ffprobe, mkvIdentify, mkvmerge string) []Requirement {
	return []Requirement{
		{Role: RoleGenericAnalyzer, Command: ffprobe, Description: "Inspects non-Matroska containers"},
		{Role: RoleMatroskaAnalyzer, Command: mkvIdentify, Description: "Identifies Matroska tracks (-J)"},
		{Role: RoleMuxer, Command: mkvmerge, Description: "Builds intermediates and the combined output"},
	}
}

// CheckTools resolves each requirement and reports availability.
func CheckTools(resolver Resolver, requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Role:        req.Role,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := resolver.Resolve(cmd)
		if err != nil {
			if errors.Is(err, services.ErrToolNotFound) {
				status.Detail = fmt.Sprintf("binary %q not found", cmd)
			} else {
				status.Detail = err.Error()
			}
			results = append(results, status)
			continue
		}
		status.Path = path
		status.Available = true
		status.Executable = isExecutable(path)
		if !status.Executable {
			status.Detail = "file is not executable"
		}
		results = append(results, status)
	}
	return results
}

// AllAvailable reports whether every tool resolved and is executable.
func AllAvailable(statuses []Status) bool {
	for _, s := range statuses {
		if !s.Available || !s.Executable {
			return false
		}
	}
	return true
}
