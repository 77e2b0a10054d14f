// Package hints appends a remedy to common CLI errors. Every hint reads
// "\n  hint: <text>" so it can be concatenated onto an error message.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-marksheet/internal/fileutil"
)

// IsInContainer reports whether the process runs in a Docker-like
// container.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ciVars are set by the CI systems we know about.
var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"}

// ForBrowserConnect explains how to get the browser backend running, or
// how to avoid it.
func ForBrowserConnect() string {
	return browserConnect(os.Getenv, IsInContainer())
}

func browserConnect(getenv func(string) string, inContainer bool) string {
	var hints []string

	sandboxed := inContainer
	for _, v := range ciVars {
		if getenv(v) != "" {
			sandboxed = true
			break
		}
	}
	if sandboxed && getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 in containers and CI")
	}
	if getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to an installed Chrome")
	}
	hints = append(hints, "or use --backend fpdf, which needs no browser")
	return formatHints(hints)
}

// ForTimeout suggests more time or fewer concurrent browsers.
func ForTimeout() string {
	return format("raise --timeout for large batches, or lower --workers")
}

// ForConfigNotFound suggests --config, or the user config path among
// searchedPaths when there is one.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(p, "go-marksheet") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory is attached to failed PDF writes.
func ForOutputDirectory() string {
	return format("check the output directory exists or can be created, and is writable")
}

// ForStyleNotFound lists the styles that do exist.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available styles: " + strings.Join(available, ", "))
}

// ForLayoutOverflow is attached when course columns do not fit the page.
// It points at the widest page first.
func ForLayoutOverflow(paperSize, orientation string) string {
	if strings.EqualFold(paperSize, "legal") && strings.EqualFold(orientation, "landscape") {
		return format("split the course list into several rosters or reduce left_margin and right_margin")
	}
	return format("use paper_size: Legal and orientation: landscape in the template settings")
}

// ForSettingsNotFound is attached when no template resolves.
func ForSettingsNotFound(institution string) string {
	if institution == "" {
		return format("set --institution or MARKSHEET_INSTITUTION")
	}
	return format("add an active template of type \"default\" for " + institution)
}

// ForImage is attached to unreadable logos and photos.
func ForImage() string {
	return format("use PNG, JPG or GIF files; relative paths start at the roster file")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	return format(strings.Join(hints, "; "))
}
