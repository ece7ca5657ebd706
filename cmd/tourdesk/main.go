package main

import (
	"os"
	"strings"

	"tourdesk/internal/cli"
	"tourdesk/internal/entity"
)

var pageVerbs = map[string]bool{
	"list":   true,
	"show":   true,
	"create": true,
	"edit":   true,
	"delete": true,
	"help":   true,
}

var listFlags = map[string]bool{
	"--search": true,
	"--sort":   true,
	"--order":  true,
}

// rewritePageArgs expands page shorthands before cobra parses argv:
//
//	tourdesk customers            -> tourdesk customers list
//	tourdesk customers <id>       -> tourdesk customers show <id>
//	tourdesk /hotel-bookings ...  -> tourdesk hotel-bookings ...
func rewritePageArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--base-url":  true,
		"--token":     true,
		"--format":    true,
		"--log-level": true,
		"--log-file":  true,
		"--timeout":   true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}

		// First positional token.
		def, ok := entity.Lookup(a)
		if !ok || strings.Contains(a, " ") {
			return argv
		}
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, def.Name)
		rest := argv[i+1:]

		next := -1
		for j := 0; j < len(rest); j++ {
			r := rest[j]
			if strings.HasPrefix(r, "-") {
				if !strings.Contains(r, "=") && (valueFlags[r] || listFlags[r]) {
					j++
				}
				continue
			}
			next = j
			break
		}
		switch {
		case next < 0:
			out = append(out, "list")
		case !pageVerbs[rest[next]]:
			out = append(out, "show")
		}
		return append(out, rest...)
	}
	return argv
}

func main() {
	os.Args = rewritePageArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
