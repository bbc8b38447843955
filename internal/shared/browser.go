package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// browserLaunchers maps GOOS to the command that opens a URL in the default browser.
var browserLaunchers = map[string][]string{
	"darwin":  {"open"},
	"linux":   {"xdg-open"},
	"freebsd": {"xdg-open"},
	"openbsd": {"xdg-open"},
	"windows": {"rundll32", "url.dll,FileProtocolHandler"},
}

// OpenBrowser starts the platform's URL launcher for url and returns without waiting for it.
func OpenBrowser(url string) error {
	rt := getRuntime()
	launcher, ok := browserLaunchers[rt]
	if !ok {
		return fmt.Errorf("%w: unsupported platform: %s", ErrNotImplemented, rt)
	}

	args := append(launcher[1:len(launcher):len(launcher)], url)
	if err := exec.Command(launcher[0], args...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
