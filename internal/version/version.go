// Package version reports the build version of the crmpro binaries.
package version

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
)

// Version is set at build time with -ldflags "-X ...version.Version=v1.2.3".
var Version = ""

// String returns the build version, falling back to the module version
// recorded by the Go toolchain.
func String() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

// WriteVersion prints the program name and version to w.
func WriteVersion(w io.Writer) {
	fmt.Fprintf(w, "%s version %s\n", progName(), String()) //nolint:errcheck
}

// ShowVersion prints the version to stdout.
func ShowVersion() {
	WriteVersion(os.Stdout)
}

func progName() string {
	if len(os.Args) == 0 {
		return "crmpro"
	}
	name := os.Args[0]
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '/' {
			return name[i+1:]
		}
	}
	return name
}
