// Package logsetup configures the standard logger. Import it for its
// side effects from every main package.
package logsetup

import (
	"log"
	"os"
)

func init() {
	// journald already timestamps every line
	if os.Getenv("JOURNAL_STREAM") != "" {
		log.SetFlags(0)
		return
	}

	flags := log.LstdFlags
	if os.Getenv("CRMPRO_LOG_SOURCE") != "" {
		flags |= log.Lshortfile
	}
	log.SetFlags(flags)
}
