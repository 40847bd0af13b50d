// Command library runs the library circulation service.
//
//	library serve          start the HTTP API, the staff pages, and the overdue sweep
//	library migrate        create the events table of the configured store
//	library create-admin   open the first Admin staff account
//
// Every setting can be given as a flag, a LIBRARY_* environment variable, a .env entry,
// or a key in the YAML file named by --config.
package main

import (
	"os"
	_ "time/tzdata" // timezone setting works without a system zoneinfo
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
