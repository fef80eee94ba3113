//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Run builds the CLI and processes one pending job.
func Run() error {
	mg.Deps(Build)
	return sh.RunV("./" + binDir + "/" + binName)
}

// Migrate builds the CLI and applies the Postgres job store schema.
func Migrate() error {
	mg.Deps(Build)
	return sh.RunV("./"+binDir+"/"+binName, "migrate")
}

// Jobs builds the CLI and lists the job store contents.
func Jobs() error {
	mg.Deps(Build)
	return sh.RunV("./"+binDir+"/"+binName, "jobs")
}
