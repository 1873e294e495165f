// Package main runs the gitstate API: per-session git repositories queried
// through parsed `git log` and `git status` output.
package main

import "github.com/gitstate/gitstate/internal"

func main() {
	internal.Run()
}
