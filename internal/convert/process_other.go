// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build !unix

package convert

import "os/exec"

// setProcessGroup leaves cmd unchanged. Cancellation kills only the direct
// child; waitDelay still bounds the wait for descendants.
func setProcessGroup(cmd *exec.Cmd) {}
