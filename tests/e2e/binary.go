package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// FindProjectBinary locates the agchat binary under test. AGCHAT_BINARY wins,
// then ./bin/agchat walking up from the working directory, then PATH.
func FindProjectBinary() (string, error) {
	if bin := os.Getenv("AGCHAT_BINARY"); bin != "" {
		return bin, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, "bin", "agchat")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if bin, err := exec.LookPath("agchat"); err == nil {
		return bin, nil
	}
	return "", fmt.Errorf("agchat binary not found; build it into ./bin or set AGCHAT_BINARY")
}
