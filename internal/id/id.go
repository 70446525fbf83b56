// Package id generates the short unique strings used to name
// in-flight download temp files.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// suffixLength keeps temp filenames short while leaving collisions
// effectively impossible for the handful of concurrent transfers the
// download managers run.
const suffixLength = 8

// Suffix returns a short URL-safe unique string.
//
// NanoIDs are URL-friendly and compact, and every character is safe in
// a filename on all supported platforms.
//
// Returns an error if the system has insufficient entropy for secure
// random generation.
func Suffix() (string, error) {
	s, err := gonanoid.New(suffixLength)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return s, nil
}
