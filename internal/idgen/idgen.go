// Package idgen provides short, URL-safe ids for list entries of the site
// document, backed by nanoid.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for each list of the site document, and for contact messages.
const (
	ServicePrefix     = "svc-"
	ProjectPrefix     = "prj-"
	TestimonialPrefix = "tst-"
	MessagePrefix     = "msg-"
)

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters generated (excluding the prefix).
var Length = 8

// maxAttempts bounds Unique when the taken set is adversarial.
const maxAttempts = 16

// GenerateWithPrefix returns a new id with the given prefix.
func GenerateWithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}

// Unique returns a prefixed id for which taken reports false.
func Unique(prefix string, taken func(string) bool) (string, error) {
	for range maxAttempts {
		id, err := GenerateWithPrefix(prefix)
		if err != nil {
			return "", err
		}
		if taken == nil || !taken(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("idgen: no free id with prefix %q after %d attempts", prefix, maxAttempts)
}
