package domain

import (
	"fmt"
	"regexp"
)

// Visit is the counter kept for one key.
type Visit struct {
	Key   string
	Count int64
}

var keyRe = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{0,63}$`)

// ValidateKey accepts lowercase keys of up to 64 characters.
func ValidateKey(key string) error {
	if !keyRe.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
