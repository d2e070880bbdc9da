package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/josephlewis42/liteshell/core/vos"
)

// ErrMissingPath is returned when the search path variable isn't set.
var ErrMissingPath = errors.New("search path is not set")

// AugmentPath appends each of dirs to the search path variable key, each one
// preceded by sep, and returns the new value.
//
// A missing variable is treated as empty. The new value is still written and
// the returned error wraps ErrMissingPath.
func AugmentPath(env vos.VEnv, key, sep string, dirs []string) (string, error) {
	base, found := env.LookupEnv(key)

	var sb strings.Builder
	sb.WriteString(base)
	for _, dir := range dirs {
		sb.WriteString(sep)
		sb.WriteString(dir)
	}
	path := sb.String()

	if err := env.Setenv(key, path); err != nil {
		return base, fmt.Errorf("setting %s: %w", key, err)
	}

	if !found {
		return path, fmt.Errorf("%s: %w", key, ErrMissingPath)
	}
	return path, nil
}
