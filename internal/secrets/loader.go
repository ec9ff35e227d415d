package secrets

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrNotConfigured is returned when no source yields a secret.
var ErrNotConfigured = eris.New("secret is not configured")

// Source describes where an API key may come from.
type Source struct {
	// Name gives error messages some context, e.g. "gemini api key".
	Name string
	// Value is an inline secret from configuration or flags.
	Value string
	// File points to a file holding the secret. It wins over Value and Env.
	File string
	// Env names an environment variable consulted last.
	Env string
}

// Load resolves the secret with File taking precedence over Value, and Value
// over Env. The result is trimmed.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", eris.Wrapf(err, "reading %s from file %q", name, file)
		}
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", eris.Errorf("%s file %q is empty", name, file)
		}
		return secret, nil
	}

	if secret := strings.TrimSpace(src.Value); secret != "" {
		return secret, nil
	}

	if env := strings.TrimSpace(src.Env); env != "" {
		if secret := strings.TrimSpace(os.Getenv(env)); secret != "" {
			return secret, nil
		}
	}

	return "", eris.Wrap(ErrNotConfigured, name)
}
