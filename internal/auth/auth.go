// Package auth resolves the Gemini API key and checks it against the API.
package auth

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog/log"
)

const (
	// CredentialsEnv overrides the location of the GPG-encrypted key file.
	CredentialsEnv = "SOCIAL_TOOLKIT_CREDENTIALS"

	// PassphraseEnv names a file holding the GPG passphrase for
	// non-interactive decryption.
	PassphraseEnv = "SOCIAL_TOOLKIT_GPG_PASSPHRASE_FILE"

	credentialDir  = ".social-content-toolkit"
	credentialFile = "credentials.gpg"
	passphraseFile = ".gpg-passphrase"
	xdgCredentials = "social-content-toolkit/" + credentialFile
)

// ErrAPIKeyNotFound is returned when no source yields an API key.
var ErrAPIKeyNotFound = errors.New("API key not found. Set GEMINI_API_KEY or store it GPG-encrypted at ~/" + credentialDir + "/" + credentialFile)

// GetAPIKey retrieves the Gemini API key from available sources.
// Priority order:
//  1. GEMINI_API_KEY environment variable
//  2. GPG-encrypted file: $SOCIAL_TOOLKIT_CREDENTIALS, then
//     $XDG_CONFIG_HOME/social-content-toolkit/credentials.gpg, then
//     ~/.social-content-toolkit/credentials.gpg
func GetAPIKey() (string, error) {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		log.Debug().Msg("Using API key from environment variable")
		return key, nil
	}

	credPath, ok := findCredentials()
	if !ok {
		log.Debug().Msg("No GPG credentials file found")
		return "", ErrAPIKeyNotFound
	}
	key, err := decryptKey(credPath)
	if err != nil || key == "" {
		log.Debug().Err(err).Str("file", credPath).Msg("No API key from GPG credentials")
		return "", ErrAPIKeyNotFound
	}
	log.Debug().Str("file", credPath).Msg("Using API key from GPG encrypted file")
	return key, nil
}

// credentialCandidates lists the credential file locations in lookup order.
func credentialCandidates() []string {
	var paths []string
	if p := os.Getenv(CredentialsEnv); p != "" {
		paths = append(paths, p)
	}
	if p, err := xdg.SearchConfigFile(xdgCredentials); err == nil {
		paths = append(paths, p)
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, credentialDir, credentialFile))
	}
	return paths
}

func findCredentials() (string, bool) {
	for _, p := range credentialCandidates() {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p, true
		}
	}
	return "", false
}

// decryptKey runs gpg on credPath and returns the trimmed plaintext.
func decryptKey(credPath string) (string, error) {
	args := append([]string{"--decrypt", "--quiet"}, passphraseArgs(credPath)...)
	args = append(args, credPath)

	output, err := exec.Command("gpg", args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("GPG decryption failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("GPG decryption failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// passphraseArgs returns the loopback pinentry arguments when an
// owner-only passphrase file exists: $SOCIAL_TOOLKIT_GPG_PASSPHRASE_FILE,
// or .gpg-passphrase beside the credentials file.
func passphraseArgs(credPath string) []string {
	path := os.Getenv(PassphraseEnv)
	if path == "" {
		path = filepath.Join(filepath.Dir(credPath), passphraseFile)
	}
	fi, err := os.Stat(path)
	if err != nil {
		return nil
	}
	if mode := fi.Mode().Perm(); mode&0o077 != 0 {
		log.Warn().
			Str("passphrase_file", path).
			Str("permissions", fmt.Sprintf("%04o", mode)).
			Msg("Passphrase file has insecure permissions (should be 0600); skipping")
		return nil
	}
	log.Debug().Str("passphrase_file", path).Msg("Using passphrase file for GPG decryption")
	return []string{"--pinentry-mode", "loopback", "--passphrase-file", path}
}
