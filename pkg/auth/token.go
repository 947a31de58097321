// Package auth resolves the GitHub token used for repository access.
package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "heft"
	keyringUser    = "github_token"
	tokenFileName  = "github_token"
)

// TokenEnvVars are checked in order after the explicit flag.
var TokenEnvVars = []string{"GITHUB_TOKEN", "GH_TOKEN"}

// Source tells where a resolved token came from.
type Source string

const (
	SourceFlag      Source = "flag"
	SourceEnv       Source = "env"
	SourceKeyring   Source = "keyring"
	SourceFile      Source = "file"
	SourceAnonymous Source = "anonymous"
)

// Store keeps the token in the OS keychain, with a file under Dir as fallback
// for systems without a keychain.
type Store struct {
	Dir string
}

// NewStore returns a token store whose file fallback lives in dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Resolve picks the token in order: flag, environment, keychain, token file.
// An empty token with SourceAnonymous means unauthenticated access.
func (s *Store) Resolve(flagToken string) (string, Source) {
	if t := strings.TrimSpace(flagToken); t != "" {
		return t, SourceFlag
	}

	for _, name := range TokenEnvVars {
		if t := strings.TrimSpace(os.Getenv(name)); t != "" {
			return t, SourceEnv
		}
	}

	t, err := keyring.Get(keyringService, keyringUser)
	if err == nil && t != "" {
		return t, SourceKeyring
	}
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		slog.Debug("keychain lookup failed", "error", err)
	}

	if t, err := s.readFile(); err == nil && t != "" {
		return t, SourceFile
	}

	return "", SourceAnonymous
}

// Save stores the token in the keychain, falling back to the token file.
func (s *Store) Save(token string) (Source, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("auth: empty token")
	}

	if err := keyring.Set(keyringService, keyringUser, token); err != nil {
		slog.Warn("keychain unavailable, falling back to file", "error", err)
		if err := s.writeFile(token); err != nil {
			return "", err
		}
		return SourceFile, nil
	}

	// drop a token left by an earlier file fallback
	_ = os.Remove(s.filePath())
	return SourceKeyring, nil
}

// Delete removes the token from the keychain and the token file.
// Removing a token that was never saved is not an error.
func (s *Store) Delete() error {
	if err := keyring.Delete(keyringService, keyringUser); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		slog.Debug("keychain delete failed", "error", err)
	}
	if err := os.Remove(s.filePath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("auth: removing token file: %w", err)
	}
	return nil
}

func (s *Store) filePath() string {
	return filepath.Join(s.Dir, tokenFileName)
}

func (s *Store) readFile() (string, error) {
	b, err := os.ReadFile(s.filePath())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (s *Store) writeFile(token string) error {
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return fmt.Errorf("auth: creating %s: %w", s.Dir, err)
	}
	if err := os.WriteFile(s.filePath(), []byte(token), 0o600); err != nil {
		return fmt.Errorf("auth: writing token file: %w", err)
	}
	return nil
}
