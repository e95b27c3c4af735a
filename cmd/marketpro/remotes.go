package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// Remote is a site the CLI can talk to.
type Remote struct {
	URL     string `toml:"url"`
	Token   string `toml:"token,omitempty"`
	NATSURL string `toml:"nats_url,omitempty"`
}

// remoteBook is the contents of remotes.toml: named sites plus the one
// commands use when --url is not given.
type remoteBook struct {
	Active  string            `toml:"active"`
	Remotes map[string]Remote `toml:"remotes"`
}

// stateDir is ~/.local/state/marketpro, shared with the editor cache.
func stateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "marketpro"), nil
}

func remotesPath() (string, error) {
	dir, err := stateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "remotes.toml"), nil
}

// loadRemotes reads remotes.toml. A missing file is an empty book.
func loadRemotes() (*remoteBook, error) {
	path, err := remotesPath()
	if err != nil {
		return nil, err
	}
	b := &remoteBook{}
	if _, err := toml.DecodeFile(path, b); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if b.Remotes == nil {
		b.Remotes = map[string]Remote{}
	}
	return b, nil
}

// save replaces remotes.toml. Tokens are secrets, so the file is 0600 in
// a 0700 directory.
func (b *remoteBook) save() error {
	path, err := remotesPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "remotes-*.toml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(b); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding remotes: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// lookup returns the named remote, or the active one when name is empty.
func (b *remoteBook) lookup(name string) (string, Remote, error) {
	if name == "" {
		name = b.Active
	}
	if name == "" {
		return "", Remote{}, errors.New("no active remote; specify a name or run 'marketpro remote use <name>'")
	}
	r, ok := b.Remotes[name]
	if !ok {
		return "", Remote{}, fmt.Errorf("remote %q not found", name)
	}
	return name, r, nil
}

func (b *remoteBook) names() []string {
	names := make([]string, 0, len(b.Remotes))
	for name := range b.Remotes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// recordToken stores a session token for the remote serving siteURL. With
// no such remote, one named "default" is created and made active if nothing
// else is.
func (b *remoteBook) recordToken(siteURL, tok string) (string, error) {
	siteURL = normalizeSiteURL(siteURL)
	for _, name := range b.names() {
		if r := b.Remotes[name]; normalizeSiteURL(r.URL) == siteURL {
			r.Token = tok
			b.Remotes[name] = r
			return name, nil
		}
	}
	if _, taken := b.Remotes["default"]; taken {
		return "", fmt.Errorf("no remote for %s and %q is taken; run 'marketpro remote add <name> %s' first", siteURL, "default", siteURL)
	}
	b.Remotes["default"] = Remote{URL: siteURL, Token: tok}
	if b.Active == "" {
		b.Active = "default"
	}
	return "default", nil
}

// storeToken saves a login token against siteURL in remotes.toml.
func storeToken(siteURL, tok string) (string, error) {
	b, err := loadRemotes()
	if err != nil {
		return "", err
	}
	name, err := b.recordToken(siteURL, tok)
	if err != nil {
		return "", err
	}
	return name, b.save()
}

// parseSiteURL checks that raw is an absolute http(s) URL.
func parseSiteURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid URL %q: want http(s)://host[:port]", raw)
	}
	return normalizeSiteURL(raw), nil
}

func normalizeSiteURL(raw string) string {
	return strings.TrimRight(raw, "/")
}

// maskToken shows the first keep characters of tok.
func maskToken(tok string, keep int) string {
	if len(tok) <= keep {
		return tok
	}
	return tok[:keep] + strings.Repeat("*", len(tok)-keep)
}

// activeRemote is read once per process; flag defaults are computed from it.
var activeRemote = sync.OnceValue(func() Remote {
	b, err := loadRemotes()
	if err != nil {
		return Remote{}
	}
	_, r, err := b.lookup("")
	if err != nil {
		return Remote{}
	}
	return r
})
