package fs

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
	"gopkg.in/yaml.v3"
)

// storedCookie is one persisted cookie and the URL that set it.
type storedCookie struct {
	URL      string    `yaml:"url"`
	Name     string    `yaml:"name"`
	Value    string    `yaml:"value"`
	Path     string    `yaml:"path,omitempty"`
	Domain   string    `yaml:"domain,omitempty"`
	Expires  time.Time `yaml:"expires,omitempty"`
	Secure   bool      `yaml:"secure,omitempty"`
	HttpOnly bool      `yaml:"httpOnly,omitempty"`
}

func (c storedCookie) cookie() *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Domain:   c.Domain,
		Expires:  c.Expires,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
	}
}

func (c storedCookie) expired(now time.Time) bool {
	return !c.Expires.IsZero() && !c.Expires.After(now)
}

type cookieFile struct {
	Cookies []storedCookie `yaml:"cookies"`
}

// CookieJar is an http.CookieJar persisted next to the token file, so the
// refresh cookie set at login is still there for the next process.
// Matching rules are those of net/http/cookiejar.
type CookieJar struct {
	Path   string
	logger *slog.Logger

	mu     sync.Mutex
	jar    *cookiejar.Jar
	stored []storedCookie
}

// NewCookieJar loads the jar at path. A missing file is an empty jar.
// An unreadable file is logged and replaced on the next write.
func NewCookieJar(path string, logger *slog.Logger) (*CookieJar, error) {
	if logger == nil {
		logger = slog.Default()
	}
	j := &CookieJar{Path: path, logger: logger}
	if err := j.reset(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return j, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cookie file: %w", err)
	}
	var f cookieFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		logger.Warn("ignoring unreadable cookie file", "path", path, "error", err)
		return j, nil
	}

	now := time.Now()
	for _, c := range f.Cookies {
		if c.expired(now) {
			continue
		}
		u, err := url.Parse(c.URL)
		if err != nil {
			continue
		}
		j.jar.SetCookies(u, []*http.Cookie{c.cookie()})
		j.stored = append(j.stored, c)
	}
	return j, nil
}

func (j *CookieJar) reset() error {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return err
	}
	j.jar = jar
	j.stored = nil
	return nil
}

// SetCookies implements http.CookieJar and writes the jar through to disk.
func (j *CookieJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.jar.SetCookies(u, cookies)

	now := time.Now()
	origin := (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: u.Path}).String()
	for _, c := range cookies {
		kept := j.stored[:0]
		for _, s := range j.stored {
			if s.Name == c.Name && s.Path == c.Path && sameHost(s.URL, u) {
				continue
			}
			kept = append(kept, s)
		}
		j.stored = kept

		sc := storedCookie{
			URL:      origin,
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
		if c.MaxAge > 0 {
			sc.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		if c.MaxAge < 0 || sc.expired(now) {
			continue
		}
		j.stored = append(j.stored, sc)
	}

	if err := j.save(); err != nil {
		j.logger.Warn("failed to persist cookies", "path", j.Path, "error", err)
	}
}

// Cookies implements http.CookieJar.
func (j *CookieJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.jar.Cookies(u)
}

// Len returns the number of persisted cookies.
func (j *CookieJar) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.stored)
}

// Clear drops every cookie and removes the file.
func (j *CookieJar) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.reset(); err != nil {
		return err
	}
	if err := os.Remove(j.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove cookie file: %w", err)
	}
	return nil
}

func (j *CookieJar) save() error {
	data, err := yaml.Marshal(cookieFile{Cookies: j.stored})
	if err != nil {
		return err
	}
	return writeFileAtomic(j.Path, data, 0600)
}

func sameHost(raw string, u *url.URL) bool {
	p, err := url.Parse(raw)
	return err == nil && p.Host == u.Host
}

var _ http.CookieJar = (*CookieJar)(nil)
