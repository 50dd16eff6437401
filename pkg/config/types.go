package config

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/zeebo/errs"
)

// Duration is a time.Duration written as "500ms" or "30s" in TOML.
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return errs.New("invalid duration %q", b)
	}
	if v < 0 {
		return errs.New("negative duration %q", b)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// Path is a filesystem path. A leading ~ or ~user and environment
// variables are expanded when it is decoded.
type Path string

func (p *Path) UnmarshalText(b []byte) error {
	*p = ToPath(string(b))
	return nil
}

func ToPath(path string) Path {
	return Path(expandHome(os.ExpandEnv(path)))
}

func expandHome(path string) string {
	first, rest, _ := strings.Cut(path, string(os.PathSeparator))
	name, ok := strings.CutPrefix(first, "~")
	if !ok {
		return path
	}

	lookup := user.Current
	if name != "" {
		lookup = func() (*user.User, error) { return user.Lookup(name) }
	}
	u, err := lookup()
	if err != nil || u.HomeDir == "" {
		return path
	}
	return filepath.Join(u.HomeDir, rest)
}
