package launcher

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog(t *testing.T) {
	t.Setenv("VOXASSIST_TEST_ROOT", "/opt/apps")

	c, err := NewCatalog(map[string][]string{
		" Notepad ": {"notepad.exe"},
		"code":      {"${VOXASSIST_TEST_ROOT}/code/Code.exe", "  ", "code"},
	})
	require.NoError(t, err)

	assert.True(t, c.Has("notepad"))
	assert.False(t, c.Has("Notepad"))
	assert.Equal(t, []string{"code", "notepad"}, c.Keys())
	assert.Equal(t, 2, c.Len())

	got, ok := c.Candidates("code")
	require.True(t, ok)
	assert.Equal(t, []string{"/opt/apps/code/Code.exe", "code"}, got)

	got[0] = "mutated"
	again, _ := c.Candidates("code")
	assert.Equal(t, "/opt/apps/code/Code.exe", again[0])
}

func TestNewCatalog_Invalid(t *testing.T) {
	_, err := NewCatalog(map[string][]string{"vlc": {"vlc"}, "VLC": {"vlc.exe"}})
	assert.ErrorContains(t, err, "duplicate key")

	_, err = NewCatalog(map[string][]string{"vlc": {" "}})
	assert.ErrorContains(t, err, "no launch targets")

	_, err = NewCatalog(map[string][]string{"  ": {"x"}})
	assert.ErrorContains(t, err, "empty key")

	_, err = NewCatalog(map[string][]string{"notepad.": {"gedit"}})
	assert.ErrorContains(t, err, "can never match")
}

type fakeStarter struct {
	fail  map[string]bool
	tried []string
	last  []bool
}

func (f *fakeStarter) Start(target string, last bool) error {
	f.tried = append(f.tried, target)
	f.last = append(f.last, last)
	if f.fail[target] {
		return errors.New("no such file")
	}
	return nil
}

func TestResolver_Open(t *testing.T) {
	cat, err := NewCatalog(map[string][]string{
		"chrome": {"/a/chrome", "/b/chrome", "chrome"},
	})
	require.NoError(t, err)

	t.Run("first success wins", func(t *testing.T) {
		s := &fakeStarter{fail: map[string]bool{"/a/chrome": true}}
		got, err := NewResolver(cat, s).Open("chrome")
		require.NoError(t, err)
		assert.Equal(t, "/b/chrome", got)
		assert.Equal(t, []string{"/a/chrome", "/b/chrome"}, s.tried)
	})

	t.Run("all fail", func(t *testing.T) {
		s := &fakeStarter{fail: map[string]bool{"/a/chrome": true, "/b/chrome": true, "chrome": true}}
		_, err := NewResolver(cat, s).Open("chrome")
		assert.ErrorIs(t, err, ErrAllCandidatesFailed)
		assert.ErrorContains(t, err, "/b/chrome: no such file")
		assert.Equal(t, []string{"/a/chrome", "/b/chrome", "chrome"}, s.tried)
		assert.Equal(t, []bool{false, false, true}, s.last)
	})

	t.Run("later bare names are reached", func(t *testing.T) {
		cat, err := NewCatalog(map[string][]string{
			"notepad": {"definitely-not-installed", "gedit", "mousepad"},
		})
		require.NoError(t, err)

		var started []*exec.Cmd
		sys := newTestSystem(&started, map[string]string{"gedit": "/usr/bin/gedit"})

		got, err := NewResolver(cat, sys).Open("notepad")
		require.NoError(t, err)
		assert.Equal(t, "gedit", got)
		require.Len(t, started, 1)
		assert.Equal(t, []string{"/usr/bin/gedit"}, started[0].Args)
	})

	t.Run("shell fallback for the last target only", func(t *testing.T) {
		cat, err := NewCatalog(map[string][]string{
			"notepad": {"definitely-not-installed", "also-missing"},
		})
		require.NoError(t, err)

		var started []*exec.Cmd
		got, err := NewResolver(cat, newTestSystem(&started, nil)).Open("notepad")
		require.NoError(t, err)
		assert.Equal(t, "also-missing", got)
		require.Len(t, started, 1)
		assert.Equal(t, shellCommand("also-missing").Args, started[0].Args)
	})

	t.Run("unknown key", func(t *testing.T) {
		s := &fakeStarter{}
		_, err := NewResolver(cat, s).Open("vlc")
		assert.ErrorIs(t, err, ErrAppNotFound)
		assert.Empty(t, s.tried)
	})
}

func newTestSystem(started *[]*exec.Cmd, path map[string]string) *System {
	return &System{
		lookPath: func(name string) (string, error) {
			if p, ok := path[name]; ok {
				return p, nil
			}
			return "", exec.ErrNotFound
		},
		stat: os.Stat,
		start: func(cmd *exec.Cmd) error {
			*started = append(*started, cmd)
			return nil
		},
	}
}

func TestSystem_Start(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "app")
	require.NoError(t, os.WriteFile(existing, nil, 0o755))

	t.Run("existing absolute path", func(t *testing.T) {
		var started []*exec.Cmd
		s := newTestSystem(&started, nil)

		info, err := os.Stat(existing)
		require.NoError(t, err)

		require.NoError(t, s.Start(existing, false))
		require.Len(t, started, 1)
		assert.Equal(t, openCommand(existing, info).Args, started[0].Args)
	})

	t.Run("found on path", func(t *testing.T) {
		var started []*exec.Cmd
		s := newTestSystem(&started, map[string]string{"code": "/usr/bin/code"})

		require.NoError(t, s.Start("code", false))
		require.Len(t, started, 1)
		assert.Equal(t, []string{"/usr/bin/code"}, started[0].Args)
	})

	t.Run("missing absolute path falls through to shell", func(t *testing.T) {
		var started []*exec.Cmd
		s := newTestSystem(&started, nil)
		missing := filepath.Join(dir, "nope")

		require.NoError(t, s.Start(missing, true))
		require.Len(t, started, 1)
		assert.Equal(t, shellCommand(missing).Args, started[0].Args)
	})

	t.Run("no shell before the last target", func(t *testing.T) {
		var started []*exec.Cmd
		s := newTestSystem(&started, nil)

		assert.ErrorIs(t, s.Start("gnome-text-editor", false), exec.ErrNotFound)
		assert.Empty(t, started)
	})

	t.Run("start failure is reported", func(t *testing.T) {
		s := &System{
			lookPath: func(string) (string, error) { return "", exec.ErrNotFound },
			stat:     os.Stat,
			start:    func(*exec.Cmd) error { return errors.New("boom") },
		}
		assert.EqualError(t, s.Start("calc.exe", true), "boom")
	})

	t.Run("empty target", func(t *testing.T) {
		assert.Error(t, NewSystem().Start("", true))
	})
}

func TestBrowser_Navigate(t *testing.T) {
	var opened []string
	b := &Browser{open: func(u string) error {
		opened = append(opened, u)
		return nil
	}}

	require.NoError(t, b.Navigate("https://www.youtube.com"))
	assert.Equal(t, []string{"https://www.youtube.com"}, opened)
}
