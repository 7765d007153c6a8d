package notebook

import (
	"os/user"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	home, err := homedir.Dir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		root     string
		notebook string
		want     string
	}{
		{"relative notebook", "/srv/course", "ps1/problem1.ipynb", "/srv/course/ps1/problem1.ipynb"},
		{"empty name resolves to root", "/srv/course", "", "/srv/course"},
		{"traversal is passed through", "/srv/course", "../../etc/passwd", "/etc/passwd"},
		{"absolute name replaces root", "/srv/course", "/tmp/other.ipynb", "/tmp/other.ipynb"},
		{"home shorthand in root", "~/course", "ps1.ipynb", filepath.Join(home, "course", "ps1.ipynb")},
		{"tilde inside name is literal", "/srv/course", "~/ps1.ipynb", "/srv/course/~/ps1.ipynb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.root, tt.notebook, false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveRestricted(t *testing.T) {
	got, err := Resolve("/srv/course", "ps1/problem1.ipynb", true)
	require.NoError(t, err)
	assert.Equal(t, "/srv/course/ps1/problem1.ipynb", got)

	got, err = Resolve("/srv/course", "", true)
	require.NoError(t, err)
	assert.Equal(t, "/srv/course", got)

	got, err = Resolve("/srv/course", "..data/notes.ipynb", true)
	require.NoError(t, err)
	assert.Equal(t, "/srv/course/..data/notes.ipynb", got)

	for _, name := range []string{"../../etc/passwd", "..", "/etc/passwd", "ps1/../../other"} {
		_, err := Resolve("/srv/course", name, true)
		var outside *PathOutsideRootError
		require.ErrorAs(t, err, &outside, name)
		assert.Equal(t, "/srv/course", outside.Root)
	}
}

func TestExpandHomeOfNamedUser(t *testing.T) {
	current, err := user.Current()
	require.NoError(t, err)
	if current.Username == "" || current.HomeDir == "" {
		t.Skip("current user has no name or home directory")
	}

	got, err := Resolve("~"+current.Username+"/course", "ps1.ipynb", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(current.HomeDir, "course", "ps1.ipynb"), got)

	assert.Equal(t, filepath.Clean(current.HomeDir), ExpandHome("~"+current.Username))
}

func TestExpandHomeOfUnknownUserIsUnchanged(t *testing.T) {
	got, err := Resolve("~no-such-user-4f2a/course", "ps1.ipynb", false)
	require.NoError(t, err)
	assert.Equal(t, "~no-such-user-4f2a/course/ps1.ipynb", got)

	got, err = Resolve("~no-such-user-4f2a/course", "ps1.ipynb", true)
	require.NoError(t, err)
	assert.Equal(t, "~no-such-user-4f2a/course/ps1.ipynb", got)
}
