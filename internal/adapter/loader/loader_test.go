//go:build unit

package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang-netdef/internal/adapter/infrastructure/file"
	"golang-netdef/internal/mock"
	"golang-netdef/internal/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func names(docs []port.RawDocument) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Name)
	}
	return out
}

func TestNewDirectoryLoader(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	l := NewDirectoryLoader(mock.NewMockFileManager(ctrl), "", nil)
	assert.Equal(t, "/", l.root)
	assert.Equal(t, DefaultDirectories, l.directories)
}

func TestDirectoryLoader_Documents(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	files := mock.NewMockFileManager(ctrl)
	loader := NewDirectoryLoader(files, "/root", nil)

	t.Run("ShadowingAndOrder", func(t *testing.T) {
		files.EXPECT().Glob("/root/lib/netplan/*.yaml").
			Return([]string{"/root/lib/netplan/50-cloud.yaml", "/root/lib/netplan/90-last.yaml"}, nil)
		files.EXPECT().Glob("/root/etc/netplan/*.yaml").
			Return([]string{"/root/etc/netplan/01-base.yaml", "/root/etc/netplan/50-cloud.yaml"}, nil)
		files.EXPECT().Glob("/root/run/netplan/*.yaml").
			Return(nil, nil)

		files.EXPECT().ReadFile("/root/etc/netplan/01-base.yaml").Return([]byte("a"), nil)
		files.EXPECT().ReadFile("/root/etc/netplan/50-cloud.yaml").Return([]byte("b"), nil)
		files.EXPECT().ReadFile("/root/lib/netplan/90-last.yaml").Return([]byte("c"), nil)

		docs, err := loader.Documents(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{
			"/root/etc/netplan/01-base.yaml",
			"/root/etc/netplan/50-cloud.yaml",
			"/root/lib/netplan/90-last.yaml",
		}, names(docs))
		assert.Equal(t, []byte("b"), docs[1].Data)
	})

	t.Run("GlobError", func(t *testing.T) {
		files.EXPECT().Glob("/root/lib/netplan/*.yaml").Return(nil, errors.New("bad pattern"))

		_, err := loader.Documents(context.Background())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to scan /root/lib/netplan")
	})

	t.Run("ReadError", func(t *testing.T) {
		files.EXPECT().Glob(gomock.Any()).Return([]string{"/root/run/netplan/a.yaml"}, nil)
		files.EXPECT().Glob(gomock.Any()).Return(nil, nil).Times(2)
		files.EXPECT().ReadFile("/root/run/netplan/a.yaml").Return(nil, errors.New("failed to read file"))

		_, err := loader.Documents(context.Background())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read file")
	})

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := loader.Documents(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDirectoryLoader_RealFiles(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	write("lib/netplan/10-eth.yaml", "lib")
	write("run/netplan/10-eth.yaml", "run")
	write("etc/netplan/20-wifi.yaml", "etc")
	write("etc/netplan/README", "ignored")

	docs, err := NewDirectoryLoader(file.NewManagerAdapter(), root, nil).Documents(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, filepath.Join(root, "run/netplan/10-eth.yaml"), docs[0].Name)
	assert.Equal(t, []byte("run"), docs[0].Data)
	assert.Equal(t, filepath.Join(root, "etc/netplan/20-wifi.yaml"), docs[1].Name)
}

func TestFileLoader_Documents(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	files := mock.NewMockFileManager(ctrl)

	t.Run("GivenOrder", func(t *testing.T) {
		files.EXPECT().FileExists("b.yaml").Return(true)
		files.EXPECT().FileExists("a.yaml").Return(true)
		files.EXPECT().ReadFile("b.yaml").Return([]byte("b"), nil)
		files.EXPECT().ReadFile("a.yaml").Return([]byte("a"), nil)

		docs, err := NewFileLoader(files, []string{"b.yaml", "a.yaml"}).Documents(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"b.yaml", "a.yaml"}, names(docs))
	})

	t.Run("MissingFile", func(t *testing.T) {
		files.EXPECT().FileExists("missing.yaml").Return(false)

		_, err := NewFileLoader(files, []string{"missing.yaml"}).Documents(context.Background())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "configuration file missing.yaml does not exist")
	})
}
