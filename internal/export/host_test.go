package export

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hxzbg/fguiexport/internal/exml"
	"github.com/hxzbg/fguiexport/internal/model"
)

// MockHost is a mock implementation of Host.
type MockHost struct {
	mock.Mock
}

func (m *MockHost) CloseAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockHost) Open(ctx context.Context, path string) (model.Node, error) {
	args := m.Called(ctx, filepath.Base(path))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Node), args.Error(1)
}

func (m *MockHost) Close(ctx context.Context, path string) error {
	return m.Called(ctx, filepath.Base(path)).Error(0)
}

func heroRoot(t *testing.T) model.Node {
	t.Helper()
	doc, err := exml.Parse(strings.NewReader(heroSkin))
	require.NoError(t, err)
	return doc.Root
}

func TestBatchSkipsUnreadableSource(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.exml"), "")
	writeFile(t, filepath.Join(dir, "b.exml"), "")

	host := new(MockHost)
	host.On("CloseAll", mock.Anything).Return(nil).Once()
	host.On("Open", mock.Anything, "a.exml").Return(nil, errors.New("broken xml")).Once()
	host.On("Open", mock.Anything, "b.exml").Return(heroRoot(t), nil).Once()
	host.On("Close", mock.Anything, "b.exml").Return(nil).Once()

	s := NewSession(f.cfg, f.project, WithHost(host))
	require.NoError(t, s.Begin(context.Background()))

	written, err := s.Batch(context.Background(), dir)
	require.NoError(t, err)
	assert.Len(t, written, 1)
	host.AssertExpectations(t)
	host.AssertNotCalled(t, "Close", mock.Anything, "a.exml")
	assert.Equal(t, int64(1), s.Metrics().Snapshot().FilesFailed)
}

func TestBatchCloseAllFailure(t *testing.T) {
	f := newFixture(t)
	host := new(MockHost)
	host.On("CloseAll", mock.Anything).Return(errors.New("editor busy"))

	s := NewSession(f.cfg, f.project, WithHost(host))
	require.NoError(t, s.Begin(context.Background()))

	_, err := s.Batch(context.Background(), f.skins)
	assert.ErrorContains(t, err, "editor busy")
	host.AssertNotCalled(t, "Open", mock.Anything, mock.Anything)
}

func TestRunFileReportsCloseFailure(t *testing.T) {
	f := newFixture(t)
	host := new(MockHost)
	host.On("Open", mock.Anything, "HeroSkin.exml").Return(heroRoot(t), nil)
	host.On("Close", mock.Anything, "HeroSkin.exml").Return(errors.New("gone"))

	s := NewSession(f.cfg, f.project, WithHost(host))
	require.NoError(t, s.Begin(context.Background()))

	out, err := s.RunFile(context.Background(), filepath.Join(f.skins, "HeroSkin.exml"))
	assert.ErrorContains(t, err, "gone")
	assert.FileExists(t, out)
}

func TestFileHostAppliesSizer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Icon.exml")
	writeFile(t, path, `<e:Skin xmlns:e="http://ns.egret.com/eui"><e:Image source="icon_png"/></e:Skin>`)

	host := NewFileHost(staticSizer{w: 32, h: 16})
	root, err := host.Open(context.Background(), path)
	require.NoError(t, err)

	img := root.Children()[0]
	w, ok := img.Instance("width")
	require.True(t, ok)
	assert.Equal(t, 32.0, w)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = host.Open(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

type staticSizer struct{ w, h int }

func (s staticSizer) Size(string) (int, int, bool) { return s.w, s.h, true }
