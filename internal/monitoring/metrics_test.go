package monitoring

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounters(t *testing.T) {
	m := NewMetrics()

	m.ResourceMissing("image")
	m.ResourceMissing("image")
	m.ResourceMissing("component")
	m.GroupGenerated()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ResourcesMissing.WithLabelValues("image")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResourcesMissing.WithLabelValues("component")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GroupsGenerated))

	snap := m.Snapshot()
	assert.Equal(t, int64(3), snap.ResourcesMissing)
	assert.Equal(t, int64(1), snap.GroupsGenerated)
}

func TestTimerStatus(t *testing.T) {
	m := NewMetrics()

	NewTimer(m).Stop(nil)
	NewTimer(m).Stop(errors.New("disk full"))
	NewTimer(nil).Stop(nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.FilesExported.WithLabelValues(StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FilesExported.WithLabelValues(StatusError)))
	snap := m.Snapshot()
	assert.Equal(t, int64(1), snap.FilesExported)
	assert.Equal(t, int64(1), snap.FilesFailed)
}

func TestSeparateRegistries(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()
	a.AddPackagesFlushed(2)

	assert.Equal(t, 2.0, testutil.ToFloat64(a.PackagesFlushed))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.PackagesFlushed))
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.SetPackagesIndexed(4)
	m.AddDescriptorsSkipped(1)

	path := filepath.Join(t.TempDir(), "fguiexport.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fguiexport_packages_indexed 4")
	assert.Contains(t, string(data), "fguiexport_descriptors_skipped_total 1")
}
