package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/hxzbg/fguiexport/internal/assets"
	"github.com/hxzbg/fguiexport/internal/config"
	"github.com/hxzbg/fguiexport/internal/exml"
	"github.com/hxzbg/fguiexport/internal/logging"
	"github.com/hxzbg/fguiexport/internal/model"
	"github.com/hxzbg/fguiexport/internal/monitoring"
	"github.com/hxzbg/fguiexport/internal/pkgindex"
	"github.com/hxzbg/fguiexport/internal/project"
	"github.com/hxzbg/fguiexport/internal/shared/id"
	"github.com/hxzbg/fguiexport/internal/shared/paths"
	"github.com/hxzbg/fguiexport/internal/transcode"
)

var (
	// ErrConfigurationMissing is returned by Begin when no target root is
	// configured. Nothing is read or written in that case.
	ErrConfigurationMissing = errors.New("export target root is not configured")

	// ErrNotStarted is returned when a session is used before Begin.
	ErrNotStarted = errors.New("export session not started")
)

// Session exports EUI skins into one FairyGUI project. The package index
// is shared mutable state, so a Session must be driven from a single
// goroutine and files are processed one at a time.
type Session struct {
	cfg     *config.Config
	project *project.Project
	logger  *logging.Logger
	metrics *monitoring.Metrics
	host    Host
	id      id.SessionID

	index  *pkgindex.Index
	skins  *exml.SkinIndex
	layout paths.Layout
	tr     *transcode.Transcoder
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithHost replaces the default file host.
func WithHost(h Host) Option {
	return func(s *Session) { s.host = h }
}

// NewSession creates a session for proj.
func NewSession(cfg *config.Config, proj *project.Project, opts ...Option) *Session {
	s := &Session{
		cfg:     cfg,
		project: proj,
		logger:  logging.NewNop(),
		metrics: monitoring.NewMetrics(),
		id:      id.NewSessionID(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("export").WithSession(s.id.String())
	return s
}

// ID returns the session id used in log entries.
func (s *Session) ID() id.SessionID { return s.id }

// Index returns the package index, or nil before Begin.
func (s *Session) Index() *pkgindex.Index { return s.index }

// Metrics returns the metrics sink.
func (s *Session) Metrics() *monitoring.Metrics { return s.metrics }

// TargetRoot returns the configured target root, the override first.
func (s *Session) TargetRoot() string {
	if s.cfg.Export.TargetRoot != "" {
		return s.cfg.Export.TargetRoot
	}
	if s.project != nil {
		return s.project.TargetRoot
	}
	return ""
}

// AssetsDir returns the directory holding the target packages.
func (s *Session) AssetsDir() string {
	return filepath.Join(s.TargetRoot(), s.cfg.Export.AssetsDir)
}

// Begin indexes the target packages and the project's skins.
func (s *Session) Begin(ctx context.Context) error {
	target := s.TargetRoot()
	if target == "" {
		return ErrConfigurationMissing
	}
	if err := paths.ValidateTargetRoot(target); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigurationMissing, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	assetsDir := s.AssetsDir()
	index, err := pkgindex.Build(assetsDir, pkgindex.WithLogger(s.logger.Named("packages")))
	if err != nil {
		return fmt.Errorf("failed to index packages: %w", err)
	}

	var roots []string
	if s.project != nil {
		roots = s.project.ExmlRoots
	}
	skins, err := exml.BuildSkinIndex(roots, s.cfg.Export.SourceExt, s.logger)
	if err != nil {
		return fmt.Errorf("failed to index skins: %w", err)
	}

	s.index = index
	s.skins = skins
	s.layout = paths.Layout{SkinRoots: roots, TargetDir: assetsDir}
	s.tr = transcode.New(index,
		transcode.WithSkins(skins),
		transcode.WithLogger(s.logger.Named("transcode")),
		transcode.WithRecorder(s.metrics),
	)
	if s.host == nil {
		s.host = NewFileHost(assets.NewSizer(assets.PackageLocator(index)))
	}

	s.metrics.SetPackagesIndexed(len(index.Packages()))
	s.metrics.AddDescriptorsSkipped(len(index.Skipped()))
	s.logger.Info("Export session started",
		zap.String("target", target),
		zap.Int("packages", len(index.Packages())),
		zap.Int("skipped", len(index.Skipped())),
		zap.Int("skins", skins.Len()))
	return nil
}

// Run transcodes one tree loaded from source and writes it into the target
// tree. It returns the written path.
func (s *Session) Run(ctx context.Context, source string, root model.Node) (out string, err error) {
	if s.tr == nil {
		return "", ErrNotStarted
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	timer := monitoring.NewTimer(s.metrics)
	defer func() { timer.Stop(err) }()

	doc, err := s.tr.Document(root)
	if err != nil {
		return "", fmt.Errorf("failed to transcode %s: %w", source, err)
	}

	out = s.layout.Target(source)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(out, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", out, err)
	}

	s.logger.Info("Component exported", zap.String("source", source), zap.String("output", out))
	return out, nil
}

// RunFile opens source on the host, runs it and closes it again.
func (s *Session) RunFile(ctx context.Context, source string) (string, error) {
	if s.tr == nil {
		return "", ErrNotStarted
	}
	root, err := s.host.Open(ctx, source)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", source, err)
	}
	out, runErr := s.Run(ctx, source, root)
	if err := s.host.Close(ctx, source); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to close %s: %w", source, err)
	}
	return out, runErr
}

// Sources lists the source files below dir, sorted.
func (s *Session) Sources(dir string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), sourcePattern(s.cfg.Export.SourceExt),
		doublestar.WithFilesOnly(), doublestar.WithCaseInsensitive())
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	sort.Strings(matches)

	files := make([]string, len(matches))
	for i, m := range matches {
		files[i] = filepath.Join(dir, filepath.FromSlash(m))
	}
	return files, nil
}

// Batch exports every source file below dir. Open editors are closed first,
// then files are opened, exported and closed strictly one at a time with a
// settle pause in between. Unparseable files are skipped; a write failure
// aborts the remaining files.
func (s *Session) Batch(ctx context.Context, dir string) ([]string, error) {
	if s.tr == nil {
		return nil, ErrNotStarted
	}
	files, err := s.Sources(dir)
	if err != nil {
		return nil, err
	}
	if err := s.host.CloseAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to close open documents: %w", err)
	}

	s.logger.Info("Batch export started", zap.String("dir", dir), zap.Int("files", len(files)))
	var written []string
	for i, file := range files {
		if i > 0 {
			if err := settle(ctx, s.cfg.Export.SettleDelay); err != nil {
				return written, err
			}
		}

		root, err := s.host.Open(ctx, file)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return written, ctxErr
			}
			s.logger.Warn("Skipping unreadable source", zap.String("path", file), zap.Error(err))
			s.metrics.RecordFile(monitoring.StatusError, 0)
			continue
		}

		out, runErr := s.Run(ctx, file, root)
		closeErr := s.host.Close(ctx, file)
		if runErr != nil {
			return written, runErr
		}
		if closeErr != nil {
			return written, fmt.Errorf("failed to close %s: %w", file, closeErr)
		}
		written = append(written, out)
	}

	s.metrics.IncBatches()
	s.logger.Info("Batch export finished", zap.Int("written", len(written)))
	return written, nil
}

// CreatePackage adds an empty package. Relative directories are resolved
// against the assets directory.
func (s *Session) CreatePackage(dir string) (*pkgindex.Package, error) {
	if s.index == nil {
		return nil, ErrNotStarted
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(s.AssetsDir(), dir)
	}
	pkg, err := s.index.CreatePackage(dir)
	if err != nil {
		return nil, err
	}
	s.metrics.SetPackagesIndexed(len(s.index.Packages()))
	s.logger.Info("Package created", zap.String("id", pkg.ID), zap.String("path", pkg.Path))
	return pkg, nil
}

// End flushes modified package descriptors and writes the metrics
// textfile when configured.
func (s *Session) End() error {
	if s.index == nil {
		return ErrNotStarted
	}
	n, err := s.index.Flush()
	s.metrics.AddPackagesFlushed(n)

	snap := s.metrics.Snapshot()
	s.logger.Info("Export session finished",
		zap.Int("flushed", n),
		zap.Int64("exported", snap.FilesExported),
		zap.Int64("failed", snap.FilesFailed),
		zap.Int64("missing", snap.ResourcesMissing))

	if err != nil {
		return fmt.Errorf("failed to flush packages: %w", err)
	}
	if path := s.cfg.Metrics.TextfilePath; path != "" {
		return s.metrics.WriteTextfile(path)
	}
	return nil
}

// settle waits d unless ctx is done first.
func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// sourcePattern matches ext at any depth; Glob is run case-insensitively.
func sourcePattern(ext string) string {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return "**/*" + ext
}
