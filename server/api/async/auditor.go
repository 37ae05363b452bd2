package async

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/AimPizza/malbuch/server/internal/store"
)

const DefaultAuditDebounce = 500 * time.Millisecond

type AssetLister interface {
	List(ctx context.Context) ([]string, error)
}

type RecordLoader interface {
	Load(ctx context.Context) ([]store.AssetRecord, error)
}

// AuditReport lists the differences between the content directory and the metadata journal.
type AuditReport struct {
	// Orphans are stored files without a metadata record.
	Orphans []string
	// Dangling are metadata records whose file is missing.
	Dangling []string
}

func (r *AuditReport) Consistent() bool {
	return len(r.Orphans) == 0 && len(r.Dangling) == 0
}

type AuditorConfig struct {
	ContentDir  string
	JournalPath string
	Debounce    time.Duration
}

// Auditor watches the content directory and the journal document, and reports drift between the two. It never
// repairs anything.
type Auditor struct {
	logger  *logrus.Logger
	files   AssetLister
	journal RecordLoader
	cfg     AuditorConfig

	orphans  prometheus.Gauge
	dangling prometheus.Gauge
}

func NewAuditor(logger *logrus.Logger, files AssetLister, journal RecordLoader, cfg AuditorConfig, reg prometheus.Registerer) (*Auditor, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultAuditDebounce
	}

	orphans := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "malbuch_orphan_files",
		Help: "Stored asset files without a metadata record, as of the last audit",
	})
	dangling := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "malbuch_dangling_records",
		Help: "Metadata records whose asset file is missing, as of the last audit",
	})
	for c := range slices.Values([]prometheus.Collector{orphans, dangling}) {
		err := reg.Register(c)
		if err != nil {
			return nil, fmt.Errorf("register auditor metrics: %w", err)
		}
	}

	return &Auditor{
		logger:   logger,
		files:    files,
		journal:  journal,
		cfg:      cfg,
		orphans:  orphans,
		dangling: dangling,
	}, nil
}

// Audit compares the stored files with the journal records once, updating the drift gauges.
func (a *Auditor) Audit(ctx context.Context) (*AuditReport, error) {
	files, err := a.files.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stored assets: %w", err)
	}
	records, err := a.journal.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load metadata journal: %w", err)
	}

	onDisk := make(map[string]bool, len(files))
	for _, name := range files {
		onDisk[name] = true
	}
	inJournal := make(map[string]bool, len(records))
	report := &AuditReport{}
	for _, rec := range records {
		if inJournal[rec.File] {
			continue
		}
		inJournal[rec.File] = true
		if !onDisk[rec.File] {
			report.Dangling = append(report.Dangling, rec.File)
		}
	}
	for _, name := range files {
		if !inJournal[name] {
			report.Orphans = append(report.Orphans, name)
		}
	}
	slices.Sort(report.Orphans)
	slices.Sort(report.Dangling)

	a.orphans.Set(float64(len(report.Orphans)))
	a.dangling.Set(float64(len(report.Dangling)))

	return report, nil
}

// Run audits once and then again whenever the watched directories settle after a change, until the context is done.
func (a *Auditor) Run(ctx context.Context) error {
	logger := a.logger.WithContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dirs := []string{filepath.Clean(a.cfg.ContentDir)}
	if a.cfg.JournalPath != "" {
		dirs = append(dirs, filepath.Dir(filepath.Clean(a.cfg.JournalPath)))
	}
	for dir := range slices.Values(slices.Compact(dirs)) {
		err = watcher.Add(dir)
		if err != nil {
			return fmt.Errorf("watch %q: %w", dir, err)
		}
	}

	logger.WithField("dirs", dirs).Info("Running consistency auditor")
	a.auditAndLog(ctx)

	timer := time.NewTimer(a.cfg.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if a.relevant(ev) {
				timer.Reset(a.cfg.Debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Warn("Consistency auditor watcher error")
		case <-timer.C:
			a.auditAndLog(ctx)
		}
	}
}

func (a *Auditor) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Clean(ev.Name)
	if a.cfg.JournalPath != "" && name == filepath.Clean(a.cfg.JournalPath) {
		return true
	}
	return filepath.Dir(name) == filepath.Clean(a.cfg.ContentDir) && !strings.HasPrefix(filepath.Base(name), ".")
}

func (a *Auditor) auditAndLog(ctx context.Context) {
	logger := a.logger.WithContext(ctx)

	report, err := a.Audit(ctx)
	if err != nil {
		logger.WithError(err).Error("Consistency audit failed")
		return
	}
	if report.Consistent() {
		logger.Debug("Content directory and metadata journal are consistent")
		return
	}

	for name := range slices.Values(report.Orphans) {
		logger.WithField("file", name).Warn("Stored file has no metadata record")
	}
	for name := range slices.Values(report.Dangling) {
		logger.WithField("file", name).Warn("Metadata record has no stored file")
	}
}
