package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AimPizza/malbuch/server/internal/blobstorage/filesystem"
	"github.com/AimPizza/malbuch/server/internal/filename"
	"github.com/AimPizza/malbuch/server/internal/store"
	"github.com/AimPizza/malbuch/server/internal/upload"
)

const tracerName = "github.com/AimPizza/malbuch/server/internal/assets"

var (
	ErrNotFound = errors.New("asset not found")
	ErrStorage  = errors.New("asset storage failure")
)

type FileStorage interface {
	PutObject(ctx context.Context, r io.Reader, name filename.Safe) (written int64, err error)
	DeleteObject(ctx context.Context, name filename.Safe) error
	Exists(ctx context.Context, name filename.Safe) (bool, error)
	Open(ctx context.Context, name filename.Safe) (*os.File, os.FileInfo, error)
}

type Journal interface {
	Load(ctx context.Context) ([]store.AssetRecord, error)
	Append(ctx context.Context, rec *store.AssetRecord) error
	RemoveWhere(ctx context.Context, pred func(rec *store.AssetRecord) bool) (int, error)
}

// Outcome tells apart a fully consistent result from one where the asset file operation was committed but the
// metadata journal could not be updated.
type Outcome int

const (
	OutcomeStored Outcome = iota + 1
	OutcomeStoredWithMetadataWarning
	OutcomeDeleted
	OutcomeDeletedWithMetadataWarning
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStored:
		return "stored"
	case OutcomeStoredWithMetadataWarning:
		return "stored_with_metadata_warning"
	case OutcomeDeleted:
		return "deleted"
	case OutcomeDeletedWithMetadataWarning:
		return "deleted_with_metadata_warning"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// MetadataWarning reports whether the journal update failed after the file operation went through.
func (o Outcome) MetadataWarning() bool {
	return o == OutcomeStoredWithMetadataWarning || o == OutcomeDeletedWithMetadataWarning
}

type IngestResult struct {
	Record  *store.AssetRecord
	Outcome Outcome
	// MetadataErr is set when Outcome carries a metadata warning.
	MetadataErr error
}

type Option func(s *Service)

// WithClock replaces the wall clock used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service composes the asset storage and the metadata journal. The file operation is always the authoritative step:
// it runs first, and once it has succeeded the request succeeds, even if the journal update fails afterwards.
type Service struct {
	logger  *logrus.Logger
	storage FileStorage
	journal Journal
	tracer  trace.Tracer
	now     func() time.Time
}

func NewService(logger *logrus.Logger, storage FileStorage, journal Journal, opts ...Option) *Service {
	s := &Service{
		logger:  logger,
		storage: storage,
		journal: journal,
		tracer:  otel.Tracer(tracerName),
		now:     time.Now,
	}
	for opt := range slices.Values(opts) {
		opt(s)
	}
	return s
}

// Ingest stores a decoded upload and appends its metadata record to the journal.
func (s *Service) Ingest(ctx context.Context, up *upload.Upload) (_ *IngestResult, err error) {
	ctx, span := s.tracer.Start(ctx, "assets.Ingest")
	defer func() { endSpan(span, err) }()

	logger := s.logger.WithContext(ctx).WithField("file", up.Filename)

	name, err := filename.Sanitize(up.Filename)
	if err != nil {
		logger.WithError(err).Warn("Rejected upload filename")
		return nil, fmt.Errorf("sanitize upload filename: %w", err)
	}
	span.SetAttributes(attribute.String("asset.file", name.String()))

	written, err := s.storage.PutObject(ctx, bytes.NewReader(up.Payload), name)
	if err != nil {
		logger.WithError(err).Error("Failed to write asset to storage")
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	span.SetAttributes(attribute.Int64("asset.size_bytes", written))

	now := s.now().UTC()
	created := now
	if up.CreationDate != nil {
		created = *up.CreationDate
	}
	rec := &store.AssetRecord{
		File:         name.String(),
		SizeBytes:    written,
		Title:        up.Title,
		CreationDate: created,
		LastModified: now,
	}

	err = s.journal.Append(ctx, rec)
	if err != nil {
		logger.WithError(err).Warn("Asset stored but metadata update failed")
		return &IngestResult{
			Record:      rec,
			Outcome:     OutcomeStoredWithMetadataWarning,
			MetadataErr: err,
		}, nil
	}

	logger.WithField("size_bytes", written).Debug("Asset ingested")

	return &IngestResult{
		Record:  rec,
		Outcome: OutcomeStored,
	}, nil
}

// Delete removes the named asset file and then its metadata records.
func (s *Service) Delete(ctx context.Context, raw string) (_ Outcome, err error) {
	ctx, span := s.tracer.Start(ctx, "assets.Delete")
	defer func() { endSpan(span, err) }()

	logger := s.logger.WithContext(ctx).WithField("file", raw)

	name, err := filename.Sanitize(raw)
	if err != nil {
		logger.WithError(err).Warn("Rejected filename in deletion request")
		return 0, fmt.Errorf("sanitize filename: %w", err)
	}
	span.SetAttributes(attribute.String("asset.file", name.String()))

	exists, err := s.storage.Exists(ctx, name)
	if err != nil {
		logger.WithError(err).Error("Failed to check asset existence")
		return 0, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if !exists {
		return 0, fmt.Errorf("%q: %w", name.String(), ErrNotFound)
	}

	err = s.storage.DeleteObject(ctx, name)
	if err != nil {
		if errors.Is(err, filesystem.ErrNotFound) {
			// lost a race against another deletion
			return 0, fmt.Errorf("%q: %w", name.String(), ErrNotFound)
		}
		logger.WithError(err).Error("Failed to delete asset from storage")
		return 0, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	removed, err := s.journal.RemoveWhere(ctx, func(rec *store.AssetRecord) bool {
		return rec.File == name.String()
	})
	if err != nil {
		logger.WithError(err).Warn("Asset deleted but metadata update failed")
		return OutcomeDeletedWithMetadataWarning, nil
	}
	if removed == 0 {
		logger.Warn("Deleted asset had no metadata record")
	}

	logger.WithField("records_removed", removed).Debug("Asset deleted")

	return OutcomeDeleted, nil
}

// List returns every metadata record in insertion order.
func (s *Service) List(ctx context.Context) (_ []store.AssetRecord, err error) {
	ctx, span := s.tracer.Start(ctx, "assets.List")
	defer func() { endSpan(span, err) }()

	records, err := s.journal.Load(ctx)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to load metadata journal")
		return nil, fmt.Errorf("load metadata: %w", err)
	}
	span.SetAttributes(attribute.Int("asset.count", len(records)))

	return records, nil
}

// Open returns the named asset for reading. The caller must close the returned file.
func (s *Service) Open(ctx context.Context, raw string) (*os.File, os.FileInfo, error) {
	name, err := filename.Sanitize(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("sanitize filename: %w", err)
	}

	f, info, err := s.storage.Open(ctx, name)
	if err != nil {
		if errors.Is(err, filesystem.ErrNotFound) {
			return nil, nil, fmt.Errorf("%q: %w", name.String(), ErrNotFound)
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return f, info, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
