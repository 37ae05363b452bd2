package jsondb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AimPizza/malbuch/server/internal/store"
)

var (
	ErrCorrupt = errors.New("journal document is corrupt")
)

type Emitter interface {
	Emit(ctx context.Context, event *store.Event) error
}

// Journal is the flat, ordered collection of asset records persisted as a single JSON document.
// Every mutation reads the whole document, changes it in memory and rewrites it. The read-modify-write cycle runs
// under the journal's mutex, so concurrent Append and RemoveWhere calls can't drop each other's updates.
// It is only safe for a single process owning the document.
type Journal struct {
	logger  *logrus.Logger
	path    string
	emitter Emitter

	mu sync.RWMutex
}

// New initialises the journal document at path, if it does not exist yet, and returns a Journal owning it.
// The emitter is optional; when provided it receives an event for every committed mutation.
func New(logger *logrus.Logger, path string, e Emitter) (*Journal, error) {
	logger.WithField("path", path).Info("Opening metadata journal")

	err := Init(path)
	if err != nil {
		return nil, err
	}

	return &Journal{
		logger:  logger,
		path:    path,
		emitter: e,
	}, nil
}

// Init creates an empty journal document, and its parent directories, if there isn't one at path already.
// An existing document is left untouched, even if it can't be parsed.
func Init(path string) error {
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return fmt.Errorf("create journal directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil
		}
		return fmt.Errorf("create journal document: %w", err)
	}
	defer f.Close()

	_, err = f.WriteString("[]")
	if err != nil {
		return fmt.Errorf("write empty journal document: %w", err)
	}

	return nil
}

func (j *Journal) Path() string {
	return j.path
}

// Load returns all records in insertion order. A missing or unparseable document is reported as an error; the
// document is never rewritten as a side effect.
func (j *Journal) Load(context.Context) ([]store.AssetRecord, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return j.read()
}

// Append adds the record to the end of the journal.
func (j *Journal) Append(ctx context.Context, rec *store.AssetRecord) error {
	if rec == nil || rec.File == "" {
		return errors.New("file is required for appending a record")
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	records, err := j.read()
	if err != nil {
		return err
	}

	records = append(records, *rec)

	err = j.write(records)
	if err != nil {
		return err
	}

	j.emit(ctx, store.EventIngested, rec)

	return nil
}

// RemoveWhere drops every record matching pred and returns how many were removed. The document is only rewritten
// when at least one record matched.
func (j *Journal) RemoveWhere(ctx context.Context, pred func(rec *store.AssetRecord) bool) (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	records, err := j.read()
	if err != nil {
		return 0, err
	}

	var removed []store.AssetRecord
	remaining := slices.DeleteFunc(records, func(rec store.AssetRecord) bool {
		if pred(&rec) {
			removed = append(removed, rec)
			return true
		}
		return false
	})
	if len(removed) == 0 {
		return 0, nil
	}

	err = j.write(remaining)
	if err != nil {
		return 0, err
	}

	for i := range removed {
		j.emit(ctx, store.EventDeleted, &removed[i])
	}

	return len(removed), nil
}

func (j *Journal) read() ([]store.AssetRecord, error) {
	data, err := os.ReadFile(j.path)
	if err != nil {
		return nil, fmt.Errorf("read journal document: %w", err)
	}

	var records []store.AssetRecord
	err = json.Unmarshal(data, &records)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if records == nil {
		records = []store.AssetRecord{}
	}

	return records, nil
}

// write replaces the journal document by writing to a temporary sibling file first and renaming it over the
// document, so a crash mid-write can't leave a truncated journal behind.
func (j *Journal) write(records []store.AssetRecord) (err error) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode journal document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(j.path), filepath.Base(j.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary journal document: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	_, err = tmp.Write(data)
	if err != nil {
		return fmt.Errorf("write temporary journal document: %w", err)
	}
	err = tmp.Sync()
	if err != nil {
		return fmt.Errorf("sync temporary journal document: %w", err)
	}
	err = tmp.Close()
	if err != nil {
		return fmt.Errorf("close temporary journal document: %w", err)
	}

	err = os.Rename(tmp.Name(), j.path)
	if err != nil {
		return fmt.Errorf("replace journal document: %w", err)
	}

	return nil
}

// emit publishes a committed change. Failing to emit doesn't undo the mutation, it's only logged.
func (j *Journal) emit(ctx context.Context, typ store.EventType, rec *store.AssetRecord) {
	if j.emitter == nil {
		return
	}

	cp := *rec
	err := j.emitter.Emit(ctx, &store.Event{
		Type:   typ,
		Record: &cp,
		At:     time.Now().UTC(),
	})
	if err != nil {
		j.logger.WithContext(ctx).WithError(err).WithFields(logrus.Fields{
			"file":  rec.File,
			"event": typ,
		}).Warn("Failed to emit journal event")
	}
}
