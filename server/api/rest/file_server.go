package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/AimPizza/malbuch/server/internal/assets"
	"github.com/AimPizza/malbuch/server/internal/filename"
	"github.com/AimPizza/malbuch/server/internal/store"
)

const (
	MsgDeleted                = "File deleted"
	MsgDeletedMetadataWarning = "File deleted but metadata update failed"
)

type AssetService interface {
	Delete(ctx context.Context, name string) (assets.Outcome, error)
	List(ctx context.Context) ([]store.AssetRecord, error)
	Open(ctx context.Context, name string) (*os.File, os.FileInfo, error)
}

// FileServer serves the read and delete side of the asset API.
type FileServer struct {
	logger *logrus.Logger
	assets AssetService
}

func NewFileServer(logger *logrus.Logger, assets AssetService) *FileServer {
	return &FileServer{
		logger: logger,
		assets: assets,
	}
}

// Health answers liveness probes.
func Health(w http.ResponseWriter, _ *http.Request) {
	_ = WriteText(w, http.StatusOK, "OK")
}

// ListImageData writes every metadata record as a JSON array. A journal that can't be read is answered with a 500
// and an empty array, so clients can always decode the body.
func (s *FileServer) ListImageData(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.WithContext(r.Context())

	status := http.StatusOK
	records, err := s.assets.List(r.Context())
	if err != nil {
		logger.WithError(err).Error("Failed to list image metadata")
		status = http.StatusInternalServerError
		records = nil
	}
	if records == nil {
		records = []store.AssetRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err = json.NewEncoder(w).Encode(records)
	if err != nil {
		logger.WithError(err).Error("Failed to write image metadata response")
	}
}

// GetImage streams the raw bytes of the named asset.
func (s *FileServer) GetImage(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	logger := s.logger.WithContext(r.Context()).WithField("file", name)

	f, info, err := s.assets.Open(r.Context(), name)
	if err != nil {
		status := StatusFor(err)
		switch status {
		case http.StatusBadRequest:
			logger.WithError(err).Warn("Rejected filename in image request")
			http.Error(w, "Invalid filename", status)
		case http.StatusNotFound:
			http.Error(w, "File not found", status)
		default:
			logger.WithError(err).Error("Failed to open image")
			http.Error(w, "Could not read file", status)
		}
		return
	}
	defer f.Close()

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// DeleteImage removes an asset together with its metadata. It's meant to be registered through RegisterFunc.
func (s *FileServer) DeleteImage(ctx context.Context, req *DeleteImageRequest) (*Text, error) {
	logger := s.logger.WithContext(ctx).WithField("file", req.Name)

	outcome, err := s.assets.Delete(ctx, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, filename.ErrInvalid):
			logger.WithError(err).Warn("Invalid filename in deletion request")
			return nil, NewErrf(http.StatusBadRequest, "Invalid filename")
		case errors.Is(err, assets.ErrNotFound):
			return nil, NewErrf(http.StatusNotFound, "File not found")
		}
		logger.WithError(err).Error("Failed to delete image")
		return nil, fmt.Errorf("could not delete file: %w", err)
	}

	if outcome.MetadataWarning() {
		return NewText(MsgDeletedMetadataWarning), nil
	}

	logger.Debug("Image deleted")

	return NewText(MsgDeleted), nil
}

type DeleteImageRequest struct {
	Name string `json:"name"`
}
