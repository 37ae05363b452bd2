package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/AimPizza/malbuch/server/internal/assets"
	"github.com/AimPizza/malbuch/server/internal/filename"
	"github.com/AimPizza/malbuch/server/internal/upload"
)

const MsgUploaded = "Uploaded"

type UploadDecoder interface {
	DecodeRequest(w http.ResponseWriter, r *http.Request) (*upload.Upload, error)
}

type Ingester interface {
	Ingest(ctx context.Context, up *upload.Upload) (*assets.IngestResult, error)
}

type UploadServer struct {
	logger   *logrus.Logger
	decoder  UploadDecoder
	ingester Ingester
}

func NewUploadServer(logger *logrus.Logger, decoder UploadDecoder, ingester Ingester) *UploadServer {
	return &UploadServer{
		logger:   logger,
		decoder:  decoder,
		ingester: ingester,
	}
}

// UploadImage accepts a multipart upload and stores it. Nothing is written to storage unless the whole request was
// decoded successfully.
func (s *UploadServer) UploadImage(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.WithContext(r.Context())

	up, err := s.decoder.DecodeRequest(w, r)
	if err != nil {
		status := StatusFor(err)
		logger.WithError(err).WithField("status", status).Warn("Failed to decode upload request")
		switch {
		case errors.Is(err, upload.ErrNoFile):
			http.Error(w, "No file provided", status)
		case errors.Is(err, upload.ErrTooLarge):
			http.Error(w, "Upload too large", status)
		default:
			http.Error(w, "Invalid upload: "+err.Error(), status)
		}
		return
	}

	logger = logger.WithFields(logrus.Fields{
		"file": up.Filename,
		"size": len(up.Payload),
	})

	res, err := s.ingester.Ingest(r.Context(), up)
	if err != nil {
		if errors.Is(err, filename.ErrInvalid) {
			logger.WithError(err).Warn("Invalid filename in upload request")
			http.Error(w, "Invalid filename", http.StatusBadRequest)
			return
		}
		logger.WithError(err).Error("Failed to store uploaded image")
		http.Error(w, "Could not save file", StatusFor(err))
		return
	}

	if res.Outcome.MetadataWarning() {
		logger.WithError(res.MetadataErr).Warn("Image uploaded without a metadata record")
	}

	err = WriteText(w, http.StatusCreated, MsgUploaded)
	if err != nil {
		logger.WithError(err).Error("Failed to write upload response")
		return
	}
	logger.Debug("Successfully uploaded image")
}
