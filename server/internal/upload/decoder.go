package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultMaxBytes is the default ceiling on the total size of an upload request.
const DefaultMaxBytes = 10_000_000

const (
	FieldFile         = "file"
	FieldTitle        = "title"
	FieldCreationDate = "creationDate"
)

var (
	ErrTooLarge     = errors.New("upload exceeds the size limit")
	ErrTransport    = errors.New("upload error")
	ErrNotMultipart = errors.New("request is not a multipart form")
	ErrNoFile       = errors.New("no file provided")
	ErrNoFilename   = errors.New("file part has no filename")
)

// Upload is a fully decoded upload request.
type Upload struct {
	Payload      []byte
	Filename     string
	Title        *string
	CreationDate *time.Time
}

// PartReader is a stream of multipart parts; *multipart.Reader implements it.
type PartReader interface {
	NextPart() (*multipart.Part, error)
}

// Decoder decodes multipart upload requests while enforcing a ceiling on their total size.
type Decoder struct {
	logger   *logrus.Logger
	maxBytes int64
}

func NewDecoder(logger *logrus.Logger, maxBytes int64) *Decoder {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Decoder{
		logger:   logger,
		maxBytes: maxBytes,
	}
}

func (d *Decoder) MaxBytes() int64 {
	return d.maxBytes
}

// DecodeRequest decodes the multipart body of r. A declared Content-Length above the ceiling is rejected before the
// body is touched; bodies of unknown length are cut off as soon as they cross it.
func (d *Decoder) DecodeRequest(w http.ResponseWriter, r *http.Request) (*Upload, error) {
	if r.ContentLength > d.maxBytes {
		return nil, fmt.Errorf("%w: content length %d exceeds %d bytes", ErrTooLarge, r.ContentLength, d.maxBytes)
	}
	r.Body = http.MaxBytesReader(w, r.Body, d.maxBytes)

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMultipart, err)
	}

	return d.Decode(r.Context(), mr)
}

// Decode makes a single pass over the part stream. Only the parts it recognises are read into memory, every other
// part is skipped. A transport failure on any part aborts the whole decode.
func (d *Decoder) Decode(ctx context.Context, parts PartReader) (*Upload, error) {
	logger := d.logger.WithContext(ctx)

	var (
		up       Upload
		haveFile bool
		budget   = d.maxBytes
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTransport, err)
		}

		part, err := parts.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, classify(err)
		}

		err = d.decodePart(part, &up, &haveFile, &budget, logger)
		_ = part.Close()
		if err != nil {
			return nil, err
		}
	}

	if !haveFile {
		return nil, ErrNoFile
	}

	return &up, nil
}

func (d *Decoder) decodePart(part *multipart.Part, up *Upload, haveFile *bool, budget *int64, logger *logrus.Entry) error {
	switch part.FormName() {
	case FieldFile:
		if *haveFile {
			logger.Debug("Ignoring additional file part in upload")
			return drain(part)
		}

		name := rawFileName(part)
		if name == "" {
			return ErrNoFilename
		}

		data, err := readPart(part, budget)
		if err != nil {
			return err
		}
		up.Payload = data
		up.Filename = name
		*haveFile = true

	case FieldTitle:
		data, err := readPart(part, budget)
		if err != nil {
			return err
		}
		title := strings.ToValidUTF8(string(data), "\uFFFD")
		up.Title = &title

	case FieldCreationDate:
		data, err := readPart(part, budget)
		if err != nil {
			return err
		}
		created, err := time.Parse(time.RFC3339, strings.TrimSpace(string(data)))
		if err != nil {
			// not fatal, the ingestion time is used instead
			logger.WithError(err).Debug("Ignoring unparseable creation date in upload")
			up.CreationDate = nil
			return nil
		}
		up.CreationDate = &created

	default:
		return drain(part)
	}

	return nil
}

// rawFileName returns the filename parameter of the part's Content-Disposition as sent by the client.
// multipart.Part.FileName strips directory components, which would hide path traversal attempts from validation.
func rawFileName(part *multipart.Part) string {
	_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if err != nil {
		return part.FileName()
	}
	return params["filename"]
}

// readPart reads the whole part, failing with ErrTooLarge once the remaining budget is exceeded.
func readPart(part io.Reader, budget *int64) ([]byte, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(part, *budget+1))
	if err != nil {
		return nil, classify(err)
	}
	if n > *budget {
		return nil, ErrTooLarge
	}
	*budget -= n

	return buf.Bytes(), nil
}

func drain(part io.Reader) error {
	_, err := io.Copy(io.Discard, part)
	if err != nil {
		return classify(err)
	}
	return nil
}

func classify(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, maxErr.Limit)
	}
	return fmt.Errorf("%w: %w", ErrTransport, err)
}
