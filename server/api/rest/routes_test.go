package rest_test

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AimPizza/malbuch/server/api/rest"
	"github.com/AimPizza/malbuch/server/internal/assets"
	"github.com/AimPizza/malbuch/server/internal/blobstorage/filesystem"
	"github.com/AimPizza/malbuch/server/internal/store/jsondb"
	"github.com/AimPizza/malbuch/server/internal/upload"
)

type testServer struct {
	mux        *http.ServeMux
	contentDir string
}

func newTestServer(t *testing.T, maxUploadBytes int64) *testServer {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	contentDir := filepath.Join(t.TempDir(), "content")
	fs, err := filesystem.New(logger, contentDir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = fs.Close() })

	journal, err := jsondb.New(logger, filepath.Join(t.TempDir(), "image-metadata.json"), nil)
	require.NoError(t, err)

	svc := assets.NewService(logger, fs, journal)
	mux := http.NewServeMux()
	rest.RegisterRoutes(logger, mux,
		rest.NewFileServer(logger, svc),
		rest.NewUploadServer(logger, upload.NewDecoder(logger, maxUploadBytes), svc),
	)

	return &testServer{mux: mux, contentDir: contentDir}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) upload(t *testing.T, name string, payload []byte) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	w, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/image", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.do(req)
}

func TestAssetLifecycle(t *testing.T) {
	srv := newTestServer(t, 0)

	rr := srv.upload(t, "cat.png", []byte("meow!"))
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "Uploaded", rr.Body.String())

	rr = srv.do(httptest.NewRequest(http.MethodGet, "/imageData", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	records := decodeRecords(t, rr.Body.Bytes())
	require.Len(t, records, 1)
	assert.Equal(t, "cat.png", records[0].File)
	assert.EqualValues(t, 5, records[0].SizeBytes)
	assert.Nil(t, records[0].Title)
	assert.False(t, records[0].CreationDate.IsZero())
	assert.Equal(t, records[0].CreationDate, records[0].LastModified)

	rr = srv.do(httptest.NewRequest(http.MethodGet, "/image/cat.png", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "meow!", rr.Body.String())

	rr = srv.do(httptest.NewRequest(http.MethodDelete, "/image/cat.png", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "File deleted", rr.Body.String())

	rr = srv.do(httptest.NewRequest(http.MethodGet, "/imageData", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decodeRecords(t, rr.Body.Bytes()))

	rr = srv.do(httptest.NewRequest(http.MethodGet, "/image/cat.png", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = srv.do(httptest.NewRequest(http.MethodDelete, "/image/cat.png", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestOversizeUploadLeavesNoTrace(t *testing.T) {
	srv := newTestServer(t, 1024)

	rr := srv.upload(t, "big.png", bytes.Repeat([]byte("a"), 4096))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.NoFileExists(t, filepath.Join(srv.contentDir, "big.png"))

	rr = srv.do(httptest.NewRequest(http.MethodGet, "/imageData", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decodeRecords(t, rr.Body.Bytes()))

	staged, err := os.ReadDir(filepath.Join(srv.contentDir, filesystem.StagingDir))
	require.NoError(t, err)
	assert.Empty(t, staged)
}

func TestUploadRejections(t *testing.T) {
	srv := newTestServer(t, 0)

	rr := srv.upload(t, "../escape.png", []byte("x"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(srv.contentDir), "escape.png"))

	req := httptest.NewRequest(http.MethodPost, "/image", bytes.NewBufferString("not a form"))
	req.Header.Set("Content-Type", "text/plain")
	rr = srv.do(req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = srv.do(httptest.NewRequest(http.MethodDelete, "/image/..%2Fescape.png", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListingIsCompressed(t *testing.T) {
	srv := newTestServer(t, 0)
	for i := range 30 {
		rr := srv.upload(t, fmt.Sprintf("photo-%02d.png", i), []byte("pixels"))
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/imageData", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := srv.do(req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(rr.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Len(t, decodeRecords(t, body), 30)
}
