package rest

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"github.com/sirupsen/logrus"
)

// RegisterRoutes registers the asset API on mux.
func RegisterRoutes(logger *logrus.Logger, mux *http.ServeMux, files *FileServer, uploads *UploadServer) {
	mux.HandleFunc("GET /health", Health)
	// the listing grows with the journal, everything else is either tiny or already compressed image data
	mux.Handle("GET /imageData", gzhttp.GzipHandler(http.HandlerFunc(files.ListImageData)))
	mux.HandleFunc("GET /image/{name}", files.GetImage)
	mux.HandleFunc("POST /image", uploads.UploadImage)
	RegisterFunc(logger, mux, http.MethodDelete, "/image/{name}", files.DeleteImage)
}
