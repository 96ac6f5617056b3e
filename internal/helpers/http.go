package helpers

import (
	"encoding/json"
	"net/http"
	"path"
)

// RespondJSON writes body as a JSON document with the given status code.
// A zero status code is treated as http.StatusOK.
func RespondJSON(rw http.ResponseWriter, statusCode int, body any) {
	respBody, err := json.Marshal(body)
	if err != nil {
		http.Error(rw, err.Error(), http.StatusInternalServerError)
		return
	}
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(statusCode)
	_, _ = rw.Write(respBody)
}

// BasePath normalises a service base path to a rooted, clean path without a trailing slash
// (except for the root itself).
func BasePath(basePath string) string {
	return path.Clean("/" + basePath)
}
