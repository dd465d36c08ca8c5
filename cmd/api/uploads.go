package main

import (
	"fmt"
	"net/http"

	"storefront/internal/storage"
)

type createUploadURLsPayload struct {
	Files []storage.UploadRequest `json:"files"`
}

// createUploadURLsHandler issues pre-signed PUT URLs so the admin UI can
// upload product images straight to the bucket. Each file gets its own
// descriptor or its own error; one bad file does not void the batch.
func (app *application) createUploadURLsHandler(w http.ResponseWriter, r *http.Request) {
	if app.storage == nil {
		app.internalServerError(w, r, fmt.Errorf("object storage is not configured"))
		return
	}

	var payload createUploadURLsPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if len(payload.Files) == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("at least one file is required"))
		return
	}
	if len(payload.Files) > 10 {
		app.badRequestResponse(w, r, fmt.Errorf("at most 10 files per request"))
		return
	}

	results := app.storage.PresignUploads(r.Context(), payload.Files)

	failed := 0
	for _, res := range results {
		if res.Error != "" {
			failed++
		}
	}

	data := map[string]any{
		"uploads": results,
		"failed":  failed,
	}
	if err := app.jsonResponse(w, http.StatusCreated, data); err != nil {
		app.internalServerError(w, r, err)
	}
}
