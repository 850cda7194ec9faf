package cmd

import (
	"errors"
	"fmt"
)

// StateConflictError is returned when an operation is attempted while its
// track already has a request in flight.
type StateConflictError struct {
	Op string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("%s already in progress", e.Op)
}

// ErrNoFileSelected is returned by BeginUpload when no file has been chosen.
var ErrNoFileSelected = errors.New("no file selected")

// Notification texts for the upload, ingest, and model download pipelines.
// Wording matches the product's established messages.
const (
	msgUploadSuccess   = "Document Upload Successful"
	msgUploadFailed    = "Error Uploading document"
	msgIngestSuccess   = "Successfully indexed data."
	msgIngestFailed    = "Error Ingesting data."
	msgDownloadSuccess = "Model download complete."
	msgDownloadFailed  = "Error downloading model."
)

// UploadController owns the file-selection -> upload track. At most one
// upload is in flight; any outcome returns the track to idle and clears the
// selected file.
type UploadController struct {
	selectedFile string
	uploading    bool
}

func NewUploadController() *UploadController { return &UploadController{} }

// SelectFile stores the chosen file without starting network I/O. Selection
// is only valid while the track is idle.
func (u *UploadController) SelectFile(path string) error {
	if u.uploading {
		return &StateConflictError{Op: "upload"}
	}
	u.selectedFile = path
	return nil
}

// SelectedFile returns the staged file path, or "" when none is chosen.
func (u *UploadController) SelectedFile() string { return u.selectedFile }

// Uploading reports whether an upload is in flight.
func (u *UploadController) Uploading() bool { return u.uploading }

// BeginUpload transitions the track to uploading and hands back the staged
// file path. Rejected while an upload is in flight or when no file is
// selected.
func (u *UploadController) BeginUpload() (string, error) {
	if u.uploading {
		return "", &StateConflictError{Op: "upload"}
	}
	if u.selectedFile == "" {
		return "", ErrNoFileSelected
	}
	u.uploading = true
	return u.selectedFile, nil
}

// FinishUpload returns the track to idle regardless of outcome and clears
// the selected file so the picker starts fresh.
func (u *UploadController) FinishUpload() {
	u.uploading = false
	u.selectedFile = ""
}

// UploadOutcome converts an upload result into the user notification text
// and whether it is a success.
func UploadOutcome(err error) (string, bool) {
	if err == nil {
		return msgUploadSuccess, true
	}
	var terr *TransportError
	if errors.As(err, &terr) && terr.Detail() != "" {
		return msgUploadFailed + "." + terr.Detail(), false
	}
	return msgUploadFailed, false
}

// IngestController owns the ingestion track. Ingestion (re)indexes whatever
// is already stored server-side, so it runs independently of uploads.
type IngestController struct {
	ingesting bool
}

func NewIngestController() *IngestController { return &IngestController{} }

// Ingesting reports whether an ingestion run is in flight.
func (c *IngestController) Ingesting() bool { return c.ingesting }

// BeginIngest transitions the track to ingesting. Rejected while a run is
// already in flight.
func (c *IngestController) BeginIngest() error {
	if c.ingesting {
		return &StateConflictError{Op: "ingest"}
	}
	c.ingesting = true
	return nil
}

// FinishIngest returns the track to idle regardless of outcome.
func (c *IngestController) FinishIngest() {
	c.ingesting = false
}

// IngestOutcome converts an ingest result into the user notification text
// and whether it is a success.
func IngestOutcome(report string, err error) (string, bool) {
	if err == nil {
		return msgIngestSuccess + report, true
	}
	var terr *TransportError
	if errors.As(err, &terr) && terr.Detail() != "" {
		return msgIngestFailed + terr.Detail(), false
	}
	return msgIngestFailed, false
}

// DownloadOutcome converts a model download result into the user
// notification text and whether it is a success.
func DownloadOutcome(report string, err error) (string, bool) {
	if err == nil {
		return msgDownloadSuccess + " " + report, true
	}
	var terr *TransportError
	if errors.As(err, &terr) && terr.Detail() != "" {
		return msgDownloadFailed + " " + terr.Detail(), false
	}
	return msgDownloadFailed, false
}
