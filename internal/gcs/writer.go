package gcs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
)

// Writer is the concrete implementation of ObjectWriter backed by Google
// Cloud Storage. It assumes Application Default Credentials are configured
// (gcloud auth application-default login).
type Writer struct{}

// NewWriter creates a new GCS-backed object writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteObject implements the ObjectWriter interface.
func (*Writer) WriteObject(ctx context.Context, bucketName, objectName, contentType string, data []byte) error {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("WriteObject: creating storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	obj := client.Bucket(bucketName).Object(objectName)

	w := obj.NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return fmt.Errorf("WriteObject: copying to GCS writer: %w", err)
	}

	// Close to finalize the upload
	if err := w.Close(); err != nil {
		return fmt.Errorf("WriteObject: finalize upload: %w", err)
	}

	return nil
}

// Ensure Writer implements the ObjectWriter interface.
var _ ObjectWriter = (*Writer)(nil)
