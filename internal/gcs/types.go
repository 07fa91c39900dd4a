package gcs

import (
	"context"
)

// ObjectWriter provides an interface for writing report objects to cloud
// storage. This interface enables mocking and testing of export
// functionality.
type ObjectWriter interface {
	// WriteObject writes data to a storage bucket under the given object
	// name with the given content type.
	WriteObject(ctx context.Context, bucketName, objectName, contentType string, data []byte) error
}
