package firebase

import "mime/multipart"

// StorageClient abstracts Firebase Storage operations for dependency injection and testing.
type StorageClient interface {
	UploadProductPhoto(file multipart.File, filename, contentType string) (string, error)
	DeleteFile(objectPath string) error
}

// FirebaseStorageClient is the real implementation that delegates to package-level functions.
type FirebaseStorageClient struct{}

func NewStorageClient() StorageClient {
	return &FirebaseStorageClient{}
}

func (f *FirebaseStorageClient) UploadProductPhoto(file multipart.File, filename, contentType string) (string, error) {
	return UploadProductPhoto(file, filename, contentType)
}

func (f *FirebaseStorageClient) DeleteFile(objectPath string) error {
	return DeleteFile(objectPath)
}
