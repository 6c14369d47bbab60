package handlers

import "mime/multipart"

type mockStorage struct {
	UploadProductPhotoFn func(file multipart.File, filename, contentType string) (string, error)
	DeleteFileFn         func(objectPath string) error
	DeleteFileCalls      []string
	UploadCallCount      int
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		DeleteFileCalls: []string{},
	}
}

func (m *mockStorage) UploadProductPhoto(file multipart.File, filename, contentType string) (string, error) {
	m.UploadCallCount++
	if m.UploadProductPhotoFn != nil {
		return m.UploadProductPhotoFn(file, filename, contentType)
	}
	return "https://storage.googleapis.com/test-bucket/products/test_photo.jpg", nil
}

func (m *mockStorage) DeleteFile(objectPath string) error {
	m.DeleteFileCalls = append(m.DeleteFileCalls, objectPath)
	if m.DeleteFileFn != nil {
		return m.DeleteFileFn(objectPath)
	}
	return nil
}
