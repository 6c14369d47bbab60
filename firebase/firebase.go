package firebase

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go"
	"google.golang.org/api/option"
)

var App *firebase.App

// sanitizeFilename removes special characters from filenames and limits length.
func sanitizeFilename(filename string) string {
	// Replace path separators and other dangerous characters
	re := regexp.MustCompile(`[^a-zA-Z0-9._-]`)
	sanitized := re.ReplaceAllString(filename, "_")

	// Limit length to 100 characters
	if len(sanitized) > 100 {
		sanitized = sanitized[:100]
	}

	// Ensure it's not empty
	if sanitized == "" || sanitized == "." || sanitized == ".." {
		sanitized = "file"
	}

	return sanitized
}

func Init() {
	credJSON := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")

	var opts []option.ClientOption

	if credJSON != "" {
		if strings.HasPrefix(credJSON, "{") {
			log.Println("Using Firebase credentials from environment variable")
			opts = append(opts, option.WithCredentialsJSON([]byte(credJSON)))
		} else {
			// It's a file path
			log.Println("Using Firebase credentials from file:", credJSON)
			opts = append(opts, option.WithCredentialsFile(credJSON))
		}
	} else {
		log.Println("Warning: GOOGLE_APPLICATION_CREDENTIALS not set, using default credentials")
	}

	app, err := firebase.NewApp(context.Background(), nil, opts...)
	if err != nil {
		log.Fatalf("Firebase init failed: %v", err)
	}

	App = app
	log.Println("Firebase initialized successfully")
}

func UploadProductPhoto(
	file multipart.File,
	filename string,
	contentType string,
) (string, error) {

	if App == nil {
		return "", fmt.Errorf("firebase app not initialized")
	}

	ctx := context.Background()
	bucketName := os.Getenv("FIREBASE_STORAGE_BUCKET")
	if bucketName == "" {
		return "", fmt.Errorf("FIREBASE_STORAGE_BUCKET not set")
	}

	client, err := App.Storage(ctx)
	if err != nil {
		return "", err
	}

	objectPath := fmt.Sprintf(
		"products/%d_%s",
		time.Now().Unix(),
		sanitizeFilename(filename),
	)

	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return "", err
	}

	obj := bucket.Object(objectPath)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType

	if _, err := io.Copy(wc, file); err != nil {
		wc.Close()
		return "", err
	}

	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload: %v", err)
	}

	// Make object publicly readable so the URL works without authentication
	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		log.Printf("Warning: failed to set public ACL on %s: %v", objectPath, err)
	}

	return fmt.Sprintf(
		"https://storage.googleapis.com/%s/%s",
		bucketName,
		objectPath,
	), nil
}

// DeleteFile deletes a file from Firebase Storage given its object path
func DeleteFile(objectPath string) error {
	if App == nil {
		return fmt.Errorf("firebase app not initialized")
	}

	ctx := context.Background()
	bucketName := os.Getenv("FIREBASE_STORAGE_BUCKET")
	if bucketName == "" {
		return fmt.Errorf("FIREBASE_STORAGE_BUCKET not set")
	}

	client, err := App.Storage(ctx)
	if err != nil {
		return err
	}

	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return err
	}

	obj := bucket.Object(objectPath)
	if err := obj.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object %s: %v", objectPath, err)
	}

	log.Printf("Deleted file %s from bucket %s", objectPath, bucketName)
	return nil
}
