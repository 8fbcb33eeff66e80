// Package http provides HTTP server and handler implementations.
//
// This file implements parsing of the upload form: reading the optional
// spreadsheet part within the configured size limit.

package http

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// uploadField is the multipart field carrying the spreadsheet.
const uploadField = "file"

var (
	// ErrNoFile means the form carried no file, which selects the demo data.
	ErrNoFile = errors.New("no file uploaded")
	// ErrUploadTooLarge means the body exceeded the upload limit.
	ErrUploadTooLarge = errors.New("upload exceeds size limit")
)

// Upload is a file received through the upload form.
type Upload struct {
	Name string
	Data []byte
}

// ParseUpload reads the file part of r, refusing bodies over maxBytes.
// A request without a file or with an empty file returns ErrNoFile.
func ParseUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (Upload, error) {
	if r.ContentLength > maxBytes {
		return Upload{}, ErrUploadTooLarge
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return Upload{}, ErrUploadTooLarge
		case errors.Is(err, http.ErrNotMultipart):
			return Upload{}, ErrNoFile
		default:
			return Upload{}, fmt.Errorf("parse upload form: %w", err)
		}
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(uploadField)
	if errors.Is(err, http.ErrMissingFile) {
		return Upload{}, ErrNoFile
	}
	if err != nil {
		return Upload{}, fmt.Errorf("open uploaded file: %w", err)
	}
	defer file.Close()

	data, err := readPart(file, header, maxBytes)
	if err != nil {
		return Upload{}, err
	}
	if len(data) == 0 && header.Filename == "" {
		return Upload{}, ErrNoFile
	}
	return Upload{Name: sanitizeFileName(header.Filename), Data: data}, nil
}

func readPart(file multipart.File, header *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	if header.Size > maxBytes {
		return nil, ErrUploadTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read uploaded file: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrUploadTooLarge
	}
	return data, nil
}
