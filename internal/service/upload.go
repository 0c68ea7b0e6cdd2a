// Copyright (c) 2026 Priceboard Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service contains application services that sit between handlers
// and infrastructure.
package service

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/priceboard/priceboard/internal/imaging"
	"github.com/priceboard/priceboard/internal/util"
)

// Upload limits.
const (
	MaxUploadSize    = 20 * 1024 * 1024 // 20MB
	DefaultUploadDir = "./static/uploads"
)

// thumbsDir is the subdirectory for generated image thumbnails.
const thumbsDir = "thumbs"

// UploadService stores uploaded product images. Files are keyed by their
// sanitized original filename; a later upload with the same name silently
// overwrites the earlier file.
type UploadService struct {
	uploadDir string
}

// NewUploadService creates an upload service rooted at uploadDir.
func NewUploadService(uploadDir string) *UploadService {
	if uploadDir == "" {
		uploadDir = DefaultUploadDir
	}
	return &UploadService{uploadDir: uploadDir}
}

// Save persists an uploaded file under the uploads directory and returns the
// stored filename. Image uploads are re-encoded with EXIF orientation
// applied and get a thumbnail variant; other files are stored verbatim.
func (s *UploadService) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > MaxUploadSize {
		return "", fmt.Errorf("file size exceeds maximum allowed (%d bytes)", MaxUploadSize)
	}

	filename := util.SanitizeFilename(header.Filename)

	data, err := io.ReadAll(io.LimitReader(file, MaxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}
	if len(data) > MaxUploadSize {
		return "", fmt.Errorf("file size exceeds maximum allowed (%d bytes)", MaxUploadSize)
	}

	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}

	if imaging.IsImage(imaging.DetectMimeType(data)) {
		result, err := imaging.Process(bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("processing image: %w", err)
		}

		if err := os.WriteFile(filepath.Join(s.uploadDir, filename), result.Data, 0644); err != nil {
			return "", fmt.Errorf("writing image: %w", err)
		}

		thumbPath := filepath.Join(s.uploadDir, thumbsDir)
		if err := os.MkdirAll(thumbPath, 0755); err != nil {
			return "", fmt.Errorf("creating thumbs directory: %w", err)
		}
		if err := os.WriteFile(filepath.Join(thumbPath, filename), result.Thumbnail, 0644); err != nil {
			return "", fmt.Errorf("writing thumbnail: %w", err)
		}

		return filename, nil
	}

	if err := os.WriteFile(filepath.Join(s.uploadDir, filename), data, 0644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	return filename, nil
}
