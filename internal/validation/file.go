package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// FileConstraints defines validation rules for file uploads
type FileConstraints struct {
	AllowedMimeTypes  map[string]bool
	AllowedExtensions map[string]bool
	MaxSize           int64
	SkipContentSniff  bool // binary formats http.DetectContentType cannot identify
}

var (
	// ImageConstraints defines validation rules for scene image uploads
	ImageConstraints = FileConstraints{
		AllowedMimeTypes: map[string]bool{
			"image/jpeg": true,
			"image/png":  true,
			"image/webp": true,
			"image/gif":  true,
		},
		AllowedExtensions: map[string]bool{
			".jpg":  true,
			".jpeg": true,
			".png":  true,
			".webp": true,
			".gif":  true,
		},
		MaxSize: 10 << 20, // 10MB
	}

	// ModelConstraints defines validation rules for 3D model uploads.
	// GLB is a binary container; content sniffing reports it as
	// application/octet-stream, so only extension and size are checked.
	ModelConstraints = FileConstraints{
		AllowedMimeTypes: map[string]bool{
			"model/gltf-binary":        true,
			"application/octet-stream": true,
		},
		AllowedExtensions: map[string]bool{
			".glb":  true,
			".gltf": true,
		},
		MaxSize:          50 << 20, // 50MB
		SkipContentSniff: true,
	}
)

// ValidateFile validates a file upload against one or more constraint sets.
// If multiple constraints are provided, file must match at least one.
func ValidateFile(header *multipart.FileHeader, constraints ...FileConstraints) error {
	if len(constraints) == 0 {
		return fmt.Errorf("no file constraints provided")
	}

	var lastErr error
	for _, constraint := range constraints {
		err := validateAgainstConstraint(header, constraint)
		if err == nil {
			return nil
		}
		lastErr = err
	}

	return lastErr
}

func validateAgainstConstraint(header *multipart.FileHeader, constraints FileConstraints) error {
	// Check file size first (before reading content)
	if header.Size > constraints.MaxSize {
		maxMB := constraints.MaxSize / (1 << 20)
		return fmt.Errorf("file too large: maximum size is %d MB", maxMB)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !constraints.AllowedExtensions[ext] {
		return fmt.Errorf("file extension %q is not allowed", ext)
	}

	if constraints.SkipContentSniff {
		return nil
	}

	// Read magic numbers; the declared Content-Type header is
	// client-controlled and not trusted.
	file, err := header.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file: %w", err)
	}

	detected := http.DetectContentType(buf[:n])
	if !constraints.AllowedMimeTypes[detected] {
		return fmt.Errorf("file type %q is not allowed", detected)
	}

	return nil
}
