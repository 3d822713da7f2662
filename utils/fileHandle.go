package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UploadDir is where uploaded media is written and served from.
var UploadDir = "./uploads"

var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true, ".gif": true}

// SaveUploadedImage stores an uploaded image under UploadDir/subdir and returns its public URL.
func SaveUploadedImage(file *multipart.FileHeader, subdir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExts[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	destDir := filepath.Join(UploadDir, subdir)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(destDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return GetFileURL(subdir + "/" + name), nil
}

func GetFileURL(relPath string) string {
	if relPath == "" {
		return ""
	}
	return "/uploads/" + relPath
}
