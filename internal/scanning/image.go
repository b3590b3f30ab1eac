package scanning

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"strings"

	"github.com/gen2brain/heic"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// validateImage checks that the byte sequence decodes as a well-formed image
// in one of the supported raster formats. HEIC/HEIF needs its own decoder
// because Go's image package does not support it.
func validateImage(imageData []byte, mimeType string) error {
	if len(imageData) == 0 {
		return &InvalidImageError{Reason: fmt.Errorf("empty image data")}
	}

	if isHEICFormat(imageData) || isHEICMimeType(mimeType) {
		if _, err := heic.Decode(bytes.NewReader(imageData)); err != nil {
			return &InvalidImageError{Reason: fmt.Errorf("decoding HEIC/HEIF image: %w", err)}
		}
		return nil
	}

	if _, _, err := image.Decode(bytes.NewReader(imageData)); err != nil {
		return &InvalidImageError{Reason: fmt.Errorf("decoding image: %w", err)}
	}
	return nil
}

// isHEICFormat checks if the image data is in HEIC/HEIF format.
// HEIC files carry an ftyp box at offset 4 with a HEIC-related brand.
func isHEICFormat(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	if string(data[4:8]) != "ftyp" {
		return false
	}
	brand := string(data[8:12])
	return brand == "heic" || brand == "heif" || brand == "mif1" || brand == "msf1"
}

// isHEICMimeType checks if the MIME type indicates HEIC/HEIF format
func isHEICMimeType(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	return mimeType == "image/heic" || mimeType == "image/heif" ||
		strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif")
}

// imageFormat returns the format tag the genai SDK expects, which is the
// MIME subtype ("jpeg", "png", ...) rather than the full MIME type.
func imageFormat(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	format, ok := strings.CutPrefix(mimeType, "image/")
	if !ok || format == "" {
		return "jpeg" // default
	}
	return format
}
