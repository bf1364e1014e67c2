package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// SaveScreenshot writes raw RGBA pixels as a timestamped PNG in dir.
// The rows are flipped vertically since OpenGL reads pixels with the
// origin at the bottom-left. Returns the written filename.
func SaveScreenshot(dir string, pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		srcY := height - 1 - y // Flip Y
		copy(img.Pix[y*img.Stride:y*img.Stride+rowSize], pixels[srcY*rowSize:srcY*rowSize+rowSize])
	}

	filename := fmt.Sprintf("screenshot_%s.png", time.Now().Format("2006-01-02_15-04-05"))
	if dir != "" {
		filename = filepath.Join(dir, filename)
	}

	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}

	return filename, nil
}
