// Package imaging prepares uploaded pictures for ID cards.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// CardPhotoSize is the edge length of the square card photo.
	CardPhotoSize = 300
	// CardPhotoQuality is the JPEG quality of the card photo.
	CardPhotoQuality = 70
	// MaxPixels caps the decoded canvas of an upload. Headers are checked before any pixel buffer is allocated.
	MaxPixels = 50_000_000
)

var (
	// ErrInvalidDataURL is returned for strings that are not base64 image data URLs.
	ErrInvalidDataURL = errors.New("invalid image data url")
	// ErrUndecodable is returned when the bytes are not a supported image.
	ErrUndecodable = errors.New("unsupported image encoding")
)

// DecodeDataURL extracts the payload of a "data:image/<type>;base64,<data>" string.
func DecodeDataURL(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "data:image/") {
		return nil, ErrInvalidDataURL
	}

	header, payload, found := strings.Cut(value, ",")
	if !found || !strings.HasSuffix(header, ";base64") {
		return nil, ErrInvalidDataURL
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		decoded, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
		}
	}
	if len(decoded) == 0 {
		return nil, ErrInvalidDataURL
	}
	return decoded, nil
}

// CompressSquare center-crops the image to a square, scales it to size×size and
// re-encodes it as JPEG. Transparent areas become white.
func CompressSquare(data []byte, size, quality int) ([]byte, error) {
	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if config.Width <= 0 || config.Height <= 0 || int64(config.Width)*int64(config.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d canvas", ErrUndecodable, config.Width, config.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, centerSquare(src.Bounds()), draw.Over, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return out.Bytes(), nil
}

// CardPhoto applies the card photo dimensions and quality.
func CardPhoto(data []byte) ([]byte, error) {
	return CompressSquare(data, CardPhotoSize, CardPhotoQuality)
}

func centerSquare(bounds image.Rectangle) image.Rectangle {
	width, height := bounds.Dx(), bounds.Dy()
	side := width
	if height < side {
		side = height
	}

	x0 := bounds.Min.X + (width-side)/2
	y0 := bounds.Min.Y + (height-side)/2
	return image.Rect(x0, y0, x0+side, y0+side)
}
