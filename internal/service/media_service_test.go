package service

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/idcard-api/pkg/imaging"
)

func TestMediaServiceCompressesPhotos(t *testing.T) {
	storage := newFakeStorage()
	svc := NewMediaService(storage, 5, testLogger())

	url, err := svc.Store(context.Background(), ImageKindPhoto, &ImageUpload{Name: "kid.png", Data: pngImage(t, 800, 600)})
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/kid.jpg", url)

	decoded, err := jpeg.Decode(bytes.NewReader(storage.uploads["kid.jpg"]))
	require.NoError(t, err)
	require.Equal(t, imaging.CardPhotoSize, decoded.Bounds().Dx())
	require.Equal(t, imaging.CardPhotoSize, decoded.Bounds().Dy())
}

func TestMediaServiceKeepsLogosAsUploaded(t *testing.T) {
	storage := newFakeStorage()
	svc := NewMediaService(storage, 5, testLogger())
	logo := pngImage(t, 120, 40)

	url, err := svc.Store(context.Background(), ImageKindLogo, &ImageUpload{Data: logo})
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/logo.png", url)
	require.Equal(t, logo, storage.uploads["logo.png"])
}

func TestMediaServiceRejectsInvalidPayloads(t *testing.T) {
	storage := newFakeStorage()
	svc := NewMediaService(storage, 1, testLogger())
	ctx := context.Background()

	_, err := svc.Store(ctx, ImageKindPhoto, nil)
	require.ErrorIs(t, err, ErrImageRequired)

	_, err = svc.Store(ctx, ImageKindPhoto, &ImageUpload{Name: "notes.txt", Data: []byte("plain text, not a picture")})
	require.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = svc.Store(ctx, ImageKindSignature, &ImageUpload{Data: make([]byte, 2*1024*1024)})
	require.ErrorIs(t, err, ErrImageTooLarge)

	require.Empty(t, storage.uploads)
}

func TestMediaServiceRejectsOversizedPhotoCanvas(t *testing.T) {
	storage := newFakeStorage()
	svc := NewMediaService(storage, 5, testLogger())

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], 40000)
	binary.BigEndian.PutUint32(ihdr[4:8], 40000)
	ihdr[8], ihdr[9] = 8, 6
	chunk := append([]byte("IHDR"), ihdr...)

	var header bytes.Buffer
	header.WriteString("\x89PNG\r\n\x1a\n")
	require.NoError(t, binary.Write(&header, binary.BigEndian, uint32(len(ihdr))))
	header.Write(chunk)
	require.NoError(t, binary.Write(&header, binary.BigEndian, crc32.ChecksumIEEE(chunk)))

	_, err := svc.Store(context.Background(), ImageKindPhoto, &ImageUpload{Name: "huge.png", Data: header.Bytes()})
	require.ErrorIs(t, err, ErrUnsupportedImage)
	require.ErrorContains(t, err, "40000x40000")
	require.Empty(t, storage.uploads)
}

func TestMediaServiceSurfacesStorageErrors(t *testing.T) {
	storage := newFakeStorage()
	storage.err = errors.New("cloud down")
	svc := NewMediaService(storage, 5, testLogger())

	_, err := svc.Store(context.Background(), ImageKindSignature, &ImageUpload{Data: pngImage(t, 10, 10)})
	require.EqualError(t, err, "cloud down")
}
