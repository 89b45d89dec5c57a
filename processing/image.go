package processing

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/nfnt/resize"

	"nikodex/config"
	"nikodex/storage"
)

const placeholderSize = 256

// ImageError marks every failure of the image pipeline so handlers can tell them apart
type ImageError struct {
	Reason string
	Err    error
}

func (e *ImageError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *ImageError) Unwrap() error {
	return e.Err
}

// Upload is an image file received from a client
type Upload struct {
	ContentType string
	Size        int64
	Reader      io.Reader
}

var (
	placeholderOnce sync.Once
	placeholder     []byte
)

// Validate checks the declared metadata only, nothing is read
func Validate(u Upload) error {
	if !strings.HasPrefix(u.ContentType, "image/") {
		return &ImageError{Reason: "Not a valid image file"}
	}
	if u.Size <= 0 || u.Size > config.MAX_IMAGE_SIZE {
		return &ImageError{Reason: "File too large"}
	}
	return nil
}

// ConvertToPNG decodes any supported image, shrinks it to fit MAX_IMAGE_DIMENSION and re-encodes it as RGBA PNG
func ConvertToPNG(reader io.Reader, writer io.Writer) (width, height int, err error) {
	// Never trust the declared size
	data, err := io.ReadAll(io.LimitReader(reader, config.MAX_IMAGE_SIZE+1))
	if err != nil {
		return 0, 0, &ImageError{Reason: "Failed to read image", Err: err}
	}
	if int64(len(data)) > config.MAX_IMAGE_SIZE {
		return 0, 0, &ImageError{Reason: "File too large"}
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, &ImageError{Reason: "Failed to open image", Err: err}
	}
	maxDim := uint(config.MAX_IMAGE_DIMENSION)
	if b := img.Bounds(); maxDim > 0 && (uint(b.Dx()) > maxDim || uint(b.Dy()) > maxDim) {
		img = resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)
	}
	rgba := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	if err = png.Encode(writer, rgba); err != nil {
		return 0, 0, &ImageError{Reason: "Failed to encode image", Err: err}
	}
	return rgba.Bounds().Dx(), rgba.Bounds().Dy(), nil
}

// Store validates, converts and saves the upload at path, replacing any previous file
func Store(path string, u Upload) error {
	if err := Validate(u); err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, _, err := ConvertToPNG(u.Reader, &buf); err != nil {
		return err
	}
	if _, err := storage.Default.Save(path, &buf); err != nil {
		return &ImageError{Reason: "Failed to store image", Err: err}
	}
	return nil
}

// Remove deletes the file at path. Missing files are not an error.
func Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := storage.Default.Delete(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &ImageError{Reason: "Failed to delete image", Err: err}
	}
	return nil
}

// Load writes the image at path, or the placeholder when there is none
func Load(path string, writer io.Writer) error {
	if path != "" && storage.Default.Exists(path) {
		if _, err := storage.Default.Load(path, writer); err != nil {
			return &ImageError{Reason: "Failed to load image", Err: err}
		}
		return nil
	}
	_, err := writer.Write(Placeholder())
	return err
}

// NewImageName returns a unique file name for images not keyed by an entity id
func NewImageName() string {
	return uuid.NewString() + ".png"
}

func NikoImageName(id uint64) string {
	return fmt.Sprintf("niko-%d.png", id)
}

// Placeholder returns DEFAULT_IMAGE if it can be read, otherwise a generated grey square
func Placeholder() []byte {
	placeholderOnce.Do(func() {
		if data, err := os.ReadFile(config.DEFAULT_IMAGE); err == nil && len(data) > 0 {
			placeholder = data
			return
		}
		img := image.NewRGBA(image.Rect(0, 0, placeholderSize, placeholderSize))
		draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}}, image.Point{}, draw.Src)
		var buf bytes.Buffer
		_ = png.Encode(&buf, img)
		placeholder = buf.Bytes()
	})
	return placeholder
}
