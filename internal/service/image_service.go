package service

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	// Register decoders for the accepted upload formats.
	_ "image/gif"
	_ "image/png"

	"blogmesh/internal/config"
	"blogmesh/internal/models"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultImageUploadDir       = "images"
	DefaultImageMaxUploadSizeMB = 5
	MaxImageEdge                = 1080
	JPEGQuality                 = 82
	WebPQuality                 = 70
)

// StoredImage names the files written for one upload.
type StoredImage struct {
	Name     string `json:"imageName"`
	WebPName string `json:"webpName"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// ImageStore turns uploads into a resized JPEG master plus a WebP variant on disk.
type ImageStore struct {
	dir      string
	maxBytes int64
}

func NewImageStore(cfg *config.Config) *ImageStore {
	dir := DefaultImageUploadDir
	maxMB := DefaultImageMaxUploadSizeMB
	if cfg != nil {
		if cfg.ImageUploadDir != "" {
			dir = cfg.ImageUploadDir
		}
		if cfg.ImageMaxUploadSizeMB > 0 {
			maxMB = cfg.ImageMaxUploadSizeMB
		}
	}
	return &ImageStore{dir: dir, maxBytes: int64(maxMB) * 1024 * 1024}
}

// Save validates, resizes and stores content.
func (s *ImageStore) Save(contentType string, content []byte) (*StoredImage, error) {
	if len(content) == 0 {
		return nil, models.NewFieldValidationError(map[string]string{"image": "no file uploaded"})
	}
	if int64(len(content)) > s.maxBytes {
		return nil, models.NewFieldValidationError(map[string]string{
			"image": fmt.Sprintf("file too large (max %dMB)", s.maxBytes/(1024*1024)),
		})
	}

	detected := http.DetectContentType(content)
	if !isAllowedImageMIME(detected) {
		return nil, models.NewFieldValidationError(map[string]string{"image": "unsupported image type"})
	}
	if provided := normalizeContentType(contentType); strings.HasPrefix(provided, "image/") && !isAllowedImageMIME(provided) {
		return nil, models.NewFieldValidationError(map[string]string{"image": "unsupported image type"})
	}

	decoded, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, models.NewFieldValidationError(map[string]string{"image": "invalid image file"})
	}

	master := resizeToFit(decoded, MaxImageEdge, MaxImageEdge)
	jpg, err := encodeJPEG(master, JPEGQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	wp, err := encodeWebP(master, WebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	id := uuid.NewString()
	out := &StoredImage{
		Name:     id + ".jpg",
		WebPName: id + ".webp",
		Width:    master.Bounds().Dx(),
		Height:   master.Bounds().Dy(),
	}
	jpgPath := filepath.Join(s.dir, out.Name)
	webpPath := filepath.Join(s.dir, out.WebPName)
	if err := writeBytesToFile(jpgPath, jpg); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := writeBytesToFile(webpPath, wp); err != nil {
		_ = os.Remove(jpgPath)
		return nil, models.NewInternalError(err)
	}
	return out, nil
}

// Remove deletes the files of a stored image. Missing files are ignored.
func (s *ImageStore) Remove(name string) {
	if !isValidImageName(name) {
		return
	}
	base := strings.TrimSuffix(name, filepath.Ext(name))
	_ = os.Remove(filepath.Join(s.dir, base+".jpg"))
	_ = os.Remove(filepath.Join(s.dir, base+".webp"))
}

// Path resolves a stored image name to its file.
func (s *ImageStore) Path(name string) (string, error) {
	if !isValidImageName(name) {
		return "", models.NewNotFoundError("Image", "name", name)
	}
	full := filepath.Join(s.dir, name)
	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return "", models.NewNotFoundError("Image", "name", name)
		}
		return "", models.NewInternalError(err)
	}
	return full, nil
}

// isValidImageName accepts only generated names: a uuid with a .jpg or .webp extension.
func isValidImageName(name string) bool {
	ext := filepath.Ext(name)
	if ext != ".jpg" && ext != ".webp" {
		return false
	}
	_, err := uuid.Parse(strings.TrimSuffix(name, ext))
	return err == nil && !strings.ContainsAny(name, `/\`)
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scale := float64(maxWidth) / float64(w)
	if s := float64(maxHeight) / float64(h); s < scale {
		scale = s
	}
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
