package file

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"math"
	"path"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/clock"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	// MaxPhotoSize bounds the raw upload before compression.
	MaxPhotoSize = 5 << 20
	// MaxPhotoPixels bounds the decoded image, since a small file can
	// declare huge dimensions.
	MaxPhotoPixels = 40_000_000
)

type FileService interface {
	// UploadClockPhoto stores the evidence photo of a clock event as JPEG and
	// returns its storage key.
	UploadClockPhoto(ctx context.Context, tenantID, employeeID string, eventType clock.EventType, at time.Time, photo []byte) (string, error)
	DeleteFile(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadClockPhoto implements FileService. Photos are compressed to roughly
// 50KB - 150KB.
func (s *fileServiceImpl) UploadClockPhoto(ctx context.Context, tenantID, employeeID string, eventType clock.EventType, at time.Time, photo []byte) (string, error) {
	if len(photo) == 0 {
		return "", clock.ErrInvalidPhoto
	}
	if len(photo) > MaxPhotoSize {
		return "", clock.ErrPhotoTooLarge
	}

	compressed, err := compressImage(photo, 150*1024, 50*1024)
	if err != nil {
		return "", err
	}

	// clock/{tenant}/{date}/{employee}-{type}-{uuid}.jpg
	name := fmt.Sprintf("%s-%s-%s.jpg", employeeID, strings.ToLower(string(eventType)), uuid.NewString())
	key := path.Join("clock", tenantID, at.Format("2006-01-02"), name)

	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(compressed), key, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload clock photo: %w", err)
	}
	return uploadedPath, nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

func (s *fileServiceImpl) GetFileURL(ctx context.Context, path string) (string, error) {
	return s.storage.GetURL(ctx, path)
}

// DecodeDataURL extracts the bytes of a "data:image/...;base64," URL. A bare
// base64 string is accepted too.
func DecodeDataURL(dataURL string) ([]byte, error) {
	payload := dataURL
	if strings.HasPrefix(dataURL, "data:") {
		header, data, ok := strings.Cut(dataURL, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, clock.ErrInvalidPhoto
		}
		mediaType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		if mediaType != "image/jpeg" && mediaType != "image/jpg" && mediaType != "image/png" {
			return nil, clock.ErrInvalidPhoto
		}
		payload = data
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxPhotoSize+3 {
		return nil, clock.ErrPhotoTooLarge
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, clock.ErrInvalidPhoto
	}
	return decoded, nil
}

// ==================== HELPER FUNCTIONS ====================

// compressImage re-encodes buffer as JPEG, lowering quality and then size
// until it falls under maxSize. JPEG input already within [minSize, maxSize]
// is kept as is.
func compressImage(buffer []byte, maxSize int, minSize int) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(buffer))
	if err != nil {
		return nil, clock.ErrInvalidPhoto
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPhotoPixels {
		return nil, clock.ErrInvalidPhoto
	}

	img, format, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, clock.ErrInvalidPhoto
	}
	if format == "jpeg" && len(buffer) <= maxSize && len(buffer) >= minSize {
		return buffer, nil
	}

	var compressed []byte
	for quality := 85; quality >= 50; quality -= 5 {
		compressed, err = encodeJPEG(img, quality)
		if err != nil {
			return nil, err
		}
		if len(compressed) <= maxSize {
			return compressed, nil
		}
	}

	// Still too large: scale down towards ~100KB at quality 70
	bounds := img.Bounds()
	ratio := math.Sqrt(float64(100*1024) / float64(len(compressed)))
	newWidth := max(int(float64(bounds.Dx())*ratio), 600)
	newHeight := max(int(float64(bounds.Dy())*ratio), 400)
	if newWidth >= bounds.Dx() || newHeight >= bounds.Dy() {
		return compressed, nil
	}

	return encodeJPEG(resizeImage(img, newWidth, newHeight), 70)
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// Use CatmullRom for high-quality downscaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
