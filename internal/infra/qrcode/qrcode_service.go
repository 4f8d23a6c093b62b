package qrcode

import (
	"net/url"
	"strings"

	"blog/config"
	"blog/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const (
	defaultSize    = 256
	defaultBaseURL = "http://localhost:8080"
	postPathPrefix = "/posts/slug/"
)

type qrcodeService struct {
	baseURL              string
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(baseURL string, size int, errorCorrectionLevel string) service.QRCodeService {
	var level qrcode.RecoveryLevel
	switch strings.ToUpper(errorCorrectionLevel) {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	if size <= 0 {
		size = defaultSize
	}

	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &qrcodeService{
		baseURL:              baseURL,
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// NewFromConfig builds the service from the http and qrcode sections.
func NewFromConfig(cfg *config.Config) service.QRCodeService {
	var size int
	var level string
	if cfg.QRCode != nil {
		size = cfg.QRCode.Size
		level = cfg.QRCode.ErrorCorrectionLevel
	}

	return NewQRCodeService(cfg.HTTP.PublicBaseURL, size, level)
}

// PostURL returns the public URL of the post with the given slug
func (s *qrcodeService) PostURL(slug string) string {
	return s.baseURL + postPathPrefix + url.PathEscape(slug)
}

// GeneratePostQR generates a PNG share code for the post URL
func (s *qrcodeService) GeneratePostQR(slug string) ([]byte, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, errors.New("slug is required")
	}

	qrCode, err := qrcode.New(s.PostURL(slug), s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}
