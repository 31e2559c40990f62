package imagecheck

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"lookbook-server-go/internal/platform/logging"
)

const (
	userAgent = "Lookbook-Validator/1.0"

	// maxTransportErrLen bounds transport diagnostics embedded in messages.
	maxTransportErrLen = 100
)

// Policy carries the budgets for both checks.
type Policy struct {
	ProbeTimeout    time.Duration
	DownloadTimeout time.Duration
	MaxBytes        int64
	MinBytes        int64
	MinWidth        int
	MinHeight       int
}

// DefaultPolicy mirrors the pipeline defaults: 10s probe, 15s download,
// 10 MiB ceiling, 1000-byte floor, 100x100 minimum dimensions.
func DefaultPolicy() Policy {
	return Policy{
		ProbeTimeout:    10 * time.Second,
		DownloadTimeout: 15 * time.Second,
		MaxBytes:        10 * 1024 * 1024,
		MinBytes:        1000,
		MinWidth:        100,
		MinHeight:       100,
	}
}

// Checker performs the two remote image checks. The probe is cheap and
// header-only; the integrity check downloads and fully decodes the body.
// Both are safe for concurrent use.
type Checker struct {
	policy Policy
	client *http.Client
	logger *logging.Logger
}

func NewChecker(policy Policy, logger *logging.Logger) *Checker {
	def := DefaultPolicy()
	if policy.ProbeTimeout <= 0 {
		policy.ProbeTimeout = def.ProbeTimeout
	}
	if policy.DownloadTimeout <= 0 {
		policy.DownloadTimeout = def.DownloadTimeout
	}
	if policy.MaxBytes <= 0 {
		policy.MaxBytes = def.MaxBytes
	}
	if policy.MinBytes <= 0 {
		policy.MinBytes = def.MinBytes
	}
	if policy.MinWidth <= 0 {
		policy.MinWidth = def.MinWidth
	}
	if policy.MinHeight <= 0 {
		policy.MinHeight = def.MinHeight
	}

	return &Checker{
		policy: policy,
		client: &http.Client{},
		logger: logger,
	}
}

// CheckReachability verifies the URL answers a HEAD request with an image
// content type within the size ceiling. It never fetches the body.
func (c *Checker) CheckReachability(ctx context.Context, url string) CheckResult {
	if url == "" {
		return invalid("Empty URL")
	}

	ctx, cancel := context.WithTimeout(ctx, c.policy.ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return invalid(fmt.Sprintf("Invalid URL: %s", truncate(err.Error(), maxTransportErrLen)))
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return invalid("Request timeout")
		}
		return invalid(fmt.Sprintf("Request failed: %s", truncate(err.Error(), maxTransportErrLen)))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return invalidWithMeta(fmt.Sprintf("HTTP %d", resp.StatusCode), &Metadata{
			StatusCode: resp.StatusCode,
		})
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.HasPrefix(contentType, "image/") {
		return invalidWithMeta(fmt.Sprintf("Invalid content-type: %s", contentType), &Metadata{
			StatusCode:  resp.StatusCode,
			ContentType: contentType,
		})
	}

	meta := &Metadata{
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
	}
	if resp.ContentLength > 0 {
		meta.ContentLength = resp.ContentLength
		if resp.ContentLength > c.policy.MaxBytes {
			return invalidWithMeta(fmt.Sprintf("Image too large: %d bytes", resp.ContentLength), meta)
		}
	}

	return CheckResult{Valid: true, Message: "OK", Meta: meta}
}

// CheckIntegrity downloads the body and fully decodes it, rejecting oversize
// or undersize payloads and images below the dimension floor. A truncated or
// corrupted file fails here even when the probe succeeded.
func (c *Checker) CheckIntegrity(ctx context.Context, url string) (result CheckResult) {
	// Decoders may fault on hostile input; the contract is a tuple, never a panic.
	defer func() {
		if r := recover(); r != nil {
			if c.logger != nil {
				c.logger.Warn("image decode panic: url=%s cause=%v", url, r)
			}
			result = invalid(fmt.Sprintf("Decode failure: %s", truncate(fmt.Sprint(r), maxTransportErrLen)))
		}
	}()

	if url == "" {
		return invalid("Empty URL")
	}

	ctx, cancel := context.WithTimeout(ctx, c.policy.DownloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return invalid(fmt.Sprintf("Invalid URL: %s", truncate(err.Error(), maxTransportErrLen)))
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return invalid("Download timeout")
		}
		return invalid(fmt.Sprintf("Download failed: %s", truncate(err.Error(), maxTransportErrLen)))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return invalid(fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	// Read one byte beyond the ceiling so oversize bodies are rejected by
	// measured length without buffering the full payload.
	data, err := io.ReadAll(io.LimitReader(resp.Body, c.policy.MaxBytes+1))
	if err != nil {
		if isTimeout(err) {
			return invalid("Download timeout")
		}
		return invalid(fmt.Sprintf("Download failed: %s", truncate(err.Error(), maxTransportErrLen)))
	}
	size := int64(len(data))
	if size > c.policy.MaxBytes {
		return invalid(fmt.Sprintf("Image too large: %d bytes", size))
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return invalid("Not a valid image format")
	}

	bounds := img.Bounds()
	meta := &Metadata{
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Format:    format,
		Mode:      colorMode(img),
		SizeBytes: size,
	}

	if meta.Width < c.policy.MinWidth || meta.Height < c.policy.MinHeight {
		return invalidWithMeta(fmt.Sprintf("Image too small: %dx%d", meta.Width, meta.Height), meta)
	}

	// Bodies under the byte floor are likely placeholder assets even when
	// their dimensions pass.
	if size < c.policy.MinBytes {
		return invalidWithMeta(fmt.Sprintf("Image file too small: %d bytes", size), meta)
	}

	if c.logger != nil {
		c.logger.Debug("image integrity ok: url=%s format=%s size=%dx%d bytes=%d",
			url, format, meta.Width, meta.Height, size)
	}

	return CheckResult{Valid: true, Message: "OK", Meta: meta}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func colorMode(img image.Image) string {
	switch img.ColorModel() {
	case color.RGBAModel:
		return "RGBA"
	case color.NRGBAModel:
		return "NRGBA"
	case color.GrayModel:
		return "Gray"
	case color.Gray16Model:
		return "Gray16"
	case color.YCbCrModel:
		return "YCbCr"
	case color.CMYKModel:
		return "CMYK"
	default:
		return "Other"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
