// Package media forwards uploaded files to the external image host.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/srkbolt25-collab/srkfence-backend/internal/config"
)

// File is one uploaded file ready to forward.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Image describes a stored image as reported by the media host.
type Image struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// hostResponse is the media host's per-upload reply. The host returns either
// url or secure_url depending on plan settings.
type hostResponse struct {
	URL       string `json:"url"`
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// Gateway uploads files to the configured media host. Files within one batch
// are sent concurrently and joined; the first failure fails the whole batch.
type Gateway struct {
	uploadURL  string
	apiKey     string
	baseFolder string
	client     *http.Client
	logger     *zap.Logger
}

// NewGateway builds a gateway from config.
func NewGateway(cfg config.MediaConfig, logger *zap.Logger) *Gateway {
	return &Gateway{
		uploadURL:  cfg.UploadURL,
		apiKey:     cfg.APIKey,
		baseFolder: cfg.BaseFolder,
		client:     &http.Client{Timeout: cfg.Timeout()},
		logger:     logger,
	}
}

// UploadAll forwards every file under the namespaced folder and returns the
// resulting images in input order.
func (g *Gateway) UploadAll(ctx context.Context, files []File, folder string) ([]Image, error) {
	if g.uploadURL == "" {
		return nil, fmt.Errorf("media host not configured")
	}

	target := g.baseFolder
	if folder = strings.TrimSpace(folder); folder != "" {
		target = path.Join(g.baseFolder, folder)
	}

	images := make([]Image, len(files))
	errs := make([]error, len(files))

	var wg sync.WaitGroup
	for i := range files {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			images[i], errs[i] = g.upload(ctx, files[i], target)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			g.logger.Error("upload failed",
				zap.String("file", files[i].Name),
				zap.String("folder", target),
				zap.Error(err))
			return nil, err
		}
	}
	return images, nil
}

func (g *Gateway) upload(ctx context.Context, file File, folder string) (Image, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	publicID := uuid.NewString()
	if err := writer.WriteField("folder", folder); err != nil {
		return Image{}, err
	}
	if err := writer.WriteField("public_id", publicID); err != nil {
		return Image{}, err
	}

	part, err := writer.CreateFormFile("file", file.Name)
	if err != nil {
		return Image{}, err
	}
	if _, err := part.Write(file.Data); err != nil {
		return Image{}, err
	}
	if err := writer.Close(); err != nil {
		return Image{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.uploadURL, &buf)
	if err != nil {
		return Image{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return Image{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Image{}, fmt.Errorf("media host returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded hostResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Image{}, fmt.Errorf("decode media host response: %w", err)
	}

	url := decoded.SecureURL
	if url == "" {
		url = decoded.URL
	}
	id := decoded.PublicID
	if id == "" {
		id = path.Join(folder, publicID)
	}

	return Image{URL: url, PublicID: id, Width: decoded.Width, Height: decoded.Height}, nil
}
