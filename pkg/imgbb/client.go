package imgbb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/sipeslibya/storefront-backend/pkg/config"
	pkgerrors "github.com/sipeslibya/storefront-backend/pkg/errors"
	"github.com/sipeslibya/storefront-backend/pkg/logger"
)

var errLoggerRequired = errors.New("imgbb logger is required")

// UploadParams describes one image upload.
type UploadParams struct {
	// Image is the base64-encoded file content, as the ImgBB API expects.
	Image string
	Name  string
	// ExpirationSeconds of 0 keeps the image forever.
	ExpirationSeconds int
}

// UploadResult carries the hosted image locations.
type UploadResult struct {
	URL       string `json:"url"`
	DeleteURL string `json:"delete_url"`
	ThumbURL  string `json:"thumb_url"`
}

// Client wraps the ImgBB hosting API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *logger.Logger
}

// NewClient initializes the ImgBB wrapper.
func NewClient(cfg config.ImgBBConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.imgbb.com"
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		logger:     logg,
	}, nil
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

type uploadResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		URL       string `json:"url"`
		DeleteURL string `json:"delete_url"`
		Thumb     struct {
			URL string `json:"url"`
		} `json:"thumb"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload posts a multipart form to ImgBB and returns the hosted locations.
func (c *Client) Upload(ctx context.Context, params UploadParams) (*UploadResult, error) {
	if !c.Configured() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image hosting is not configured")
	}
	if strings.TrimSpace(params.Image) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image content is required")
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	fields := map[string]string{
		"key":   c.apiKey,
		"image": params.Image,
	}
	if params.Name != "" {
		fields["name"] = params.Name
	}
	if params.ExpirationSeconds > 0 {
		fields["expiration"] = strconv.Itoa(params.ExpirationSeconds)
	}
	for key, value := range fields {
		if err := form.WriteField(key, value); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upload form")
		}
	}
	if err := form.Close(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finalize upload form")
	}

	endpoint := c.baseURL + "/1/upload"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upload request")
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call imgbb api")
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read imgbb response")
	}

	var resp uploadResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode imgbb response")
	}
	if !resp.Success {
		msg := resp.Error.Message
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.Status)
		}
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("imgbb rejected upload: %s", msg))
	}

	return &UploadResult{
		URL:       resp.Data.URL,
		DeleteURL: resp.Data.DeleteURL,
		ThumbURL:  resp.Data.Thumb.URL,
	}, nil
}

// Delete calls the delete URL ImgBB handed back at upload time.
func (c *Client) Delete(ctx context.Context, deleteURL string) error {
	if strings.TrimSpace(deleteURL) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "delete url is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, deleteURL, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build delete request")
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call imgbb delete")
	}
	defer httpResp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(httpResp.Body, 1<<20))

	if httpResp.StatusCode >= http.StatusBadRequest {
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("imgbb delete returned status %d", httpResp.StatusCode))
	}
	return nil
}
