// Package pinning uploads drop directories to IPFS through the Pinata
// pinning API. One call pins one whole directory and yields one CID; callers
// must never pin per-file, since the URL scheme assumes folder CIDs.
package pinning

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/tokendrop/internal/common"
	"github.com/dmitrijs2005/tokendrop/internal/logging"
)

const defaultBaseURL = "https://api.pinata.cloud"

// Pinner is the gateway the orchestrators depend on.
type Pinner interface {
	// PinDirectory uploads the directory at dir as one content-addressed
	// unit tagged with keyvalues and returns its CID.
	PinDirectory(ctx context.Context, dir string, keyvalues map[string]string) (string, error)
}

// Client talks to the Pinata REST API. Authentication uses either an API
// key/secret pair or a JWT bearer token.
type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	jwt        string
	httpClient *http.Client
	log        logging.Logger
}

type Option func(*Client)

// WithBaseURL overrides the API endpoint, used in tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func NewClient(apiKey, apiSecret, jwtToken string, log logging.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		jwt:        jwtToken,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		log:        log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// CheckCredentials validates the configured credentials before any files are
// generated: missing credentials and an expired JWT both fail the run up
// front rather than after rendering N images.
func (c *Client) CheckCredentials() error {
	if c.jwt == "" && (c.apiKey == "" || c.apiSecret == "") {
		return common.ErrMissingCredentials
	}
	if c.jwt == "" {
		return nil
	}

	// The signature is Pinata's to verify; we only read the expiry claim.
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.jwt, claims); err != nil {
		return fmt.Errorf("parsing pinning JWT: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return fmt.Errorf("reading JWT expiry: %w", err)
	}
	if exp != nil && exp.Before(time.Now()) {
		return fmt.Errorf("JWT expired %s: %w", exp.Time.Format(time.RFC3339), common.ErrCredentialExpired)
	}
	return nil
}

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

type apiError struct {
	status int
	body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("pinata: status %d: %s", e.status, e.body)
}

func (e *apiError) transient() bool {
	return e.status == http.StatusTooManyRequests || e.status >= 500
}

// PinDirectory implements Pinner. Transient failures (network errors, 429,
// 5xx) are retried with capped exponential backoff; rejections surface
// immediately.
func (c *Client) PinDirectory(ctx context.Context, dir string, keyvalues map[string]string) (string, error) {
	backoff := retry.WithMaxRetries(4, retry.NewExponential(500*time.Millisecond))

	var cid string
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		h, err := c.pinOnce(ctx, dir, keyvalues)
		if err != nil {
			var ae *apiError
			if errors.As(err, &ae) && !ae.transient() {
				return err
			}
			c.log.Warn(ctx, "pin attempt failed, retrying", "dir", dir, "error", err)
			return retry.RetryableError(err)
		}
		cid = h
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("pinning %s: %w", dir, err)
	}

	c.log.Info(ctx, "directory pinned", "dir", dir, "cid", cid)
	return cid, nil
}

func (c *Client) pinOnce(ctx context.Context, dir string, keyvalues map[string]string) (string, error) {
	body, contentType, err := c.multipartBody(dir, keyvalues)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pinning/pinFileToIPFS", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	if c.jwt != "" {
		req.Header.Set("Authorization", "Bearer "+c.jwt)
	} else {
		req.Header.Set("pinata_api_key", c.apiKey)
		req.Header.Set("pinata_secret_api_key", c.apiSecret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &apiError{status: resp.StatusCode, body: string(b)}
	}

	var pr pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return "", fmt.Errorf("decoding pin response: %w", err)
	}
	if pr.IpfsHash == "" {
		return "", fmt.Errorf("pin response without IpfsHash")
	}
	return pr.IpfsHash, nil
}

// multipartBody assembles the upload: every regular file under dir becomes a
// "file" part whose filename keeps the directory prefix, which is what makes
// Pinata wrap the upload in a single folder CID.
func (c *Client) multipartBody(dir string, keyvalues map[string]string) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	base := filepath.Base(dir)
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		part, err := w.CreateFormFile("file", filepath.ToSlash(filepath.Join(base, rel)))
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(part, f)
		return err
	})
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", dir, err)
	}

	meta, err := json.Marshal(map[string]any{"keyvalues": keyvalues})
	if err != nil {
		return nil, "", err
	}
	if err := w.WriteField("pinataMetadata", string(meta)); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("pinataOptions", `{"cidVersion":1}`); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
