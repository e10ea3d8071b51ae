package rest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// UploadImage uploads an image to hosted storage.
func (c *Client) UploadImage(ctx context.Context, name string, r io.Reader) (string, error) {
	return c.upload(ctx, "/cloudinary/image", name, r)
}

// UploadPDF uploads a PDF to hosted storage.
func (c *Client) UploadPDF(ctx context.Context, name string, r io.Reader) (string, error) {
	return c.upload(ctx, "/cloudinary/pdf", name, r)
}

// UploadProfileImage uploads a profile picture.
func (c *Client) UploadProfileImage(ctx context.Context, name string, r io.Reader) (string, error) {
	return c.upload(ctx, "/cloudinary/profile", name, r)
}

// upload sends a multipart "file" field. The payload is buffered so a replay
// after a refresh can resend it.
func (c *Client) upload(ctx context.Context, path, name string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}

	var out struct {
		URL  string `json:"url"`
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := c.do(ctx, call{method: http.MethodPost, path: path, build: func(req *resty.Request) {
		req.SetFileReader("file", name, bytes.NewReader(data))
	}}, &out); err != nil {
		return "", err
	}

	url := out.URL
	if url == "" {
		url = out.Data.URL
	}
	if url == "" {
		return "", errors.New("upload response carried no url")
	}
	return url, nil
}
