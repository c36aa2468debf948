package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"compassai/internal/domain"
)

// MyApplications lists the caller's submissions.
func (c *Client) MyApplications(ctx context.Context) ([]domain.Application, error) {
	var apps []domain.Application
	if err := c.getJSON(ctx, "my applications", "/tools/applications/my-applications", "/tools/applications/my-applications", nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// SubmitApplication files a new tool application.
func (c *Client) SubmitApplication(ctx context.Context, req domain.ApplicationRequest) (domain.ApplicationCreated, error) {
	var created domain.ApplicationCreated
	err := c.sendJSON(ctx, "submit application", http.MethodPost, "/tools/applications", "/tools/applications", req, &created)
	return created, err
}

// UploadLogo sends an image as the multipart field "file".
func (c *Client) UploadLogo(ctx context.Context, filename string, content io.Reader) (domain.LogoUpload, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return domain.LogoUpload{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return domain.LogoUpload{}, fmt.Errorf("copy logo: %w", err)
	}
	if err := writer.Close(); err != nil {
		return domain.LogoUpload{}, fmt.Errorf("close multipart: %w", err)
	}

	var upload domain.LogoUpload
	err = c.do(ctx, request{
		op:          "upload logo",
		method:      http.MethodPost,
		endpoint:    "/tools/logos",
		path:        "/tools/logos",
		body:        &body,
		contentType: writer.FormDataContentType(),
	}, &upload)
	return upload, err
}

// AdminApplications lists every application; admin only.
func (c *Client) AdminApplications(ctx context.Context) ([]domain.Application, error) {
	var apps []domain.Application
	if err := c.getJSON(ctx, "admin applications", "/admin/ai-applications", "/admin/ai-applications", nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// UpdateApplicationStatus approves or rejects an application; admin only.
func (c *Client) UpdateApplicationStatus(ctx context.Context, id int64, update domain.StatusUpdate) error {
	path := "/admin/ai-applications/" + strconv.FormatInt(id, 10) + "/status"
	return c.sendJSON(ctx, "update application status", http.MethodPatch, "/admin/ai-applications/{id}/status", path, update, nil)
}
