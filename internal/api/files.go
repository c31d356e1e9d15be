package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/mmynk/rollcall/internal/models"
)

// DefaultExportName is used when a group export carries no file name.
const DefaultExportName = "export.zip"

// File is a downloaded file.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Upload is a file to send in a multipart import.
type Upload struct {
	Name string
	Body io.Reader
}

// ExportGroup exports the selected members of group as CSV (zipped) or PDF.
func (c *Client) ExportGroup(ctx context.Context, fileType models.FileType, group string, selected []models.Member) (*File, error) {
	req := ExportRequest{Group: group, Selected: selected}
	var p string
	switch fileType {
	case models.FileTypeCSV:
		p = PathExportCSV
		req.FileType = models.FileTypeCSV
	case models.FileTypePDF:
		p = PathExportPDF
	default:
		return nil, fmt.Errorf("unsupported file type %q", fileType)
	}

	resp, err := c.sendJSON(ctx, p, req)
	if err != nil {
		return nil, err
	}
	return readFile(p, resp, DefaultExportName)
}

// ExportLogs downloads the attendance log.
func (c *Client) ExportLogs(ctx context.Context) (*File, error) {
	return c.download(ctx, PathExportLogs)
}

// ExportGroups downloads all group rosters.
func (c *Client) ExportGroups(ctx context.Context) (*File, error) {
	return c.download(ctx, PathExportGroups)
}

// ExportASV downloads the ASV export.
func (c *Client) ExportASV(ctx context.Context) (*File, error) {
	return c.download(ctx, PathExportASV)
}

func (c *Client) download(ctx context.Context, p string) (*File, error) {
	resp, err := c.send(ctx, http.MethodGet, p, nil, "")
	if err != nil {
		return nil, err
	}
	return readFile(p, resp, path.Base(p))
}

// DeleteLog clears the attendance log and returns the server's message.
func (c *Client) DeleteLog(ctx context.Context) (string, error) {
	resp, err := c.sendJSON(ctx, PathDeleteLog, ConfirmRequest{Confirm: true})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read %s response: %w", PathDeleteLog, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// ImportASV uploads an ASV file and returns the server's message.
func (c *Client) ImportASV(ctx context.Context, file Upload) (string, error) {
	return c.upload(ctx, PathImportASV, "file", []Upload{file})
}

// ImportGroups uploads group roster files and returns the server's message.
func (c *Client) ImportGroups(ctx context.Context, files []Upload) (string, error) {
	if len(files) == 0 {
		return "", fmt.Errorf("no files to import")
	}
	return c.upload(ctx, PathImportGroups, "files[]", files)
}

func (c *Client) upload(ctx context.Context, p, field string, files []Upload) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("confirm", "true"); err != nil {
		return "", fmt.Errorf("failed to encode upload: %w", err)
	}
	for _, f := range files {
		part, err := w.CreateFormFile(field, f.Name)
		if err != nil {
			return "", fmt.Errorf("failed to encode upload: %w", err)
		}
		if _, err := io.Copy(part, f.Body); err != nil {
			return "", fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to encode upload: %w", err)
	}

	resp, err := c.send(ctx, http.MethodPost, p, &buf, w.FormDataContentType())
	if err != nil {
		return "", err
	}
	return decodeMessage(p, resp)
}

func readFile(p string, resp *http.Response, fallback string) (*File, error) {
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", p, err)
	}
	return &File{
		Name:        FilenameFromDisposition(resp.Header.Get("Content-Disposition"), fallback),
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// FilenameFromDisposition returns the file name of a Content-Disposition
// header, preferring the RFC 5987 filename* form. Directory parts are
// stripped. It returns fallback when the header has no usable name.
func FilenameFromDisposition(header, fallback string) string {
	if header == "" {
		return fallback
	}
	var name string
	if _, params, err := mime.ParseMediaType(header); err == nil {
		name = params["filename"]
	} else {
		name = looseFilename(header)
	}
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "" || name == "." || name == "/" || name == ".." {
		return fallback
	}
	return name
}

// looseFilenamePattern picks the filename out of headers that
// mime.ParseMediaType rejects, such as unquoted names with spaces.
var looseFilenamePattern = regexp.MustCompile(`(?i)filename\*?=(?:UTF-8'')?["']?([^"';\n]+)["']?`)

func looseFilename(header string) string {
	m := looseFilenamePattern.FindStringSubmatch(header)
	if m == nil {
		return ""
	}
	name := strings.TrimSpace(m[1])
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}
