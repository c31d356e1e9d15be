package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mmynk/rollcall/internal/api"
	"github.com/mmynk/rollcall/internal/models"
	"github.com/mmynk/rollcall/internal/validation"
)

// TransferService exports files into a download directory and imports
// files into the backend.
type TransferService struct {
	client    Transfer
	dir       string
	validator *validation.Validator
}

// NewTransferService creates a TransferService writing into dir.
func NewTransferService(client Transfer, dir string) *TransferService {
	return &TransferService{client: client, dir: dir, validator: newValidator()}
}

// ExportGroup exports the selected people of group and returns the path
// of the written file. The selection is validated like a submit, without
// initials.
func (s *TransferService) ExportGroup(ctx context.Context, fileType models.FileType, group string, ids []string, all bool) (string, error) {
	members, err := roster(ctx, s.client.Members, group)
	if err != nil {
		return "", fmt.Errorf("failed to load members: %w", err)
	}
	selected, unknown := pick(members, ids, all)

	sel := exportSelection{
		FileType: fileType,
		Group:    group,
		Members:  members,
		Selected: selected,
		Unknown:  unknown,
	}
	if err := s.validator.Validate(sel); err != nil {
		return "", err
	}

	f, err := s.client.ExportGroup(ctx, fileType, group, selected)
	if err != nil {
		slog.Error("ExportGroup failed", "group", group, "file_type", fileType, "error", err)
		return "", fmt.Errorf("failed to export group: %w", err)
	}
	return s.write(f)
}

// ExportLogs downloads the attendance log.
func (s *TransferService) ExportLogs(ctx context.Context) (string, error) {
	return s.fetch(ctx, "logs", s.client.ExportLogs)
}

// ExportGroups downloads all rosters.
func (s *TransferService) ExportGroups(ctx context.Context) (string, error) {
	return s.fetch(ctx, "groups", s.client.ExportGroups)
}

// ExportASV downloads the ASV export.
func (s *TransferService) ExportASV(ctx context.Context) (string, error) {
	return s.fetch(ctx, "asv", s.client.ExportASV)
}

func (s *TransferService) fetch(ctx context.Context, what string, get func(context.Context) (*api.File, error)) (string, error) {
	f, err := get(ctx)
	if err != nil {
		slog.Error("Export failed", "export", what, "error", err)
		return "", fmt.Errorf("failed to export %s: %w", what, err)
	}
	return s.write(f)
}

func (s *TransferService) write(f *api.File) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}
	p := filepath.Join(s.dir, filepath.Base(f.Name))
	if err := os.WriteFile(p, f.Data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", p, err)
	}
	slog.Info("File downloaded", "path", p, "bytes", len(f.Data))
	return p, nil
}

// DeleteLog clears the attendance log on the backend.
func (s *TransferService) DeleteLog(ctx context.Context) (string, error) {
	msg, err := s.client.DeleteLog(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to delete log: %w", err)
	}
	slog.Info("Log deleted", "message", msg)
	return msg, nil
}

// ImportASV uploads the ASV file at path. With generate set, a successful
// upload is followed by regenerating the groups. It returns the server's
// messages in order.
func (s *TransferService) ImportASV(ctx context.Context, path string, generate bool) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	msg, err := s.client.ImportASV(ctx, api.Upload{Name: filepath.Base(path), Body: f})
	if err != nil {
		return nil, fmt.Errorf("failed to import ASV: %w", err)
	}
	msgs := []string{msg}
	if !generate {
		return msgs, nil
	}

	msg, err = s.client.GenerateGroups(ctx)
	if err != nil {
		return msgs, fmt.Errorf("failed to generate groups: %w", err)
	}
	return append(msgs, msg), nil
}

// ImportGroups uploads roster files.
func (s *TransferService) ImportGroups(ctx context.Context, paths []string) (string, error) {
	if len(paths) == 0 {
		return "", errors.New("no files to import")
	}

	uploads := make([]api.Upload, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return "", fmt.Errorf("failed to open %s: %w", p, err)
		}
		defer f.Close()
		uploads = append(uploads, api.Upload{Name: filepath.Base(p), Body: f})
	}

	msg, err := s.client.ImportGroups(ctx, uploads)
	if err != nil {
		return "", fmt.Errorf("failed to import groups: %w", err)
	}
	slog.Info("Groups imported", "files", len(paths), "message", msg)
	return msg, nil
}
