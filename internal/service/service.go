// Package service implements the operator workflows on top of the backend
// client and the local store: choosing groups, logging attendance, editing
// logged entries and moving files in and out of the backend.
package service

import (
	"context"
	"errors"

	"github.com/mmynk/rollcall/internal/api"
	"github.com/mmynk/rollcall/internal/models"
)

var (
	ErrNoGroup      = errors.New("no group selected")
	ErrUnknownGroup = errors.New("unknown group")
	ErrNoPerson     = errors.New("no person selected")
)

// GroupSource lists the backend's groups.
type GroupSource interface {
	Groups(ctx context.Context) ([]models.GroupOption, error)
}

// Roster reads group rosters and logs attendance.
type Roster interface {
	Members(ctx context.Context, group string) ([]models.Member, error)
	SubmitAction(ctx context.Context, req api.SubmitRequest) (*api.SubmitResponse, error)
}

// EntrySource reads and mutates logged entries.
type EntrySource interface {
	Entries(ctx context.Context, group, personID string) ([]models.Entry, error)
	UpdateEntry(ctx context.Context, original models.Entry, updated models.EntryUpdate) (bool, error)
	DeleteEntry(ctx context.Context, original models.Entry) (bool, error)
}

// Transfer moves files in and out of the backend.
type Transfer interface {
	Members(ctx context.Context, group string) ([]models.Member, error)
	ExportGroup(ctx context.Context, fileType models.FileType, group string, selected []models.Member) (*api.File, error)
	ExportLogs(ctx context.Context) (*api.File, error)
	ExportGroups(ctx context.Context) (*api.File, error)
	ExportASV(ctx context.Context) (*api.File, error)
	DeleteLog(ctx context.Context) (string, error)
	ImportASV(ctx context.Context, file api.Upload) (string, error)
	ImportGroups(ctx context.Context, files []api.Upload) (string, error)
	GenerateGroups(ctx context.Context) (string, error)
}

var (
	_ GroupSource = (*api.Client)(nil)
	_ Roster      = (*api.Client)(nil)
	_ EntrySource = (*api.Client)(nil)
	_ Transfer    = (*api.Client)(nil)
)
