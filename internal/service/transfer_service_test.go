package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mmynk/rollcall/internal/api"
	"github.com/mmynk/rollcall/internal/api/apitest"
	"github.com/mmynk/rollcall/internal/models"
	"github.com/mmynk/rollcall/internal/validation"
)

func setupTransfer(t *testing.T) (*TransferService, *apitest.Server, string) {
	t.Helper()

	client, srv := setupBackend(t)
	srv.Members["5b"] = roster5b
	dir := filepath.Join(t.TempDir(), "downloads")
	return NewTransferService(client, dir), srv, dir
}

func readFile(t *testing.T, p string) string {
	t.Helper()
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("failed to read %s: %v", p, err)
	}
	return string(data)
}

func TestTransferService_ExportGroup(t *testing.T) {
	svc, srv, dir := setupTransfer(t)

	p, err := svc.ExportGroup(context.Background(), models.FileTypeCSV, "5b", []string{"17"}, false)
	if err != nil {
		t.Fatalf("ExportGroup failed: %v", err)
	}
	if p != filepath.Join(dir, "Auswertung_5b.zip") {
		t.Errorf("unexpected path %q", p)
	}
	if got := readFile(t, p); got != "5b:1" {
		t.Errorf("unexpected content %q", got)
	}
	if srv.Exports[0].Selected[0].ID != "17" {
		t.Errorf("unexpected selection %+v", srv.Exports[0].Selected)
	}
}

func TestTransferService_ExportGroup_Validation(t *testing.T) {
	tests := []struct {
		name     string
		fileType models.FileType
		group    string
		ids      []string
		field    string
	}{
		{"no group", models.FileTypePDF, "", []string{"17"}, "group"},
		{"nobody selected", models.FileTypePDF, "5b", nil, "selected"},
		{"unknown person", models.FileTypeCSV, "5b", []string{"42"}, "selected"},
		{"bad file type", "XLS", "5b", []string{"17"}, "fileType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, srv, dir := setupTransfer(t)

			_, err := svc.ExportGroup(context.Background(), tt.fileType, tt.group, tt.ids, false)
			var verr *validation.Error
			if !errors.As(err, &verr) {
				t.Fatalf("expected *validation.Error, got %v", err)
			}
			if verr.Message(tt.field) == "" {
				t.Errorf("expected a message for %q, got %v", tt.field, verr)
			}
			if srv.RequestCount(api.PathExportCSV)+srv.RequestCount(api.PathExportPDF) != 0 {
				t.Error("expected no export request")
			}
			if _, err := os.Stat(dir); !os.IsNotExist(err) {
				t.Error("expected no download directory")
			}
		})
	}
}

func TestTransferService_Downloads(t *testing.T) {
	ctx := context.Background()
	svc, srv, dir := setupTransfer(t)
	srv.Files[api.PathExportLogs] = [2]string{"log.csv", "log"}
	srv.Files[api.PathExportGroups] = [2]string{"groups.zip", "groups"}
	srv.Files[api.PathExportASV] = [2]string{"asv.csv", "asv"}

	for name, export := range map[string]func(context.Context) (string, error){
		"log.csv":    svc.ExportLogs,
		"groups.zip": svc.ExportGroups,
		"asv.csv":    svc.ExportASV,
	} {
		p, err := export(ctx)
		if err != nil {
			t.Fatalf("export %s failed: %v", name, err)
		}
		if p != filepath.Join(dir, name) {
			t.Errorf("expected %s, got %s", name, p)
		}
	}
	if got := readFile(t, filepath.Join(dir, "groups.zip")); got != "groups" {
		t.Errorf("unexpected content %q", got)
	}
}

func TestTransferService_DownloadMissing(t *testing.T) {
	svc, _, _ := setupTransfer(t)

	_, err := svc.ExportLogs(context.Background())
	if !errors.Is(err, api.ErrRejected) {
		t.Errorf("expected ErrRejected, got %v", err)
	}
}

func TestTransferService_DeleteLog(t *testing.T) {
	svc, srv, _ := setupTransfer(t)
	srv.Entries = []models.Entry{{ID: "17"}}

	msg, err := svc.DeleteLog(context.Background())
	if err != nil {
		t.Fatalf("DeleteLog failed: %v", err)
	}
	if msg != "log deleted" || len(srv.Log()) != 0 {
		t.Errorf("unexpected result %q, %d entries", msg, len(srv.Log()))
	}
}

func TestTransferService_ImportASV(t *testing.T) {
	ctx := context.Background()
	svc, srv, _ := setupTransfer(t)
	p := filepath.Join(t.TempDir(), "asv_2024.csv")
	if err := os.WriteFile(p, []byte("data"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	msgs, err := svc.ImportASV(ctx, p, false)
	if err != nil {
		t.Fatalf("ImportASV failed: %v", err)
	}
	if diff := cmp.Diff([]string{"1 file(s) imported"}, msgs); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
	if srv.RequestCount(api.PathGenerateGroups) != 0 {
		t.Error("expected no generate request")
	}

	msgs, err = svc.ImportASV(ctx, p, true)
	if err != nil {
		t.Fatalf("ImportASV failed: %v", err)
	}
	if diff := cmp.Diff([]string{"1 file(s) imported", "groups generated"}, msgs); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"asv_2024.csv", "asv_2024.csv"}, srv.Uploads[api.PathImportASV]); diff != "" {
		t.Errorf("uploads mismatch (-want +got):\n%s", diff)
	}

	if _, err := svc.ImportASV(ctx, filepath.Join(t.TempDir(), "missing.csv"), false); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestTransferService_ImportGroups(t *testing.T) {
	svc, srv, _ := setupTransfer(t)
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"5b.csv", "6a.csv"} {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(name), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		paths = append(paths, p)
	}

	msg, err := svc.ImportGroups(context.Background(), paths)
	if err != nil {
		t.Fatalf("ImportGroups failed: %v", err)
	}
	if msg != "2 file(s) imported" {
		t.Errorf("unexpected message %q", msg)
	}
	if diff := cmp.Diff([]string{"5b.csv", "6a.csv"}, srv.Uploads[api.PathImportGroups]); diff != "" {
		t.Errorf("uploads mismatch (-want +got):\n%s", diff)
	}

	if _, err := svc.ImportGroups(context.Background(), nil); err == nil {
		t.Error("expected error for no files")
	}
}
