package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mmynk/rollcall/internal/api"
	"github.com/mmynk/rollcall/internal/api/apitest"
	"github.com/mmynk/rollcall/internal/models"
	"github.com/mmynk/rollcall/internal/storage"
	"github.com/mmynk/rollcall/internal/storage/memory"
	"github.com/mmynk/rollcall/internal/validation"
)

var roster5b = []models.Member{
	{ID: "17", Firstname: "Max", Lastname: "Muster"},
	{ID: "18", Firstname: "Erika", Lastname: "Beispiel"},
}

func setupAttendance(t *testing.T) (*AttendanceService, *apitest.Server, *memory.Store) {
	t.Helper()

	client, srv := setupBackend(t)
	srv.Members["5b"] = roster5b
	srv.Members["empty"] = []models.Member{}
	store := memory.New()
	return NewAttendanceService(client, store), srv, store
}

func TestAttendanceService_Members(t *testing.T) {
	svc, _, _ := setupAttendance(t)

	members, err := svc.Members(context.Background(), "5b")
	if err != nil {
		t.Fatalf("Members failed: %v", err)
	}
	if len(members) != 2 {
		t.Errorf("expected 2 members, got %d", len(members))
	}

	if _, err := svc.Members(context.Background(), ""); !errors.Is(err, ErrNoGroup) {
		t.Errorf("expected ErrNoGroup, got %v", err)
	}
}

func TestAttendanceService_Submit(t *testing.T) {
	ctx := context.Background()
	svc, srv, _ := setupAttendance(t)

	resp, err := svc.Submit(ctx, SubmitInput{
		Initials: "  AB ",
		Group:    "5b",
		People:   []string{"18"},
		Action:   models.ActionEntered,
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if resp.Action != models.ActionEntered {
		t.Errorf("expected action %q, got %q", models.ActionEntered, resp.Action)
	}

	if len(srv.Submitted) != 1 {
		t.Fatalf("expected 1 submit, got %d", len(srv.Submitted))
	}
	sent := srv.Submitted[0]
	if sent.Initials != "AB" || len(sent.People) != 1 || sent.People[0].Lastname != "Beispiel" {
		t.Errorf("unexpected request: %+v", sent)
	}

	initials, err := svc.SavedInitials(ctx)
	if err != nil {
		t.Fatalf("SavedInitials failed: %v", err)
	}
	if initials != "AB" {
		t.Errorf("expected saved initials AB, got %q", initials)
	}
}

func TestAttendanceService_Submit_All(t *testing.T) {
	svc, srv, _ := setupAttendance(t)

	_, err := svc.Submit(context.Background(), SubmitInput{
		Initials: "AB",
		Group:    "5b",
		All:      true,
		Action:   models.ActionExited,
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if got := len(srv.Log()); got != 2 {
		t.Errorf("expected 2 log entries, got %d", got)
	}
}

func TestAttendanceService_Submit_Validation(t *testing.T) {
	tests := []struct {
		name    string
		in      SubmitInput
		field   string
		message string
	}{
		{
			name:    "no initials",
			in:      SubmitInput{Initials: " ", Group: "5b", People: []string{"17"}, Action: models.ActionEntered},
			field:   "initials",
			message: "is required",
		},
		{
			name:    "no group",
			in:      SubmitInput{Initials: "AB", Action: models.ActionEntered},
			field:   "group",
			message: "is required",
		},
		{
			name:    "empty roster",
			in:      SubmitInput{Initials: "AB", Group: "empty", All: true, Action: models.ActionEntered},
			field:   "members",
			message: "has no members",
		},
		{
			name:    "nobody selected",
			in:      SubmitInput{Initials: "AB", Group: "5b", Action: models.ActionEntered},
			field:   "selected",
			message: "must name at least one person",
		},
		{
			name:    "unknown person",
			in:      SubmitInput{Initials: "AB", Group: "5b", People: []string{"17", "99"}, Action: models.ActionEntered},
			field:   "selected",
			message: "names a person not in the group: 99",
		},
		{
			name:    "bad action",
			in:      SubmitInput{Initials: "AB", Group: "5b", People: []string{"17"}, Action: "present"},
			field:   "action",
			message: `must be "eingetreten" or "ausgetreten"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, srv, store := setupAttendance(t)

			_, err := svc.Submit(context.Background(), tt.in)
			var verr *validation.Error
			if !errors.As(err, &verr) {
				t.Fatalf("expected *validation.Error, got %v", err)
			}
			if got := verr.Message(tt.field); got != tt.message {
				t.Errorf("Message(%q) = %q, want %q", tt.field, got, tt.message)
			}

			if srv.RequestCount(api.PathSubmitAction) != 0 {
				t.Error("expected no submit request")
			}
			if _, ok, _ := store.Get(context.Background(), storage.KeyInitials); ok {
				t.Error("expected initials not to be saved")
			}
		})
	}
}

func TestAttendanceService_Submit_BackendDown(t *testing.T) {
	svc, srv, store := setupAttendance(t)
	srv.Close()

	_, err := svc.Submit(context.Background(), SubmitInput{Initials: "AB", Action: models.ActionEntered})
	var verr *validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error before any request, got %v", err)
	}

	_, err = svc.Submit(context.Background(), SubmitInput{Initials: "AB", Group: "5b", All: true, Action: models.ActionEntered})
	if err == nil {
		t.Fatal("expected transport error")
	}
	if _, ok, _ := store.Get(context.Background(), storage.KeyInitials); ok {
		t.Error("expected initials not to be saved when the roster is unavailable")
	}
}

func TestPick(t *testing.T) {
	selected, unknown := pick(roster5b, []string{"18", "x", "17", "18", "x"}, false)
	if len(selected) != 2 || selected[0].ID != "17" || selected[1].ID != "18" {
		t.Errorf("expected roster order, got %+v", selected)
	}
	if len(unknown) != 1 || unknown[0] != "x" {
		t.Errorf("expected one unknown id, got %v", unknown)
	}

	selected, unknown = pick(roster5b, []string{"x"}, true)
	if len(selected) != 2 || unknown != nil {
		t.Errorf("expected whole roster, got %v %v", selected, unknown)
	}
}
