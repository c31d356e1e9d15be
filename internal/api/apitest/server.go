// Package apitest provides an in-process stand-in for the roster backend,
// for tests of code that uses package api.
package apitest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/rollcall/internal/api"
	"github.com/mmynk/rollcall/internal/models"
)

// Server is a fake backend. Entries are matched by value, like the real
// one. All fields may be changed between requests; they are guarded by the
// server's lock, so take it with Lock/Unlock when mutating concurrently.
type Server struct {
	*httptest.Server

	mu sync.Mutex

	// Groups is rendered as the index page's group selector, after a
	// placeholder option.
	Groups []string
	// Members maps group to roster.
	Members map[string][]models.Member
	// Entries is the attendance log.
	Entries []models.Entry
	// Submitted records every accepted submit request.
	Submitted []api.SubmitRequest
	// Exports records every export request.
	Exports []api.ExportRequest
	// Uploads records uploaded file names per path.
	Uploads map[string][]string

	// RejectUpdates makes update_entry answer {updated:false}.
	RejectUpdates bool
	// RejectDeletes makes delete_entry answer {removed:false}.
	RejectDeletes bool
	// Files maps download paths to (name, content).
	Files map[string][2]string
	// Requests counts requests per path.
	Requests map[string]int
}

// Messages of the 400 responses for incomplete JSON requests.
const (
	MsgNoGroup    = "Keine Gruppe angegeben"
	MsgIncomplete = "Unvollständige Angaben"
)

// badRequest answers 400 {"error": msg} when the JSON body fails ok, the way
// the real backend does, and hands everything else to next.
func badRequest[Req any](next http.Handler, msg string, ok func(Req) bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var req Req
		if json.Unmarshal(data, &req) != nil || !ok(req) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": msg})
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(data))
		next.ServeHTTP(w, r)
	})
}

// NewServer starts a fake backend that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		Members:  make(map[string][]models.Member),
		Uploads:  make(map[string][]string),
		Files:    make(map[string][2]string),
		Requests: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.Handle(api.PathMembers, badRequest(
		connect.NewUnaryHandler(api.PathMembers, s.members, api.Codec()),
		MsgNoGroup,
		func(req api.MembersRequest) bool { return req.Group != "" },
	))
	mux.Handle(api.PathSubmitAction, badRequest(
		connect.NewUnaryHandler(api.PathSubmitAction, s.submit, api.Codec()),
		MsgIncomplete,
		func(req api.SubmitRequest) bool {
			return req.Initials != "" && req.Group != "" && len(req.People) > 0 && req.Action != ""
		},
	))
	mux.Handle(api.PathUpdateEntry, connect.NewUnaryHandler(api.PathUpdateEntry, s.updateEntry, api.Codec()))
	mux.Handle(api.PathDeleteEntry, connect.NewUnaryHandler(api.PathDeleteEntry, s.deleteEntry, api.Codec()))
	mux.Handle(api.PathGenerateGroups, connect.NewUnaryHandler(api.PathGenerateGroups, s.generateGroups, api.Codec()))
	mux.HandleFunc("GET /{$}", s.index)
	mux.HandleFunc("GET "+api.PathEdit, s.edit)
	mux.HandleFunc("POST "+api.PathExportCSV, s.export)
	mux.HandleFunc("POST "+api.PathExportPDF, s.export)
	mux.HandleFunc("GET "+api.PathExportLogs, s.download)
	mux.HandleFunc("GET "+api.PathExportGroups, s.download)
	mux.HandleFunc("GET "+api.PathExportASV, s.download)
	mux.HandleFunc("POST "+api.PathDeleteLog, s.deleteLog)
	mux.HandleFunc("POST "+api.PathImportASV, s.upload("file"))
	mux.HandleFunc("POST "+api.PathImportGroups, s.upload("files[]"))

	s.Server = httptest.NewServer(s.count(mux))
	t.Cleanup(s.Close)
	return s
}

// Lock takes the server's lock.
func (s *Server) Lock() { s.mu.Lock() }

// Unlock releases the server's lock.
func (s *Server) Unlock() { s.mu.Unlock() }

// RequestCount returns how many requests hit path.
func (s *Server) RequestCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Requests[path]
}

// Log returns a copy of the attendance log.
func (s *Server) Log() []models.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Entry(nil), s.Entries...)
}

// count records and logs every request.
func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		s.mu.Lock()
		s.Requests[r.URL.Path]++
		s.mu.Unlock()

		next.ServeHTTP(w, r)

		slog.Debug("Test backend request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) members(_ context.Context, req *connect.Request[api.MembersRequest]) (*connect.Response[api.MembersResponse], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	members, ok := s.Members[req.Msg.Group]
	if !ok {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("unknown group %q", req.Msg.Group))
	}
	return connect.NewResponse(&api.MembersResponse{Members: members}), nil
}

func (s *Server) submit(_ context.Context, req *connect.Request[api.SubmitRequest]) (*connect.Response[api.SubmitResponse], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := req.Msg
	s.Submitted = append(s.Submitted, *m)
	for _, p := range m.People {
		s.Entries = append(s.Entries, models.Entry{
			Initials:  m.Initials,
			Group:     m.Group,
			ID:        p.ID,
			Lastname:  p.Lastname,
			Firstname: p.Firstname,
			Status:    m.Action,
			Timestamp: fmt.Sprintf("2024-01-01 08:%02d:00", len(s.Entries)),
		})
	}
	return connect.NewResponse(&api.SubmitResponse{Status: "ok", Action: m.Action, People: m.People}), nil
}

func (s *Server) find(original models.Entry) int {
	key := original.Key()
	for i, e := range s.Entries {
		if e.Key() == key {
			return i
		}
	}
	return -1
}

func (s *Server) updateEntry(_ context.Context, req *connect.Request[api.UpdateEntryRequest]) (*connect.Response[api.UpdateEntryResponse], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(req.Msg.Original)
	if s.RejectUpdates || i < 0 {
		return connect.NewResponse(&api.UpdateEntryResponse{Updated: false}), nil
	}
	s.Entries[i] = s.Entries[i].Apply(req.Msg.Updated)
	return connect.NewResponse(&api.UpdateEntryResponse{Updated: true}), nil
}

func (s *Server) deleteEntry(_ context.Context, req *connect.Request[models.Entry]) (*connect.Response[api.DeleteEntryResponse], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(*req.Msg)
	if s.RejectDeletes || i < 0 {
		return connect.NewResponse(&api.DeleteEntryResponse{Removed: false}), nil
	}
	s.Entries = append(s.Entries[:i], s.Entries[i+1:]...)
	return connect.NewResponse(&api.DeleteEntryResponse{Removed: true}), nil
}

func (s *Server) generateGroups(_ context.Context, req *connect.Request[api.ConfirmRequest]) (*connect.Response[api.MessageResponse], error) {
	if !req.Msg.Confirm {
		return connect.NewResponse(&api.MessageResponse{Error: "not confirmed"}), nil
	}
	return connect.NewResponse(&api.MessageResponse{Message: "groups generated"}), nil
}

var indexPage = template.Must(template.New("index").Parse(`<!doctype html>
<html><body>
<input id="initials">
<select id="groupSelect">
<option value="">-- select a group --</option>
{{range .}}<option value="{{.}}">{{.}}</option>
{{end}}</select>
<div id="memberList"></div>
</body></html>`))

func (s *Server) index(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	groups := append([]string(nil), s.Groups...)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	indexPage.Execute(w, groups)
}

var editPage = template.Must(template.New("edit").Parse(`<!doctype html>
<html><body><table>
{{range .}}<tr>
<td><span data-original="{{.JSON}}"></span>{{.Entry.Lastname}}</td>
<td><select class="statusSel"><option>{{.Entry.Status}}</option></select></td>
<td><span class="saveIcon" style="display:none">save</span><span class="delIcon">delete</span></td>
</tr>
{{end}}</table></body></html>`))

type editRow struct {
	Entry models.Entry
	JSON  string
}

func (s *Server) edit(w http.ResponseWriter, r *http.Request) {
	group, id := r.URL.Query().Get("group"), r.URL.Query().Get("id")
	if group == "" || id == "" {
		http.Error(w, "missing parameter", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	var rows []editRow
	for _, e := range s.Entries {
		if e.Group == group && e.ID == id {
			data, _ := json.Marshal(e)
			rows = append(rows, editRow{Entry: e, JSON: string(data)})
		}
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	editPage.Execute(w, rows)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	var req api.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, api.MessageResponse{Error: err.Error()})
		return
	}
	s.mu.Lock()
	s.Exports = append(s.Exports, req)
	s.mu.Unlock()

	if len(req.Selected) == 0 {
		writeJSON(w, http.StatusBadRequest, api.MessageResponse{Error: "nobody selected"})
		return
	}

	name := fmt.Sprintf("Auswertung_%s.zip", req.Group)
	ctype := "application/zip"
	if r.URL.Path == api.PathExportPDF {
		name = fmt.Sprintf("Auswertung_%s.pdf", req.Group)
		ctype = "application/pdf"
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+urlEscape(name))
	fmt.Fprintf(w, "%s:%d", req.Group, len(req.Selected))
}

func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	f, ok := s.Files[r.URL.Path]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f[0]))
	io.WriteString(w, f[1])
}

func (s *Server) deleteLog(w http.ResponseWriter, r *http.Request) {
	var req api.ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Confirm {
		http.Error(w, "confirmation required", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.Entries = nil
	s.mu.Unlock()
	io.WriteString(w, "log deleted\n")
}

func (s *Server) upload(field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			writeJSON(w, http.StatusBadRequest, api.MessageResponse{Error: err.Error()})
			return
		}
		if r.FormValue("confirm") != "true" {
			writeJSON(w, http.StatusBadRequest, api.MessageResponse{Error: "confirmation required"})
			return
		}
		files := r.MultipartForm.File[field]
		if len(files) == 0 {
			writeJSON(w, http.StatusOK, api.MessageResponse{Error: "no file"})
			return
		}

		s.mu.Lock()
		for _, fh := range files {
			s.Uploads[r.URL.Path] = append(s.Uploads[r.URL.Path], fh.Filename)
		}
		s.mu.Unlock()

		writeJSON(w, http.StatusOK, api.MessageResponse{Message: fmt.Sprintf("%d file(s) imported", len(files))})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func urlEscape(s string) string {
	return url.PathEscape(s)
}
