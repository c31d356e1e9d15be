package api

import "github.com/mmynk/rollcall/internal/models"

// Request and response bodies of the backend's JSON endpoints.

type MembersRequest struct {
	Group string `json:"group"`
}

type MembersResponse struct {
	Members []models.Member `json:"members"`
	Error   string          `json:"error,omitempty"`
}

// SubmitRequest logs an action for a set of people.
type SubmitRequest struct {
	Initials string          `json:"initials"`
	Group    string          `json:"group"`
	People   []models.Member `json:"people"`
	Action   models.Action   `json:"action"`
}

type SubmitResponse struct {
	Status string          `json:"status,omitempty"`
	Action models.Action   `json:"action,omitempty"`
	People []models.Member `json:"people,omitempty"`
	Error  string          `json:"error,omitempty"`
}

type UpdateEntryRequest struct {
	Original models.Entry       `json:"original"`
	Updated  models.EntryUpdate `json:"updated"`
}

type UpdateEntryResponse struct {
	Updated bool `json:"updated"`
}

type DeleteEntryResponse struct {
	Removed bool `json:"removed"`
}

type ConfirmRequest struct {
	Confirm bool `json:"confirm"`
}

type MessageResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ExportRequest selects the people of a group to export.
type ExportRequest struct {
	FileType models.FileType `json:"fileType,omitempty"`
	Group    string          `json:"group"`
	Selected []models.Member `json:"selected"`
}
