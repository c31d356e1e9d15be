package api

import "testing"

func TestFilenameFromDisposition(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty", "", "fallback.zip"},
		{"plain", `attachment; filename="log.csv"`, "log.csv"},
		{"unquoted", `attachment; filename=groups.zip`, "groups.zip"},
		{"extended", `attachment; filename*=UTF-8''Auswertung_%C3%84gypten.pdf`, "Auswertung_Ägypten.pdf"},
		{"both forms", `attachment; filename="a.zip"; filename*=UTF-8''b.zip`, "b.zip"},
		{"directory stripped", `attachment; filename="../../etc/passwd"`, "passwd"},
		{"windows path stripped", `attachment; filename="C:\\tmp\\x.csv"`, "x.csv"},
		{"no filename", `attachment`, "fallback.zip"},
		{"malformed", `attachment; filename=`, "fallback.zip"},
		{"unquoted with space", `attachment; filename=Klasse 7a.zip`, "Klasse 7a.zip"},
		{"loose extended", `attachment; filename*=UTF-8''Klasse%207a.zip; x`, "Klasse 7a.zip"},
		{"loose path stripped", `attachment; filename=../Klasse 7a.zip`, "Klasse 7a.zip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FilenameFromDisposition(tt.header, "fallback.zip"); got != tt.want {
				t.Errorf("FilenameFromDisposition(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}
