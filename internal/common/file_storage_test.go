package common

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"Board Minutes (May).pdf": "Board_Minutes_May_.pdf",
		"../../etc/passwd":        "passwd",
		`C:\docs\budget.xlsx`:     "budget.xlsx",
		"...":                     "file",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeFileName(in), in)
	}
}

func TestLocalStorage_SaveOpenDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "https://riverbend.org/uploads/")
	require.NoError(t, err)
	store.now = func() time.Time { return time.UnixMilli(1700000000000) }

	ctx := context.Background()
	key, url, err := store.Save(ctx, "annual report.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "1700000000000-annual_report.pdf", key)
	assert.Equal(t, "https://riverbend.org/uploads/1700000000000-annual_report.pdf", url)

	rc, err := store.Open(ctx, key)
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, "%PDF-1.4", string(data))

	_, err = store.Open(ctx, "../"+key)
	assert.Error(t, err)

	require.NoError(t, store.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(dir, key))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, store.Delete(ctx, key))
}

func TestDetectDocumentType(t *testing.T) {
	cases := []struct {
		name    string
		content string
		allowed bool
	}{
		{"pdf", "%PDF-1.7\n1 0 obj\n<<>>\nendobj\n", true},
		{"text", "Volunteer meeting notes\nBring gloves.\n", true},
		{"png", "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR", false},
		{"exe", "MZ\x90\x00\x03\x00\x00\x00\x04\x00\x00\x00\xff\xff", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mtype, allowed, r, err := DetectDocumentType(strings.NewReader(tc.content))
			require.NoError(t, err)
			assert.Equal(t, tc.allowed, allowed, mtype)

			replay, _ := io.ReadAll(r)
			assert.Equal(t, tc.content, string(replay))
		})
	}
}

func TestEmailRenderer(t *testing.T) {
	r, err := NewEmailRenderer("Riverbend Community Fund", "https://riverbend.org")
	require.NoError(t, err)

	msg, err := r.Render(EmailAdminSponsorApp, "admin@riverbend.org", EmailData{
		Sponsor:  "Acme & Sons",
		TierName: "Gold",
		Name:     "Jane Doe",
		Email:    "jane@acme.com",
		Message:  "<script>alert(1)</script>",
	})
	require.NoError(t, err)

	assert.Equal(t, "admin@riverbend.org", msg.To)
	assert.Equal(t, "New sponsor application: Acme & Sons", msg.Subject)
	assert.Contains(t, msg.HTML, "Acme &amp; Sons")
	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.HTML, "Riverbend Community Fund")

	_, err = r.Render(EmailTemplate("nope"), "x@y.z", EmailData{})
	assert.Error(t, err)
}
