package media

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestIsSecureFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"photo.jpg", true},
		{"a1b2c3-d4e5.png", true},
		{"name with spaces.gif", true},
		{"", false},
		{".hidden", false},
		{"..", false},
		{"../escape.jpg", false},
		{"dir/photo.jpg", false},
		{`dir\photo.jpg`, false},
		{"/etc/passwd", false},
		{"a..b.jpg", false},
	}

	for _, tc := range tests {
		t.Run(tc.filename, func(t *testing.T) {
			if got := isSecureFilename(tc.filename); got != tc.want {
				t.Errorf("isSecureFilename(%q) = %v, want %v", tc.filename, got, tc.want)
			}
		})
	}
}

func TestLocalStorage_SaveAndDelete(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := storage.Save("original", "a.jpg", []byte("bytes")); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(storage.Path("original", "a.jpg"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "bytes" {
		t.Errorf("got %q", got)
	}

	// Existing files are never overwritten.
	err = storage.Save("original", "a.jpg", []byte("other"))
	if !errors.Is(err, ErrFileExists) {
		t.Errorf("got %v, want ErrFileExists", err)
	}

	if err := storage.Delete("original", "a.jpg"); err != nil {
		t.Fatal(err)
	}
	// Deleting again is not an error.
	if err := storage.Delete("original", "a.jpg"); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestLocalStorage_RejectsBadInput(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := storage.Save("original", "../x.jpg", nil); !errors.Is(err, ErrInsecureFilename) {
		t.Errorf("insecure filename: got %v", err)
	}
	if err := storage.Save("xl", "x.jpg", nil); !errors.Is(err, ErrInvalidVariant) {
		t.Errorf("invalid variant: got %v", err)
	}
	if p := storage.Path("original", "../x.jpg"); p != "" {
		t.Errorf("Path returned %q for insecure filename", p)
	}
	if p := storage.Path("xl", "x.jpg"); p != "" {
		t.Errorf("Path returned %q for invalid variant", p)
	}
}

func TestNewLocalStorage_CreatesVariantDirs(t *testing.T) {
	base := filepath.Join(t.TempDir(), "media")
	if _, err := NewLocalStorage(base); err != nil {
		t.Fatal(err)
	}
	for _, v := range variants {
		info, err := os.Stat(filepath.Join(base, v))
		if err != nil || !info.IsDir() {
			t.Errorf("variant dir %q missing", v)
		}
	}
}
