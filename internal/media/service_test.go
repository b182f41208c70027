package media

import (
	"strings"
	"testing"

	"github.com/disintegration/imaging"
)

// pngHeader is the magic prefix http.DetectContentType sniffs as image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n" + strings.Repeat("\x00", 16))

func TestResolveMIMEType(t *testing.T) {
	tests := []struct {
		name       string
		data       []byte
		headerMIME string
		want       string
		wantErr    bool
	}{
		{
			name:       "sniffed image wins over disallowed header",
			data:       pngHeader,
			headerMIME: "application/x-msdownload",
			want:       "image/png",
		},
		{
			name:       "allowed header refines allowed sniff",
			data:       []byte("col_a,col_b\n1,2\n"),
			headerMIME: "text/csv",
			want:       "text/csv",
		},
		{
			name:       "octet-stream defers to allowed header",
			data:       []byte{0x00, 0x01, 0x02, 0x03},
			headerMIME: "application/pdf",
			want:       "application/pdf",
		},
		{
			name:       "octet-stream with disallowed header rejected",
			data:       []byte{0x00, 0x01, 0x02, 0x03},
			headerMIME: "application/x-msdownload",
			wantErr:    true,
		},
		{
			name:       "disallowed sniffed type rejected",
			data:       []byte("<html><body>hi</body></html>"),
			headerMIME: "image/png",
			wantErr:    true,
		},
		{
			name:       "header parameters stripped",
			data:       []byte{0x00, 0x01, 0x02, 0x03},
			headerMIME: "application/pdf; name=doc.pdf",
			want:       "application/pdf",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolveMIMEType(tc.data, tc.headerMIME)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("got %q, want error", got)
				}
				if !IsUploadError(err) {
					t.Errorf("error %v is not an upload error", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestReplaceExt(t *testing.T) {
	tests := []struct {
		filename string
		newExt   string
		want     string
	}{
		{"photo.webp", ".png", "photo.png"},
		{"photo.jpg", ".jpg", "photo.jpg"},
		{"noext", ".png", "noext.png"},
		{"a.b.c.gif", ".png", "a.b.c.png"},
	}
	for _, tc := range tests {
		if got := replaceExt(tc.filename, tc.newExt); got != tc.want {
			t.Errorf("replaceExt(%q, %q) = %q, want %q", tc.filename, tc.newExt, got, tc.want)
		}
	}
}

func TestFormatFromMIME(t *testing.T) {
	tests := []struct {
		mime string
		want imaging.Format
	}{
		{"image/jpeg", imaging.JPEG},
		{"image/png", imaging.PNG},
		{"image/gif", imaging.GIF},
		// No webp encoder; resized webp uploads come back as PNG.
		{"image/webp", imaging.PNG},
		{"image/unknown", imaging.JPEG},
	}
	for _, tc := range tests {
		if got := formatFromMIME(tc.mime); got != tc.want {
			t.Errorf("formatFromMIME(%q) = %v, want %v", tc.mime, got, tc.want)
		}
	}
}

func TestMIMEClassification(t *testing.T) {
	if !AllowedMIMEType("image/png") || !AllowedMIMEType("application/pdf") {
		t.Error("expected allowed types rejected")
	}
	if AllowedMIMEType("application/x-msdownload") {
		t.Error("executable type allowed")
	}
	if !IsImageMIME("image/png") || IsImageMIME("application/pdf") {
		t.Error("image classification wrong")
	}
	if !isValidVariant("sm") || isValidVariant("xl") {
		t.Error("variant validation wrong")
	}
}
