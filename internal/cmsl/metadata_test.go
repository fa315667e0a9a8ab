package cmsl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestClient_Metadata(t *testing.T) {
	client := newStubClient(t, `#!/bin/bash
if [ "$1" = "metadata" ]; then
  echo '{"id":"sp107513","title":"Intel Wireless LAN Driver","version":"22.200.0.6","releaseDate":"20240115","category":"Driver - Network","sizeBytes":12345678,"sha256":"abc123"}'
fi
`)

	meta, err := client.Metadata(context.Background(), "sp107513")
	if err != nil {
		t.Fatalf("Metadata() error = %v", err)
	}

	if meta.ID != "sp107513" {
		t.Errorf("ID = %q, want %q", meta.ID, "sp107513")
	}
	if meta.Title != "Intel Wireless LAN Driver" {
		t.Errorf("Title = %q, want %q", meta.Title, "Intel Wireless LAN Driver")
	}
	if meta.Version != "22.200.0.6" {
		t.Errorf("Version = %q, want %q", meta.Version, "22.200.0.6")
	}
	if meta.ReleaseDate != "20240115" {
		t.Errorf("ReleaseDate = %q, want %q", meta.ReleaseDate, "20240115")
	}
	if meta.SizeBytes != 12345678 {
		t.Errorf("SizeBytes = %d, want %d", meta.SizeBytes, 12345678)
	}
	if meta.SHA256 != "abc123" {
		t.Errorf("SHA256 = %q, want %q", meta.SHA256, "abc123")
	}
}

func TestClient_Metadata_FillsMissingID(t *testing.T) {
	client := newStubClient(t, `#!/bin/bash
echo '{"title":"Audio Driver","version":"1.0","releaseDate":"20230601"}'
`)

	meta, err := client.Metadata(context.Background(), "sp99999")
	if err != nil {
		t.Fatalf("Metadata() error = %v", err)
	}
	if meta.ID != "sp99999" {
		t.Errorf("ID = %q, want requested id filled in", meta.ID)
	}
}

func TestClient_Metadata_Errors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		id     string
		want   error
	}{
		{
			name:   "invalid id rejected before exec",
			script: "#!/bin/bash\nexit 0\n",
			id:     "not-an-id",
			want:   ErrInvalidSoftpaqID,
		},
		{
			name:   "unparsable output",
			script: "#!/bin/bash\necho 'not json'\n",
			id:     "sp123",
			want:   nil, // plain parse error, no sentinel
		},
		{
			name:   "missing title",
			script: "#!/bin/bash\necho '{\"id\":\"sp123\",\"version\":\"1.0\"}'\n",
			id:     "sp123",
			want:   ErrClientInvocation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newStubClient(t, tt.script)

			_, err := client.Metadata(context.Background(), tt.id)
			if err == nil {
				t.Fatal("Metadata() expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Metadata() error = %v, want errors.Is %v", err, tt.want)
			}
		})
	}
}

func TestClient_Download(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "Intel Wireless LAN Driver - 22.200.0.6 (Jan 15, 2024).exe")

	client := newStubClient(t, `#!/bin/bash
out=""
prev=""
for a in "$@"; do
  if [ "$prev" = "--output" ]; then out="$a"; fi
  prev="$a"
done
echo "installer payload" > "$out"
`)

	if err := client.Download(context.Background(), "sp107513", dest); err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("downloaded file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("downloaded file is empty")
	}
}

func TestClient_Download_NoFileProduced(t *testing.T) {
	client := newStubClient(t, `#!/bin/bash
exit 0
`)

	dest := filepath.Join(t.TempDir(), "missing.exe")
	err := client.Download(context.Background(), "sp107513", dest)
	if !errors.Is(err, ErrClientInvocation) {
		t.Errorf("Download() error = %v, want ErrClientInvocation", err)
	}
}

func TestClient_Download_EmptyFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "empty.exe")

	client := newStubClient(t, fmt.Sprintf(`#!/bin/bash
: > %q
`, dest))

	err := client.Download(context.Background(), "sp107513", dest)
	if !errors.Is(err, ErrClientInvocation) {
		t.Errorf("Download() error = %v, want ErrClientInvocation", err)
	}
}

func TestClient_Download_ClientFailure(t *testing.T) {
	client := newStubClient(t, `#!/bin/bash
echo "download failed: connection reset" >&2
exit 1
`)

	dest := filepath.Join(t.TempDir(), "sp1.exe")
	err := client.Download(context.Background(), "sp107513", dest)
	if !errors.Is(err, ErrClientInvocation) {
		t.Errorf("Download() error = %v, want ErrClientInvocation", err)
	}
}
