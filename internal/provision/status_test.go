package provision

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZebulonRouseFrantzich/paqman/internal/cmsl"
)

func statusByID(entries []StatusEntry) map[string]ItemStatus {
	m := make(map[string]ItemStatus, len(entries))
	for _, e := range entries {
		key := e.ID
		if key == "" {
			key = e.Filename
		}
		m[key] = e.Status
	}
	return m
}

func TestService_Status(t *testing.T) {
	catalog := testCatalog()
	service := newTestService(catalog, &fakeRunner{})
	dir := t.TempDir()

	// One expected download present, one stray installer.
	present := "Intel Chipset Driver - 10.1.2 (Jan 15, 2024).exe"
	if err := os.WriteFile(filepath.Join(dir, present), []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	stray := "Stray Utility - 1.0 (Feb 01, 2020).exe"
	if err := os.WriteFile(filepath.Join(dir, stray), []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	report, err := service.Status(context.Background(), StatusRequest{
		Platform:  "8760",
		OS:        "win10",
		OSVersion: "22H2",
		TargetDir: dir,
	})
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}

	got := statusByID(report.Entries)
	if got["sp100001"] != StatusOK {
		t.Errorf("sp100001 = %s, want OK", got["sp100001"])
	}
	if got["sp100002"] != StatusMissing {
		t.Errorf("sp100002 = %s, want MISSING", got["sp100002"])
	}
	if got["sp100003"] != StatusMissing {
		t.Errorf("sp100003 = %s, want MISSING", got["sp100003"])
	}
	if got[stray] != StatusExtra {
		t.Errorf("%s = %s, want EXTRA", stray, got[stray])
	}
	if report.InSync() {
		t.Error("InSync() = true, want false")
	}
}

func TestService_Status_InSync(t *testing.T) {
	catalog := testCatalog()
	service := newTestService(catalog, &fakeRunner{})
	dir := t.TempDir()

	for _, name := range testFilenames {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	report, err := service.Status(context.Background(), StatusRequest{
		Platform:  "8760",
		TargetDir: dir,
	})
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}

	if !report.InSync() {
		t.Errorf("InSync() = false, entries: %+v", report.Entries)
	}
}

func TestService_Status_MissingTargetDirectory(t *testing.T) {
	catalog := testCatalog()
	service := newTestService(catalog, &fakeRunner{})

	report, err := service.Status(context.Background(), StatusRequest{
		Platform:  "8760",
		TargetDir: filepath.Join(t.TempDir(), "absent"),
	})
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}

	for _, e := range report.Entries {
		if e.Status == StatusExtra {
			t.Errorf("unexpected EXTRA entry in absent directory: %+v", e)
		}
		if e.Status == StatusOK {
			t.Errorf("unexpected OK entry in absent directory: %+v", e)
		}
	}
}

func TestService_Status_MetadataFailure(t *testing.T) {
	catalog := testCatalog()
	catalog.metaErr = map[string]error{"sp100002": errors.New("catalog timeout")}
	service := newTestService(catalog, &fakeRunner{})

	report, err := service.Status(context.Background(), StatusRequest{
		Platform:  "8760",
		TargetDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}

	got := statusByID(report.Entries)
	if got["sp100002"] != StatusUnknown {
		t.Errorf("sp100002 = %s, want UNKNOWN", got["sp100002"])
	}
}

func TestService_Status_FatalCatalogError(t *testing.T) {
	catalog := testCatalog()
	catalog.listErr = cmsl.ErrPlatformRejected
	service := newTestService(catalog, &fakeRunner{})

	_, err := service.Status(context.Background(), StatusRequest{
		Platform:  "8760",
		TargetDir: t.TempDir(),
	})
	if !errors.Is(err, cmsl.ErrPlatformRejected) {
		t.Errorf("error = %v, want ErrPlatformRejected", err)
	}
}

func TestFormatStatusReport(t *testing.T) {
	report := &StatusReport{
		Platform: "8760",
		Entries: []StatusEntry{
			{Status: StatusOK, ID: "sp100001", Filename: "A.exe"},
			{Status: StatusMissing, ID: "sp100002", Filename: "B.exe"},
			{Status: StatusExtra, Filename: "C.exe"},
			{Status: StatusUnknown, ID: "sp100004"},
		},
	}

	out := FormatStatusReport(report)

	for _, want := range []string{
		"DRIVER PACK STATUS",
		"[MISSING]",
		"sp100002",
		"Expected:  B.exe",
		"[EXTRA]",
		"C.exe",
		"[UNKNOWN]",
		"sp100004",
		"1 softpaqs match the catalog",
		"SUMMARY: 3 differences detected",
		"1 missing, 1 extra, 1 unknown",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}

	if strings.Contains(out, "[OK]\n  sp100001") {
		t.Error("OK entries should not be listed individually")
	}
}

func TestFormatStatusReport_InSync(t *testing.T) {
	report := &StatusReport{
		Platform: "8760",
		Entries: []StatusEntry{
			{Status: StatusOK, ID: "sp100001", Filename: "A.exe"},
		},
	}

	out := FormatStatusReport(report)
	if !strings.Contains(out, "SUMMARY: target directory is in sync ✓") {
		t.Errorf("report missing in-sync summary:\n%s", out)
	}
}
