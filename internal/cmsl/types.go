package cmsl

// Query selects catalog entries for one platform/OS/OS-version triple.
type Query struct {
	Platform  string // vendor hardware platform identifier (e.g. "8760")
	OS        string // vendor OS name (e.g. "win10")
	OSVersion string // vendor OS version label (e.g. "22H2")
}

// Listing is the result of a catalog query.
type Listing struct {
	// IDs holds softpaq identifiers in encounter order, deduplicated
	// and lowercased.
	IDs []string

	// Raw is the client output the listing came from, structured or
	// free-text. Callers persist it as the catalog log.
	Raw string

	// Scraped is true when the legacy free-text report was pattern
	// scraped because the client has no structured listing.
	Scraped bool
}

// Metadata describes one softpaq as reported by the client.
// Only ID, Title, Version and ReleaseDate are guaranteed; the rest
// depend on the client version.
type Metadata struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Version     string `json:"version"`
	ReleaseDate string `json:"releaseDate"` // yyyyMMdd
	Category    string `json:"category,omitempty"`
	SizeBytes   int64  `json:"sizeBytes,omitempty"`
	SHA256      string `json:"sha256,omitempty"`
	URL         string `json:"url,omitempty"`
}

// Device is one hardware family matching a platform identifier.
type Device struct {
	Platform string `json:"platform"`
	Name     string `json:"name"`
}
