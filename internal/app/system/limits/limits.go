// internal/app/system/limits/limits.go
package limits

// Request body size limits for various features.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBodySize is the maximum size for JSON request bodies
	// (preference submissions, deadline updates, project intake).
	MaxJSONBodySize = 64 << 10 // 64 KB

	// MaxCSVUploadSize is the maximum size for roster CSV uploads.
	MaxCSVUploadSize = 5 << 20 // 5 MB
)
