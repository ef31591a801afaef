// internal/app/system/csvutil/limits.go
package csvutil

// Limits for roster CSV uploads. MaxRows is well above any realistic
// course enrollment; it exists to bound memory, not to enforce policy.
const (
	MaxUploadSize = 5 << 20 // 5 MB
	MaxRows       = 10000
)
