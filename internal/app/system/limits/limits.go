// internal/app/system/limits/limits.go
package limits

// Request body size limits. Larger bodies are rejected before decoding.
const (
	// MaxJSONBody bounds any JSON request body.
	MaxJSONBody = 1 << 20 // 1 MB

	// MaxLoginBody bounds the sign-in payload.
	MaxLoginBody = 8 << 10 // 8 KB
)
