package auth

import "time"

// AccessClaims are the claims embedded in an access token.
type AccessClaims struct {
	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`

	// Custom claims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// DeviceInfo describes the client that created a session. It is captured at
// login and stored alongside the session for display in session listings.
type DeviceInfo struct {
	DeviceType    string `json:"device_type"` // "web", "mobile", "desktop"
	Platform      string `json:"platform"`    // "windows", "macos", "linux", "android", "ios"
	ClientName    string `json:"client_name"`
	ClientVersion string `json:"client_version,omitempty"`
	DeviceName    string `json:"device_name,omitempty"`
	BrowserName   string `json:"browser_name,omitempty"`
}

// IsValid reports whether the device info carries the minimum required fields.
func (d *DeviceInfo) IsValid() bool {
	return d.DeviceType != "" && d.Platform != ""
}
