package validation

import "regexp"

// CredentialUpdatePayload is the raw body for the admin credential change.
type CredentialUpdatePayload struct {
	CurrentPassword    string `json:"currentPassword"`
	NewUsername        string `json:"newUsername"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

type CredentialUpdateData struct {
	CurrentPassword string
	NewUsername     string
	NewPassword     string
}

type CredentialUpdateResult struct {
	OK     bool
	Status int
	Error  string
	Data   CredentialUpdateData
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{3,64}$`)

// ValidateCredentialUpdate checks a credential change request: current
// password required, and at least one of new username or new password.
func ValidateCredentialUpdate(p CredentialUpdatePayload) CredentialUpdateResult {
	newUsername, err := SanitizeCredentialText(p.NewUsername, 64)
	if err != nil {
		return CredentialUpdateResult{Status: 400, Error: "Invalid credentials payload."}
	}

	if p.CurrentPassword == "" {
		return CredentialUpdateResult{Status: 400, Error: "Current password is required."}
	}
	if newUsername == "" && p.NewPassword == "" {
		return CredentialUpdateResult{Status: 400, Error: "Provide a new username or new password."}
	}
	if newUsername != "" && !usernamePattern.MatchString(newUsername) {
		return CredentialUpdateResult{Status: 400, Error: "Username must be 3-64 characters and only include letters, numbers, dot, underscore, or hyphen."}
	}
	if p.NewPassword != "" {
		if len(p.NewPassword) < 8 {
			return CredentialUpdateResult{Status: 400, Error: "New password must be at least 8 characters."}
		}
		if p.NewPassword != p.ConfirmNewPassword {
			return CredentialUpdateResult{Status: 400, Error: "New password and confirmation do not match."}
		}
	}

	return CredentialUpdateResult{
		OK: true,
		Data: CredentialUpdateData{
			CurrentPassword: p.CurrentPassword,
			NewUsername:     newUsername,
			NewPassword:     p.NewPassword,
		},
	}
}
