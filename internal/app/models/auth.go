package models

// OTPVerifyResult is the response of a successful one-time-code
// verification: the opaque bearer token plus the user it authenticates.
type OTPVerifyResult struct {
	AccessToken string `json:"accessToken"`
	User        *User  `json:"user"`
	IsNewUser   bool   `json:"isNewUser,omitempty"`
}

// UploadResult describes a stored media file.
type UploadResult struct {
	URL      string `json:"url"`
	Pathname string `json:"pathname"`
}
