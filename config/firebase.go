package config

// TokenStorageKey is the fixed key the application authorization token is persisted under.
const TokenStorageKey = "stayEase-token"

// FirebaseSecureTokenURL exchanges a Firebase refresh token for a fresh ID token.
var FirebaseSecureTokenURL = "https://securetoken.googleapis.com/v1/token"

// FirebaseCredentialsConfigured reports whether an admin service-account file was supplied.
func FirebaseCredentialsConfigured() bool {
	return AppConfig.FirebaseCredentialsFile != ""
}
