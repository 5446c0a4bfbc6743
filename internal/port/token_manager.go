package port

type TokenManager interface {
	// Issue creates a signed, time-bounded credential for the principal
	Issue(userID int64) (string, error)

	// Verify decodes and checks the credential, returning the principal id.
	// Any decode, signature or expiry failure is reported as an error.
	Verify(token string) (int64, error)
}
