package domain

// TokenPurpose restricts which operation may consume a token. It travels
// as a signed claim, so an access token can never be replayed as a refresh
// token and neither can stand in for an email-confirmation token.
type TokenPurpose string

const (
	PurposeAccess      TokenPurpose = "access"
	PurposeRefresh     TokenPurpose = "refresh"
	PurposeEmailVerify TokenPurpose = "email_verification"
)
