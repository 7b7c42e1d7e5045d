package apperr

var (
	// Account lookup misses and password mismatches share this value.
	InvalidCredentials = New(Unauthorized, "Auth.InvalidCredentials", "Invalid email or password")

	EmailAlreadyExists   = New(Conflict, "Auth.EmailAlreadyExists", "An account with this email already exists")
	PasswordTooLong      = New(Validation, "Auth.PasswordTooLong", "Password must be at most 72 bytes")
	WeakPassword         = New(Validation, "Auth.WeakPassword", "Password must be at least 8 characters and contain an uppercase letter, a lowercase letter and a digit")
	InvalidEmail         = New(Validation, "Auth.InvalidEmail", "Email address is not valid")
	InvalidRefreshToken  = New(Unauthorized, "Auth.InvalidRefreshToken", "Refresh token is invalid")
	RefreshTokenExpired  = New(Unauthorized, "Auth.RefreshTokenExpired", "Refresh token has expired or was revoked")
	InvalidExternalToken = New(Unauthorized, "Auth.InvalidExternalToken", "External identity assertion could not be verified")
	InvalidAccessToken   = New(Unauthorized, "Auth.InvalidAccessToken", "Access token is invalid")
	AccountNotFound      = New(NotFound, "Account.NotFound", "Account was not found")
	DomainUserNotFound   = New(NotFound, "User.NotFound", "User was not found")
	RoleNotFound         = New(NotFound, "Role.NotFound", "Role was not found")
)
