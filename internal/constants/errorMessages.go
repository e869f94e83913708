package constants

const (
	MsgInvalidBody        = "Invalid request body"
	MsgUnauthorized       = "Unauthorized"
	MsgForbiddenRole      = "Unauthorized. Insufficient role"
	MsgNotFound           = "Not found"
	MsgInternal           = "Something went wrong. Please try again later."
	MsgTooManyRequests    = "Too many requests"
	MsgInvalidCredentials = "Invalid email or password"
	MsgEmailNotVerified   = "Please verify your email before signing in"
	MsgAccountInactive    = "This account is inactive"
	MsgInvalidToken       = "This link is invalid or has expired"
)

const (
	MsgSponsorExists      = "A sponsor with this email already exists. Please contact us if you need to update your application."
	MsgUserExists         = "An account with this email already exists"
	MsgEventFull          = "This event is full"
	MsgAlreadySignedUp    = "You are already signed up for this event"
	MsgUploadTooLarge     = "File exceeds the 10MB limit"
	MsgUploadTypeRejected = "File type not allowed. Upload a PDF, Word, Excel, text or CSV file"
	MsgAccessLevelDenied  = "You cannot assign that access level"
)
