package constants

import "time"

type (
	RequestSource string
	CachePrefix   string
)

const (
	RequestSourceBearer RequestSource = "BEARER"
	RequestSourceCookie RequestSource = "COOKIE"

	CachePrefixTiers       CachePrefix = "TIERS"
	CachePrefixSponsorWall CachePrefix = "SPONSOR_WALL"
	CachePrefixBoard       CachePrefix = "BOARD_BIOS"
	CachePrefixVerifyToken CachePrefix = "VERIFY_"
	CachePrefixResetToken  CachePrefix = "RESET_"
)

const (
	SessionCookieName = "portal_session"

	PublicContentTTL = 5 * time.Minute
	VerifyTokenTTL   = 48 * time.Hour
	ResetTokenTTL    = time.Hour

	// MaxUploadBytes is the default document upload ceiling (10MB).
	MaxUploadBytes int64 = 10 << 20
)
