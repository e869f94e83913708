package constants

// AccessLevel is the visibility label on a document.
type AccessLevel string

const (
	AccessPublic    AccessLevel = "public"
	AccessVolunteer AccessLevel = "volunteer"
	AccessBoard     AccessLevel = "board"
	AccessAdmin     AccessLevel = "admin"
)

func (l AccessLevel) IsValid() bool {
	switch l {
	case AccessPublic, AccessVolunteer, AccessBoard, AccessAdmin:
		return true
	}
	return false
}

// Audience is the target_audience label on an announcement.
type Audience string

const (
	AudienceAll        Audience = "all"
	AudienceVolunteers Audience = "volunteers"
	AudienceBoard      Audience = "board"
)

func (a Audience) IsValid() bool {
	switch a {
	case AudienceAll, AudienceVolunteers, AudienceBoard:
		return true
	}
	return false
}

type (
	SponsorType       string
	SponsorStatus     string
	SignupStatus      string
	ApplicationStatus string
)

const (
	SponsorIndividual SponsorType = "individual"
	SponsorCompany    SponsorType = "company"

	// SponsorPending is an application awaiting payment. Only active
	// sponsors appear on the public wall.
	SponsorPending SponsorStatus = "pending"
	SponsorActive  SponsorStatus = "active"
	SponsorFormer  SponsorStatus = "former"

	SignupPending   SignupStatus = "pending"
	SignupApproved  SignupStatus = "approved"
	SignupCheckedIn SignupStatus = "checked_in"
	SignupCancelled SignupStatus = "cancelled"

	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Counted reports whether a signup occupies a seat against event capacity.
func (s SignupStatus) Counted() bool {
	return s == SignupPending || s == SignupApproved || s == SignupCheckedIn
}
