package services

import (
	"riverbend/portal/internal/models/dtos"
	gormModels "riverbend/portal/internal/models/gorm"
)

func toUserResponse(u *gormModels.User) dtos.UserResponse {
	resp := dtos.UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Phone:         u.Phone,
		Role:          string(u.Role),
		AccountType:   string(u.AccountType),
		IsActive:      u.IsActive,
		EmailVerified: u.IsVerified(),
		Title:         u.Title,
		Bio:           u.Bio,
		CreatedAt:     u.CreatedAt,
	}
	if u.VolunteerProfile != nil {
		p := toVolunteerProfileResponse(u.VolunteerProfile)
		resp.VolunteerProfile = &p
	}
	return resp
}

func toVolunteerProfileResponse(p *gormModels.VolunteerProfile) dtos.VolunteerProfileResponse {
	skills := []string(p.Skills)
	if skills == nil {
		skills = []string{}
	}
	interests := []string(p.Interests)
	if interests == nil {
		interests = []string{}
	}
	return dtos.VolunteerProfileResponse{
		Skills:            skills,
		Interests:         interests,
		Availability:      p.Availability,
		EmergencyContact:  p.EmergencyContact,
		HoursCompleted:    p.HoursCompleted,
		ApplicationStatus: string(p.ApplicationStatus),
	}
}

func toSponsorResponse(s *gormModels.Sponsor) dtos.SponsorResponse {
	effective := s.EffectiveTier()
	return dtos.SponsorResponse{
		ID:            s.ID,
		UserID:        s.UserID,
		SponsorType:   string(s.SponsorType),
		DisplayName:   s.DisplayName(),
		CompanyName:   s.CompanyName,
		ContactName:   s.ContactName,
		ContactEmail:  s.ContactEmail,
		ContactPhone:  s.ContactPhone,
		StreetAddress: s.StreetAddress,
		City:          s.City,
		State:         s.State,
		ZipCode:       s.ZipCode,
		TotalAmount:   s.TotalAmount,
		Tier:          string(effective.ID),
		TierName:      effective.Name,
		TierColor:     effective.Color,
		ComputedTier:  string(s.ComputedTier().ID),
		TierOverride:  s.TierOverride,
		Status:        string(s.Status),
		LogoURL:       s.LogoURL,
		Website:       s.Website,
		Message:       s.Message,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func toPublicSponsor(s *gormModels.Sponsor) dtos.PublicSponsorResponse {
	effective := s.EffectiveTier()
	return dtos.PublicSponsorResponse{
		ID:        s.ID,
		Name:      s.DisplayName(),
		Tier:      string(effective.ID),
		TierName:  effective.Name,
		TierColor: effective.Color,
		LogoURL:   s.LogoURL,
		Website:   s.Website,
	}
}

// toEventResponse fills seat counts from seats taken. Capacity 0 means
// unlimited and leaves SeatsRemaining nil.
func toEventResponse(e *gormModels.Event, seats int) dtos.EventResponse {
	resp := dtos.EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Category:    e.Category,
		Location:    e.Location,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		Capacity:    e.Capacity,
		SeatsTaken:  seats,
		IsPublished: e.IsPublished,
	}
	if e.Capacity > 0 {
		remaining := max(e.Capacity-seats, 0)
		resp.SeatsRemaining = &remaining
	}
	return resp
}

func toSignupResponse(s *gormModels.VolunteerSignup) dtos.SignupResponse {
	resp := dtos.SignupResponse{
		ID:          s.ID,
		EventID:     s.EventID,
		UserID:      s.UserID,
		Status:      string(s.Status),
		ShiftNotes:  s.ShiftNotes,
		CheckedInAt: s.CheckedInAt,
		CreatedAt:   s.CreatedAt,
	}
	if s.Event != nil {
		ev := toEventResponse(s.Event, 0)
		ev.SeatsRemaining = nil
		resp.Event = &ev
	}
	if s.User != nil {
		resp.Volunteer = &dtos.VolunteerSummary{
			ID:    s.User.ID,
			Name:  s.User.FullName(),
			Email: s.User.Email,
			Phone: s.User.Phone,
		}
	}
	return resp
}

func toDocumentResponse(d *gormModels.Document) dtos.DocumentResponse {
	return dtos.DocumentResponse{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		AccessLevel: string(d.AccessLevel),
		FileName:    d.FileName,
		DownloadURL: "/api/documents/" + d.ID + "/download",
		MimeType:    d.MimeType,
		SizeBytes:   d.SizeBytes,
		CreatedAt:   d.CreatedAt,
	}
}

func toAnnouncementResponse(a *gormModels.Announcement, includeAuthor bool) dtos.AnnouncementResponse {
	resp := dtos.AnnouncementResponse{
		ID:             a.ID,
		Title:          a.Title,
		Body:           a.Body,
		TargetAudience: string(a.TargetAudience),
		PublishedAt:    a.PublishedAt,
		IsDraft:        a.PublishedAt == nil,
		CreatedAt:      a.CreatedAt,
	}
	if includeAuthor {
		resp.AuthorID = a.AuthorID
	}
	return resp
}
