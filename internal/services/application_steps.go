package services

import (
	"riverbend/portal/internal/models/dtos"
	"riverbend/portal/internal/validator"
)

// ApplicationStep is a screen of the sponsor application form. The step
// machine only drives the client; submission re-validates everything.
type ApplicationStep string

const (
	StepTierSelection ApplicationStep = "tier_selection"
	StepContactInfo   ApplicationStep = "contact_info"
	StepAddress       ApplicationStep = "address"
	StepReview        ApplicationStep = "review"
	StepConfirmation  ApplicationStep = "confirmation"
)

var stepOrder = []ApplicationStep{
	StepTierSelection,
	StepContactInfo,
	StepAddress,
	StepReview,
	StepConfirmation,
}

// stepFields lists the Go field names each step validates. Review checks
// the whole form.
var stepFields = map[ApplicationStep][]string{
	StepTierSelection: {"Tier", "SponsorType"},
	StepContactInfo:   {"CompanyName", "ContactName", "ContactEmail", "ContactPhone", "Website"},
	StepAddress:       {"StreetAddress", "City", "State", "ZipCode"},
}

func ParseStep(s string) (ApplicationStep, bool) {
	for _, step := range stepOrder {
		if string(step) == s {
			return step, true
		}
	}
	return "", false
}

func stepIndex(step ApplicationStep) int {
	for i, s := range stepOrder {
		if s == step {
			return i
		}
	}
	return 0
}

// NextStep advances only when the current step validated cleanly.
// Confirmation is terminal.
func NextStep(current ApplicationStep, errs map[string]string) ApplicationStep {
	if len(errs) > 0 {
		return current
	}
	i := stepIndex(current)
	if i+1 >= len(stepOrder) {
		return current
	}
	return stepOrder[i+1]
}

// PrevStep goes back one screen. Entered data stays with the client; only
// the error state is cleared.
func PrevStep(current ApplicationStep) ApplicationStep {
	i := stepIndex(current)
	if i == 0 {
		return current
	}
	return stepOrder[i-1]
}

// ValidateStep returns field errors for one step, keyed by JSON name.
func ValidateStep(v *validator.Validator, step ApplicationStep, form dtos.SponsorApplicationRequest) map[string]string {
	var err error
	if fields, ok := stepFields[step]; ok {
		err = v.Partial(normalizeApplication(form), fields...)
	} else {
		err = v.Struct(normalizeApplication(form))
	}
	if err == nil {
		return nil
	}
	if ve, ok := err.(*validator.ValidationError); ok {
		return ve.Errors
	}
	return map[string]string{"form": err.Error()}
}
