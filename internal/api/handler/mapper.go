package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/techzone/storefront-api/internal/core/domain"
	"github.com/techzone/storefront-api/internal/core/ports"
)

// Accepted layouts for a date of birth.
var dobLayouts = []string{"2006-01-02", time.RFC3339}

// --- Request → Service input ---

func toRegisterInput(req registerRequest) (ports.RegisterInput, error) {
	dob, err := parseDOB(req.DOB)
	if err != nil {
		return ports.RegisterInput{}, err
	}

	in := ports.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: dob,
		Password:    req.Password,
	}
	if req.Avatar != nil {
		in.Avatar = &domain.Avatar{PublicID: req.Avatar.PublicID, URL: req.Avatar.URL}
	}
	return in, nil
}

func toLoginInput(req loginRequest) ports.LoginInput {
	return ports.LoginInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            domain.Role(req.Role),
	}
}

func parseDOB(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dobLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: dob must be a date (YYYY-MM-DD)", domain.ErrInvalidArgument)
}
