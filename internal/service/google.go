package service

import (
	"context" // Request scoped cancellation
	"fmt"     // Error wrapping

	"google.golang.org/api/idtoken" // Google id token validation
	"google.golang.org/api/option"  // Validator client options
)

// GoogleIdentity is the verified payload of a Google id token
type GoogleIdentity struct {
	Subject string
	Email   string
	Name    string
}

// IDTokenVerifier verifies Google id tokens
type IDTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleIdentity, error)
}

// tokenValidator is the part of *idtoken.Validator used here
type tokenValidator interface {
	Validate(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error)
}

// GoogleVerifier checks id token signatures against Google's published keys
type GoogleVerifier struct {
	clientID  string         // Expected audience
	validator tokenValidator // Caches Google's signing keys
}

// NewGoogleVerifier returns a verifier accepting tokens issued for clientID.
// opts are passed to idtoken.NewValidator.
func NewGoogleVerifier(ctx context.Context, clientID string, opts ...option.ClientOption) (*GoogleVerifier, error) {
	v, err := idtoken.NewValidator(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google validator: %w", err)
	}
	return &GoogleVerifier{clientID: clientID, validator: v}, nil
}

// Verify validates the token signature, issuer, expiry and audience
func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	if idToken == "" || v.clientID == "" {
		return nil, ErrInvalidGoogleToken
	}
	payload, err := v.validator.Validate(ctx, idToken, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGoogleToken, err)
	}
	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if email == "" || payload.Subject == "" || !emailVerified(payload.Claims["email_verified"]) {
		return nil, ErrInvalidGoogleToken
	}
	return &GoogleIdentity{Subject: payload.Subject, Email: email, Name: name}, nil
}

// emailVerified rejects only an explicit false, as a bool or a string
func emailVerified(claim any) bool {
	switch v := claim.(type) {
	case bool:
		return v
	case string:
		return v != "false"
	}
	return true // Claim absent
}
