package analyzer

import (
	"context"

	"igstats/pkg/instagram"
)

// InstagramClient defines the API operations the analyzer needs
type InstagramClient interface {
	FetchUserProfile(ctx context.Context, username string) (*instagram.ProfileResponse, error)
	FetchUserMedia(ctx context.Context, userID, after string, limit int) (*instagram.MediaResponse, error)
}
