package testutil

import (
	"fmt"
	"time"

	"idolbot/domain/entities"
)

// CreateTestPollination creates a pollination for message msgID with default values
func CreateTestPollination(discordID string, number int64, msgID string) *entities.Pollination {
	return &entities.Pollination{
		DiscordID:      discordID,
		Number:         number,
		MessageID:      msgID,
		ContentNumbers: fmt.Sprintf("%d", number),
		PostedAt:       time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(number) * time.Minute),
	}
}

// CreateTestBioUpdate builds a bio update from optional values; empty strings are left unset
func CreateTestBioUpdate(bio, idolName, imageURL string) entities.BioUpdate {
	var update entities.BioUpdate
	if bio != "" {
		update.Bio = &bio
	}
	if idolName != "" {
		update.FavoriteIdolName = &idolName
	}
	if imageURL != "" {
		update.FavoriteIdolImageURL = &imageURL
	}
	return update
}
