package bootstrap

import (
	"time"

	"github.com/fathima-sithara/chatdb-init/internal/models"
	"github.com/fathima-sithara/chatdb-init/internal/utils"
)

const (
	SeedChatID      int64 = 1
	SeedUserID      int64 = 1
	SeedChatName          = "General Chat"
	SeedMessageText       = "Welcome to MongoDB chat!"
)

func SeedChat(now time.Time) *models.Chat {
	return &models.Chat{
		ChatID:       SeedChatID,
		Name:         SeedChatName,
		CreatorID:    SeedUserID,
		Participants: []int64{SeedUserID},
		CreatedAt:    utils.Millis(now),
	}
}

func SeedMessage(now time.Time) *models.Message {
	return &models.Message{
		ChatID:    SeedChatID,
		SenderID:  SeedUserID,
		Text:      SeedMessageText,
		Timestamp: utils.Millis(now),
	}
}
