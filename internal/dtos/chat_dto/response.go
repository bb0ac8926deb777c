package chat_dto

import (
	chat_repo "github.com/yogaputrap/createsync-platform/internal/repo/chat"
)

type ListMessagesResponse struct {
	Messages []chat_repo.MessageRow `json:"messages"`
}
