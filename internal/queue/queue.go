package queue

import (
	"github.com/nikhilm23/moodlens/internal/service"
)

type Queue struct {
	in service.IngestionService
}

func NewQueue(in service.IngestionService) *Queue {
	return &Queue{
		in: in,
	}
}

const TaskTypeIngestAccount = "ingest:account"

type IngestAccountPayload struct {
	AccountID int64 `json:"account_id"`
	MaxItems  int   `json:"max_items"`
}
