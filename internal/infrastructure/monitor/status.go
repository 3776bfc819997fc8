package monitor

import "time"

type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	BlobStore  bool      `json:"blob_store"`
	BlobCount  int       `json:"blob_count"`
	LastCheck  time.Time `json:"last_check"`
}
