package store

import "time"

// AssetRecord is the metadata kept for every stored asset. File is the name the payload is stored under and acts as
// the primary key of the journal.
type AssetRecord struct {
	File         string    `json:"file"`
	SizeBytes    int64     `json:"size_bytes"`
	Title        *string   `json:"title,omitempty"`
	CreationDate time.Time `json:"creation_date"`
	LastModified time.Time `json:"last_modified"`
}

type EventType string

const (
	EventIngested EventType = "ingested"
	EventDeleted  EventType = "deleted"
)

// Event describes a committed change to the metadata journal.
type Event struct {
	Type   EventType    `json:"type"`
	Record *AssetRecord `json:"record"`
	At     time.Time    `json:"at"`
}
