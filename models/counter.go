package models

// Counter holds the sequence cursor for one logical counter key, e.g. "projectId".
// The key doubles as the document id so increments target a single document.
type Counter struct {
	Key string `json:"key" bson:"_id"`
	Seq int64  `json:"seq" bson:"seq"`
}
