package entity

import "time"

// IdempotencyRecord caches the response to a request that carried an
// Idempotency-Key, so a retried request gets the same answer.
type IdempotencyRecord struct {
	Key          string    `json:"key"`
	Username     string    `json:"username"`
	Endpoint     string    `json:"endpoint"`
	ResponseCode int       `json:"response_code"`
	ResponseBody string    `json:"response_body"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// IsExpired checks if the record has expired
func (i *IdempotencyRecord) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}
