package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Domain models matching the database schema in db/migrations/0001_init.sql

type Account struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
	Created      int64  `json:"created" db:"created"`
}

// MediaKind is the closed set of gallery media types.
type MediaKind int

const (
	MediaImage MediaKind = iota
	MediaVideo
)

func (k MediaKind) String() string {
	switch k {
	case MediaImage:
		return "image"
	case MediaVideo:
		return "video"
	default:
		return fmt.Sprintf("MediaKind(%d)", int(k))
	}
}

// ParseMediaKind accepts the wire representation ("image" or "video").
func ParseMediaKind(s string) (MediaKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "image":
		return MediaImage, nil
	case "video":
		return MediaVideo, nil
	default:
		return 0, fmt.Errorf("unknown media kind %q", s)
	}
}

func (k MediaKind) MarshalJSON() ([]byte, error) {
	if k != MediaImage && k != MediaVideo {
		return nil, fmt.Errorf("invalid media kind %d", int(k))
	}
	return json.Marshal(k.String())
}

func (k *MediaKind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseMediaKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

type MediaItem struct {
	ID          int64     `json:"id" db:"id"`
	URL         string    `json:"url" db:"url"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"desc" db:"description"`
	Kind        MediaKind `json:"type" db:"kind"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type Inquiry struct {
	ID        int64     `json:"id" db:"id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Email     string    `json:"email" db:"email"`
	Mobile    string    `json:"mobile" db:"mobile"`
	Subject   string    `json:"subject" db:"subject"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
