package model

// LikeNotice is the payload of the like-notification endpoint.
type LikeNotice struct {
	SongID    string `json:"songId"`
	SongTitle string `json:"songTitle"`
}

// ContactMessage is the payload of the contact endpoint.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
