// Package models contains API records and client-side objects
package models

import (
	"strings"
	"time"
)

// PhotoResult presents a photo record returned by /photos
type PhotoResult struct {
	ID          string     `json:"id"`
	CreatedAt   *string    `json:"created_at"`
	Width       int        `json:"width"`
	Height      int        `json:"height"`
	LikedByUser bool       `json:"liked_by_user"`
	Description *string    `json:"description"`
	URLs        URLsResult `json:"urls"`
}

// URLsResult presents the set of image urls of a photo
type URLsResult struct {
	Raw     string `json:"raw"`
	Full    string `json:"full"`
	Regular string `json:"regular"`
	Small   string `json:"small"`
	Thumb   string `json:"thumb"`
}

// Photo is a feed item kept by the client
type Photo struct {
	ID          string
	Width       int
	Height      int
	CreatedAt   *time.Time
	Description string
	ThumbURL    string
	FullURL     string
	IsLiked     bool
}

// ProfileResult presents /me response
type ProfileResult struct {
	Username  string  `json:"username"`
	FirstName string  `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
}

// Profile of the signed-in user
type Profile struct {
	Username  string
	Name      string
	LoginName string
	Bio       string
}

// UserResult presents /users/{username} response, only the avatar part
type UserResult struct {
	ProfileImage struct {
		Small  string `json:"small"`
		Medium string `json:"medium"`
		Large  string `json:"large"`
	} `json:"profile_image"`
}

// TokenResult presents oauth token response
type TokenResult struct {
	AccessToken string `json:"access_token"`
}

// NewPhoto makes Photo from the api record. Description is passed through clean func if set.
func NewPhoto(r PhotoResult, clean func(string) string) Photo {
	res := Photo{
		ID:       r.ID,
		Width:    r.Width,
		Height:   r.Height,
		ThumbURL: r.URLs.Regular,
		FullURL:  r.URLs.Full,
		IsLiked:  r.LikedByUser,
	}
	if r.CreatedAt != nil {
		if ts, err := time.Parse(time.RFC3339, *r.CreatedAt); err == nil {
			res.CreatedAt = &ts
		}
	}
	if r.Description != nil {
		res.Description = *r.Description
		if clean != nil {
			res.Description = clean(res.Description)
		}
	}
	return res
}

// NewProfile makes Profile from /me record
func NewProfile(r ProfileResult) Profile {
	lastName := ""
	if r.LastName != nil {
		lastName = *r.LastName
	}
	res := Profile{
		Username:  r.Username,
		Name:      strings.TrimSpace(r.FirstName + " " + lastName),
		LoginName: "@" + r.Username,
	}
	if r.Bio != nil {
		res.Bio = *r.Bio
	}
	return res
}
