package user

import "time"

// User carries the account's skin profile and login-streak counters.
type User struct {
	ID            int64      `json:"id"`
	Email         string     `json:"email"`
	DisplayName   string     `json:"displayName"`
	SkinType      string     `json:"skinType"`
	SkinConcerns  []string   `json:"skinConcerns"`
	CurrentStreak int        `json:"currentStreak"`
	LongestStreak int        `json:"longestStreak"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}
