package user

import "time"

type Role string

const (
	RoleAdmin  Role = "admin" // Back office - manages deliveries, vehicles, map
	RoleDriver Role = "user"  // Driver - attendance and location tracking
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
