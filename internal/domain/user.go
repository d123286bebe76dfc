package domain

import (
	"time"
)

type Role string

const (
	RoleMember        Role = "成员"
	RoleChoreographer Role = "编舞"
	RoleDirector      Role = "导演"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
