package domain

type Role string

const (
	RoleNone  Role = ""
	RoleAdmin Role = "admin"
)
