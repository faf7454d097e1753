package response

import "github.com/threadboard/comments/domain"

const DateTimeFormat = "2006-01-02 15:04:05"

// User is the author summary embedded in comment responses.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NewUserFromDomain(u *domain.User) *User {
	if u == nil {
		return nil
	}
	return &User{
		ID:   u.ID,
		Name: u.FullName,
	}
}

// RegisteredUser is what a fresh registration returns. The password hash
// never leaves the domain.
type RegisteredUser struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func NewRegisteredUserFromDomain(u *domain.User) RegisteredUser {
	return RegisteredUser{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt.Format(DateTimeFormat),
	}
}
