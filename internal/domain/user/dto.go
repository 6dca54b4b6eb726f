package user

import "time"

type ProfileResponse struct {
	ID               string  `json:"id"`
	StaffID          string  `json:"staff_id"`
	Name             string  `json:"name"`
	Phone            string  `json:"phone"`
	Address          string  `json:"address"`
	PhotoURL         *string `json:"photo_url"`
	ProfileCompleted bool    `json:"profile_completed"`
	Status           Status  `json:"status"`
	CreatedAt        string  `json:"created_at"`
}

func ToProfileResponse(u *User) ProfileResponse {
	return ProfileResponse{
		ID:               u.ID,
		StaffID:          u.StaffID,
		Name:             u.Name,
		Phone:            u.Phone,
		Address:          u.Address,
		PhotoURL:         u.PhotoURL,
		ProfileCompleted: u.ProfileCompleted,
		Status:           u.Status,
		CreatedAt:        u.CreatedAt.Format(time.RFC3339),
	}
}
