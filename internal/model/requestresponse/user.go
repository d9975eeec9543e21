package requestresponse

import "time"

// RegisterRequest : тело запроса на регистрацию
type RegisterRequest struct {
	Username string `json:"username" example:"student42"`
	Email    string `json:"email" example:"student42@example.com"`
	Password string `json:"password" example:"P@ssw0rd123"`
}

// RegisterResponse : ответ на успешную регистрацию
type RegisterResponse struct {
	Response struct {
		UserUUID  string    `json:"user_uuid"`
		Username  string    `json:"username"`
		CreatedAt time.Time `json:"created_at"`
	} `json:"response"`
}

// UserProfileResponse : профиль пользователя
type UserProfileResponse struct {
	Response struct {
		UserUUID  string    `json:"user_uuid"`
		Username  string    `json:"username"`
		Email     string    `json:"email"`
		CreatedAt time.Time `json:"created_at"`
	} `json:"response"`
}
