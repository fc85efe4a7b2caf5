package requestresponse

// RegisterRequest : тело запроса на регистрацию
type RegisterRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"P@ssw0rd123"`
}

// LoginRequest : тело запроса на аутентификацию
type LoginRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"P@ssw0rd123"`
}

// AccessTokenResponse : ответ с access токеном; refresh токен уходит только в cookie.
// Пустая строка в accesstoken означает «не аутентифицирован» (endpoint refresh
// никогда не отвечает ошибкой)
type AccessTokenResponse struct {
	AccessToken string `json:"accesstoken" example:"eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9..."`
}

// MessageResponse : подтверждение операции без данных
type MessageResponse struct {
	Message string `json:"message" example:"пользователь создан"`
}

// ProtectedDataResponse : полезные данные защищенного endpoint'а
type ProtectedDataResponse struct {
	Data string `json:"data" example:"секретные данные"`
}

// CurrentUserResponse : информация о текущем пользователе
type CurrentUserResponse struct {
	Response struct {
		UserUUID string `json:"user_uuid" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
		Email    string `json:"email" example:"user@example.com"`
	} `json:"response"`
}

// ErrorResponse : тело ответа при ошибке
type ErrorResponse struct {
	Error string `json:"error" example:"невалидный токен"`
}
