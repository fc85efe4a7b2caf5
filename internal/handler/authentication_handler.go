package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"jwt-auth-server/config"
	"jwt-auth-server/internal/model"
	"jwt-auth-server/internal/model/requestresponse"
	"jwt-auth-server/internal/ports"
)

// RefreshCookieName — имя cookie с refresh-токеном
const RefreshCookieName = "refreshtoken"

// RefreshCookiePath ограничивает cookie одним endpoint'ом: на остальные
// запросы refresh-токен браузером не отправляется
const RefreshCookiePath = "/api/auth/refresh"

type AuthenticationHandler struct {
	ports.AuthenticationService
	cookieConfig *config.CookieConfig
}

func NewAuthenticationHandler(
	authenticationService ports.AuthenticationService,
	cookieConfig *config.CookieConfig,
) *AuthenticationHandler {
	return &AuthenticationHandler{
		authenticationService,
		cookieConfig,
	}
}

// Register godoc
// @Summary Регистрация пользователя
// @Description Создает нового пользователя по email и паролю
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.RegisterRequest true "Тело запроса"
// @Success 201 {object} requestresponse.MessageResponse "Пользователь создан"
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON или пустые поля"
// @Failure 409 {object} requestresponse.ErrorResponse "Email уже занят"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/register [post]
func (h *AuthenticationHandler) Register(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	var req requestresponse.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}

	if req.Email == "" || req.Password == "" {
		sendErrorResponse(w, 400, "email и password обязательны")
		return
	}

	_, err := h.AuthenticationService.Register(ctx, req.Email, req.Password)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, model.ErrUserExists):
			sendErrorResponse(w, http.StatusConflict, "пользователь уже существует")
		default:
			sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(requestresponse.MessageResponse{Message: "пользователь создан"})
}

// Login godoc
// @Summary Аутентификация пользователя
// @Description Получение access токена по email и паролю; refresh токен устанавливается в cookie
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.LoginRequest true "Тело запроса"
// @Success 200 {object} requestresponse.AccessTokenResponse "Успешная аутентификация"
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON или пустые поля"
// @Failure 401 {object} requestresponse.ErrorResponse "Неверный email или пароль"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/login [post]
func (h *AuthenticationHandler) Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	var req requestresponse.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}

	if req.Email == "" || req.Password == "" {
		sendErrorResponse(w, 400, "email и password обязательны")
		return
	}

	tokens, err := h.AuthenticationService.Login(ctx, req.Email, req.Password)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, model.ErrInvalidCredentials):
			sendErrorResponse(w, http.StatusUnauthorized, "неверный email или пароль")
		default:
			sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		}
		return
	}

	h.sendRefreshCookie(w, tokens.RefreshToken)

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(requestresponse.AccessTokenResponse{AccessToken: tokens.AccessToken})
}

// RefreshToken godoc
// @Summary Обновление пары токенов
// @Description Обменивает refresh токен из cookie на новую пару. Любой отказ — битый,
// @Description просроченный, чужой или уже ротированный токен — возвращает 200 с пустым
// @Description accesstoken, решение «вошел ли я» остается за клиентом
// @Tags Authentication
// @Produce json
// @Success 200 {object} requestresponse.AccessTokenResponse "Новый access токен либо пустая строка"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/refresh [post]
func (h *AuthenticationHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	var presented string
	if cookie, err := r.Cookie(RefreshCookieName); err == nil {
		presented = cookie.Value
	}

	tokens, err := h.AuthenticationService.Refresh(ctx, presented)
	if err != nil {
		if errors.Is(err, model.ErrTokenRejected) {
			w.WriteHeader(200)
			json.NewEncoder(w).Encode(requestresponse.AccessTokenResponse{AccessToken: ""})
			return
		}
		// отказ хранилища — это ошибка сервера, а не отклоненный токен
		log.Println(err)
		sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	h.sendRefreshCookie(w, tokens.RefreshToken)

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(requestresponse.AccessTokenResponse{AccessToken: tokens.AccessToken})
}

// Logout godoc
// @Summary Завершение сессии
// @Description Удаляет refresh cookie и сбрасывает активный refresh токен на сервере
// @Tags Authentication
// @Produce json
// @Success 200 {object} requestresponse.MessageResponse "Выход выполнен"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/logout [post]
func (h *AuthenticationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	var presented string
	if cookie, err := r.Cookie(RefreshCookieName); err == nil {
		presented = cookie.Value
	}

	if err := h.AuthenticationService.Logout(ctx, presented); err != nil {
		log.Println(err)
		sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	h.clearRefreshCookie(w)

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(requestresponse.MessageResponse{Message: "выход выполнен"})
}

// sendRefreshCookie устанавливает refresh-токен в HttpOnly cookie,
// ограниченную путем endpoint'а обновления
func (h *AuthenticationHandler) sendRefreshCookie(w http.ResponseWriter, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    refreshToken,
		Path:     RefreshCookiePath,
		HttpOnly: true,
		Secure:   h.cookieConfig.Secure,
		SameSite: parseSameSite(h.cookieConfig.SameSite),
	})
}

func (h *AuthenticationHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     RefreshCookiePath,
		HttpOnly: true,
		Secure:   h.cookieConfig.Secure,
		SameSite: parseSameSite(h.cookieConfig.SameSite),
		MaxAge:   -1,
	})
}

func parseSameSite(mode string) http.SameSite {
	switch mode {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func sendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(requestresponse.ErrorResponse{Error: message})
}
