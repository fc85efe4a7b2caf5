package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"jwt-auth-server/internal/model"
	"jwt-auth-server/internal/model/requestresponse"
	"jwt-auth-server/internal/ports"
	"jwt-auth-server/internal/security"
)

type UserHandler struct {
	ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService}
}

// GetProtectedData godoc
// @Summary Защищенные данные
// @Description Возвращает данные, доступные только аутентифицированному пользователю
// @Tags Users
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ProtectedDataResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/protected [post]
func (h *UserHandler) GetProtectedData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if _, err := security.GetClaimsFromContext(r.Context()); err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "не авторизован")
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(requestresponse.ProtectedDataResponse{Data: "секретные данные"})
}

// GetCurrentUser godoc
// @Summary Профиль текущего пользователя
// @Description Возвращает UUID и email пользователя, которому принадлежит access токен
// @Tags Users
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.CurrentUserResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/auth/me [get]
func (h *UserHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "не авторизован")
		return
	}

	user, err := h.UserService.GetCurrentUser(ctx, claims.UserUUID)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			sendErrorResponse(w, http.StatusNotFound, "пользователь не найден")
		default:
			sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		}
		return
	}

	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	resp := requestresponse.CurrentUserResponse{}
	resp.Response.UserUUID = user.UUID
	resp.Response.Email = user.Email

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// GetCurrentUserHead godoc
// @Summary Профиль текущего пользователя
// @Description Возвращает UUID и email пользователя, которому принадлежит access токен
// @Tags Users
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.CurrentUserResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/auth/me [head]
func (h *UserHandler) GetCurrentUserHead(w http.ResponseWriter, r *http.Request) {
	h.GetCurrentUser(w, r)
}
