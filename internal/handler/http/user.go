package http

import (
	"net/http"

	"github.com/niosa-ap/attendance-backend-go/internal/domain/user"
	"github.com/niosa-ap/attendance-backend-go/internal/handler/http/response"
)

type UserHandler interface {
	Me(w http.ResponseWriter, r *http.Request)
}

type userHandlerImpl struct {
	userService user.UserService
}

func NewUserHandler(userService user.UserService) UserHandler {
	return &userHandlerImpl{
		userService: userService,
	}
}

// Me implements UserHandler.
func (h *userHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	result, err := h.userService.Me(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
