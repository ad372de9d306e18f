package errors

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// WriteError serializes err as the standard error body. Non-AppError
// values become a generic internal error.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Detail:  appErr.Detail,
	})
}
