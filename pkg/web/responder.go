package web

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/pkg/errors"

	"passgate/pkg/log"
	"passgate/pkg/response"
)

type webError struct {
	Code    int         `json:"code,omitempty"`
	Message interface{} `json:"message,omitempty"`
}

type webErrorResponse struct {
	Error *webError `json:"error,omitempty"`
}

type resultResponse struct {
	Result interface{} `json:"result"`
}

// RenderError renders err in the JSON error envelope. A *response.Error cause
// sets both the code and the HTTP status; anything else is a 400.
func RenderError(w http.ResponseWriter, r *http.Request, err error) {
	log.AddFields(r.Context(), "error", err.Error())

	webErr := &webError{Message: err.Error()}
	status := http.StatusBadRequest

	respErr, ok := errors.Cause(err).(*response.Error)
	if ok {
		webErr.Code = respErr.Code
		webErr.Message = respErr.Message
		if http.StatusText(respErr.Code) != "" {
			status = respErr.Code
		}
		if respErr.Internal != nil {
			log.AddFields(r.Context(), "internal", respErr.Internal.Error())
		}
	}

	render.Status(r, status)
	render.JSON(w, r, &webErrorResponse{Error: webErr})
}

func RenderResult(w http.ResponseWriter, r *http.Request, result interface{}) {
	render.JSON(w, r, &resultResponse{Result: result})
}
