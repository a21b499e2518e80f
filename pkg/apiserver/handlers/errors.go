// Copyright 2024 Antrea Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"k8s.io/klog/v2"

	"antrea.io/flowmanager/pkg/flow"
	"antrea.io/flowmanager/pkg/manager"
)

// HandlerError is for errors returned by the API handler funcs.
type HandlerError struct {
	error
	// The HTTP status code that will be returned to the API client.
	HTTPStatusCode int
}

func NewHandlerError(err error, statusCode int) *HandlerError {
	return &HandlerError{err, statusCode}
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FromError maps errors returned by the flow manager to status codes.
func FromError(err error) *HandlerError {
	var handlerErr *HandlerError
	switch {
	case errors.As(err, &handlerErr):
		return handlerErr
	case errors.Is(err, manager.ErrUnknownName):
		return NewHandlerError(err, http.StatusNotFound)
	case errors.Is(err, flow.ErrMalformedDescriptor):
		return NewHandlerError(err, http.StatusUnprocessableEntity)
	default:
		return NewHandlerError(err, http.StatusInternalServerError)
	}
}

// WriteError writes err as a JSON ErrorResponse.
func WriteError(w http.ResponseWriter, err error) {
	handlerErr := FromError(err)
	WriteJSON(w, handlerErr.HTTPStatusCode, ErrorResponse{Error: handlerErr.Error()})
}

// WriteJSON writes v as the JSON body of a response with the given status
// code.
func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		klog.ErrorS(err, "Error when encoding response to json")
	}
}
