package utils

import (
	"encoding/json"
	"net/http"

	"CREATESHARE_BACK-END/internal/dto"
)

// WriteJSONResponse writes a JSON response to the HTTP response writer
func WriteJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a {"status":"success","data":...} envelope
func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	WriteJSONResponse(w, status, dto.SuccessResponse{Status: "success", Data: data})
}

// WriteList writes a success envelope carrying a result count
func WriteList(w http.ResponseWriter, results int, data interface{}) {
	WriteJSONResponse(w, http.StatusOK, dto.SuccessResponse{Status: "success", Results: &results, Data: data})
}

// WriteErrorResponse writes an error envelope. 4xx responses are "fail",
// 5xx responses are "error".
func WriteErrorResponse(w http.ResponseWriter, status int, title, message string) {
	state := "fail"
	if status >= http.StatusInternalServerError {
		state = "error"
	}
	WriteJSONResponse(w, status, dto.ErrorResponse{Status: state, Error: title, Message: message})
}
