// Package result contains the uniform HTTP-response/logging type used by
// every introspection-server endpoint: build one with OK/Created/BadRequest/
// etc., then call WriteResponse and Log once the handler is done.
package result

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
)

type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// OK returns a Result containing an HTTP-200 along with a more detailed
// message (defaulting to a generic one) that is not displayed to the user.
func OK(respObj interface{}, internalMsg ...interface{}) Result {
	return Response(http.StatusOK, respObj, fmtMsg("OK", internalMsg))
}

// Created returns a Result containing an HTTP-201.
func Created(respObj interface{}, internalMsg ...interface{}) Result {
	return Response(http.StatusCreated, respObj, fmtMsg("created", internalMsg))
}

// NoContent returns a Result containing an HTTP-204.
func NoContent(internalMsg ...interface{}) Result {
	return Response(http.StatusNoContent, nil, fmtMsg("no content", internalMsg))
}

// Conflict returns a Result containing an HTTP-409.
func Conflict(userMsg string, internalMsg ...interface{}) Result {
	return Err(http.StatusConflict, userMsg, fmtMsg("conflict", internalMsg))
}

// BadRequest returns a Result containing an HTTP-400.
func BadRequest(userMsg string, internalMsg ...interface{}) Result {
	return Err(http.StatusBadRequest, userMsg, fmtMsg("bad request", internalMsg))
}

// MethodNotAllowed returns a Result containing an HTTP-405.
func MethodNotAllowed(req *http.Request, internalMsg ...interface{}) Result {
	userMsg := fmt.Sprintf("Method %s is not allowed for %s", req.Method, req.URL.Path)
	return Err(http.StatusMethodNotAllowed, userMsg, fmtMsg("method not allowed", internalMsg))
}

// NotFound returns a Result containing an HTTP-404.
func NotFound(internalMsg ...interface{}) Result {
	return Err(http.StatusNotFound, "The requested resource was not found", fmtMsg("not found", internalMsg))
}

// Forbidden returns a Result containing an HTTP-403.
func Forbidden(internalMsg ...interface{}) Result {
	return Err(http.StatusForbidden, "You don't have permission to do that", fmtMsg("forbidden", internalMsg))
}

// Unauthorized returns a Result containing an HTTP-401 along with the
// WWW-Authenticate header.
func Unauthorized(userMsg string, internalMsg ...interface{}) Result {
	if userMsg == "" {
		userMsg = "You are not authorized to do that"
	}
	return Err(http.StatusUnauthorized, userMsg, fmtMsg("unauthorized", internalMsg)).
		WithHeader("WWW-Authenticate", `Bearer realm="mcrl2server"`)
}

// InternalServerError returns a Result containing an HTTP-500.
func InternalServerError(internalMsg ...interface{}) Result {
	return Err(http.StatusInternalServerError, "An internal server error occurred", fmtMsg("internal server error", internalMsg))
}

func fmtMsg(def string, args []interface{}) string {
	if len(args) == 0 {
		return def
	}
	format, ok := args[0].(string)
	if !ok {
		return def
	}
	return fmt.Sprintf(format, args[1:]...)
}

// Response builds a JSON Result carrying respObj as its body. If status is
// http.StatusNoContent, respObj is ignored.
func Response(status int, respObj interface{}, internalMsg string) Result {
	return Result{IsJSON: true, Status: status, InternalMsg: internalMsg, resp: respObj}
}

// Err builds a JSON error Result whose body is an ErrorResponse carrying
// userMsg.
func Err(status int, userMsg, internalMsg string) Result {
	return Result{
		IsJSON:      true,
		IsErr:       true,
		Status:      status,
		InternalMsg: internalMsg,
		resp:        ErrorResponse{Error: userMsg, Status: status},
	}
}

// TextErr builds a plain-text error Result, for failures too low-level to
// trust JSON-encoding (e.g. a recovered panic).
func TextErr(status int, userMsg, internalMsg string) Result {
	return Result{IsJSON: false, IsErr: true, Status: status, InternalMsg: internalMsg, resp: userMsg}
}

type Result struct {
	Status      int
	IsErr       bool
	IsJSON      bool
	InternalMsg string

	resp interface{}
	hdrs [][2]string

	respJSONBytes []byte
}

func (r Result) WithHeader(name, val string) Result {
	cp := r
	cp.hdrs = append(append([][2]string(nil), r.hdrs...), [2]string{name, val})
	return cp
}

// PrepareMarshaledResponse marshals the response body ahead of time so that
// WriteResponse cannot fail partway through writing headers.
func (r *Result) PrepareMarshaledResponse() error {
	if r.respJSONBytes != nil {
		return nil
	}
	if r.IsJSON && r.Status != http.StatusNoContent {
		var err error
		r.respJSONBytes, err = json.Marshal(r.resp)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteResponse writes r to w. It calls PrepareMarshaledResponse itself if
// that has not already been done, and panics if marshaling fails at this
// point (callers that cannot tolerate a panic should call
// PrepareMarshaledResponse up front and handle its error).
func (r Result) WriteResponse(w http.ResponseWriter) {
	if r.Status == 0 {
		panic("result not populated")
	}
	if err := r.PrepareMarshaledResponse(); err != nil {
		panic(fmt.Sprintf("could not marshal response: %s", err.Error()))
	}

	var respBytes []byte
	if r.IsJSON {
		w.Header().Set("Content-Type", "application/json")
		respBytes = r.respJSONBytes
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if r.Status != http.StatusNoContent {
			respBytes = []byte(fmt.Sprintf("%v", r.resp))
		}
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")

	for _, h := range r.hdrs {
		w.Header().Set(h[0], h[1])
	}

	w.WriteHeader(r.Status)
	if r.Status != http.StatusNoContent {
		w.Write(respBytes)
	}
}

// Log records the result against req at an appropriate level.
func (r Result) Log(req *http.Request) {
	level := "INFO"
	if r.IsErr {
		level = "ERROR"
	}
	remoteIP := strings.SplitN(req.RemoteAddr, ":", 2)[0]
	log.Printf("%-5s %s %s %s: HTTP-%d %s", level, remoteIP, req.Method, req.URL.Path, r.Status, r.InternalMsg)
}
