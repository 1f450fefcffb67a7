package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pitchside/fixture-engine/brackets"
	"github.com/pitchside/fixture-engine/repositories"
	"github.com/pitchside/fixture-engine/scheduling"
	"github.com/pitchside/fixture-engine/services"
)

type jsonResponse map[string]interface{}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, status int, message interface{}) {
	if err := writeJSON(w, status, jsonResponse{"error": message}); err != nil {
		slog.Error("failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, err error) {
	slog.Error("internal server error", slog.Any("error", err))
	errorResponse(w, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

func badRequestResponse(w http.ResponseWriter, err error) {
	errorResponse(w, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter) {
	errorResponse(w, http.StatusNotFound, "the requested resource could not be found")
}

// mapServiceErrorToHTTP translates the service error taxonomy. Conflict
// errors keep their structured detail: the response body always carries the
// offending spans so an operator can resolve them by hand.
func mapServiceErrorToHTTP(w http.ResponseWriter, err error) {
	var scheduleConflict *services.ScheduleConflictError
	var conflict *scheduling.ConflictError

	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrFixtureNotFound),
		errors.Is(err, services.ErrMatchNotFound),
		errors.Is(err, repositories.ErrParticipantNotFound):
		notFoundResponse(w)

	case errors.As(err, &scheduleConflict):
		_ = writeJSON(w, http.StatusConflict, jsonResponse{
			"error":     scheduleConflict.Error(),
			"valid":     false,
			"conflicts": scheduleConflict.Report.Conflicts,
		})

	case errors.As(err, &conflict):
		_ = writeJSON(w, http.StatusConflict, jsonResponse{
			"error":     conflict.Error(),
			"conflicts": conflict.Conflicts,
		})

	// State machine violations
	case errors.Is(err, services.ErrFixtureNotEditable),
		errors.Is(err, services.ErrFixtureInvalidTransition),
		errors.Is(err, services.ErrMatchAlreadyCompleted),
		errors.Is(err, services.ErrMatchCancelled),
		errors.Is(err, services.ErrKnockoutDraw),
		errors.Is(err, scheduling.ErrMatchCompleted),
		errors.Is(err, scheduling.ErrUnresolvedEntry):
		errorResponse(w, http.StatusUnprocessableEntity, err.Error())

	// Malformed caller input
	case errors.Is(err, services.ErrUnsupportedFixtureType),
		errors.Is(err, services.ErrFixtureHasNoStartTime),
		errors.Is(err, services.ErrScheduleExceedsWindow),
		errors.Is(err, services.ErrResultScoresInvalid),
		errors.Is(err, brackets.ErrNotEnoughParticipants),
		errors.Is(err, brackets.ErrInvalidRounds),
		errors.Is(err, scheduling.ErrInvalidInterval),
		errors.Is(err, scheduling.ErrNonPositiveDuration):
		badRequestResponse(w, err)

	default:
		serverErrorResponse(w, err)
	}
}
