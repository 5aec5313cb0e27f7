package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/temankemah/temankemah-backend/api/responses"
	"github.com/temankemah/temankemah-backend/api/validators"
	"github.com/temankemah/temankemah-backend/internal/events"
	"github.com/temankemah/temankemah-backend/pkg/logger"
)

func eventCreateRequest(r *http.Request) (events.CreateEventRequest, func(), error) {
	var req events.CreateEventRequest

	startTime, err := formTime(r, "start_time")
	if err != nil {
		return req, nil, err
	}
	endTime, err := formTime(r, "end_time")
	if err != nil {
		return req, nil, err
	}
	price, err := formDecimal(r, "price")
	if err != nil {
		return req, nil, err
	}
	maxParticipants, err := formIntPtr(r, "max_participants")
	if err != nil {
		return req, nil, err
	}

	req = events.CreateEventRequest{
		Title:           formString(r, "title"),
		Description:     formString(r, "description"),
		Location:        formString(r, "location"),
		StartTime:       startTime,
		EndTime:         endTime,
		Price:           price,
		MaxParticipants: maxParticipants,
	}

	coverName, coverFile, err := formFile(r, "cover")
	if err != nil {
		return req, nil, err
	}
	if coverFile != nil {
		req.Cover = &events.Upload{Filename: coverName, Contents: coverFile}
	}

	cleanup := func() {
		if coverFile != nil {
			coverFile.Close()
		}
	}
	if err := validators.ValidateStruct(req); err != nil {
		cleanup()
		return req, nil, err
	}
	return req, cleanup, nil
}

func EventsCreate(svc events.Service, logg *logger.Logger, maxUploadMB int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := parseMultipart(r, maxUploadMB); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		req, cleanup, err := eventCreateRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer cleanup()

		dto, err := svc.Create(r.Context(), userID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func EventsGet(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func EventsList(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		organizerID, err := validators.ParseQueryUUID(r, "organizer_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		upcoming, _ := strconv.ParseBool(r.URL.Query().Get("upcoming"))

		page, err := svc.List(r.Context(), events.ListParams{
			OrganizerID: organizerID,
			Upcoming:    upcoming,
			Limit:       limit,
			Cursor:      r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func eventUpdateRequest(r *http.Request) (events.UpdateEventRequest, func(), error) {
	var req events.UpdateEventRequest

	startTime, err := formTimePtr(r, "start_time")
	if err != nil {
		return req, nil, err
	}
	endTime, err := formTimePtr(r, "end_time")
	if err != nil {
		return req, nil, err
	}
	price, err := formDecimalPtr(r, "price")
	if err != nil {
		return req, nil, err
	}
	maxParticipants, err := formIntPtr(r, "max_participants")
	if err != nil {
		return req, nil, err
	}

	req = events.UpdateEventRequest{
		Title:           formStringPtr(r, "title"),
		Description:     formStringPtr(r, "description"),
		Location:        formStringPtr(r, "location"),
		StartTime:       startTime,
		EndTime:         endTime,
		Price:           price,
		MaxParticipants: maxParticipants,
	}

	coverName, coverFile, err := formFile(r, "cover")
	if err != nil {
		return req, nil, err
	}
	if coverFile != nil {
		req.Cover = &events.Upload{Filename: coverName, Contents: coverFile}
	}

	cleanup := func() {
		if coverFile != nil {
			coverFile.Close()
		}
	}
	if err := validators.ValidateStruct(req); err != nil {
		cleanup()
		return req, nil, err
	}
	return req, cleanup, nil
}

func EventsUpdate(svc events.Service, logg *logger.Logger, maxUploadMB int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := parseMultipart(r, maxUploadMB); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		req, cleanup, err := eventUpdateRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer cleanup()

		dto, err := svc.Update(r.Context(), userID, id, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func EventsDelete(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), userID, isAdmin(r), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"deleted": id})
	}
}

func EventsJoin(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		eventID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req events.JoinEventRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.Join(r.Context(), userID, eventID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func EventsLeave(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		eventID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Leave(r.Context(), userID, eventID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"left": eventID})
	}
}

func EventsParticipants(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		participants, err := svc.Participants(r.Context(), eventID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, participants)
	}
}
