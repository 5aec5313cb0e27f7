package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/temankemah/temankemah-backend/api/responses"
	"github.com/temankemah/temankemah-backend/api/validators"
	"github.com/temankemah/temankemah-backend/internal/activities"
	"github.com/temankemah/temankemah-backend/pkg/logger"
)

func activityCreateRequest(r *http.Request) (activities.CreateActivityRequest, func(), error) {
	var req activities.CreateActivityRequest

	date, err := formTime(r, "date")
	if err != nil {
		return req, nil, err
	}
	regionID, err := formUUIDPtr(r, "region_id")
	if err != nil {
		return req, nil, err
	}
	categoryID, err := formUUIDPtr(r, "category_id")
	if err != nil {
		return req, nil, err
	}

	req = activities.CreateActivityRequest{
		Title:       formString(r, "title"),
		Description: formString(r, "description"),
		Date:        date,
		Location:    formString(r, "location"),
		RegionID:    regionID,
		CategoryID:  categoryID,
	}

	coverName, coverFile, err := formFile(r, "cover")
	if err != nil {
		return req, nil, err
	}
	if coverFile != nil {
		req.Cover = &activities.Upload{Filename: coverName, Contents: coverFile}
	}

	names, files, err := formFiles(r, "additional_images")
	if err != nil {
		if coverFile != nil {
			coverFile.Close()
		}
		return req, nil, err
	}
	for i := range files {
		req.AdditionalImages = append(req.AdditionalImages, activities.Upload{
			Filename: names[i],
			Contents: files[i],
		})
	}

	cleanup := func() {
		if coverFile != nil {
			coverFile.Close()
		}
		closeAll(files)
	}
	if err := validators.ValidateStruct(req); err != nil {
		cleanup()
		return req, nil, err
	}
	return req, cleanup, nil
}

// ActivitiesCreate accepts a multipart form with the activity fields plus
// optional cover and additional_images files.
func ActivitiesCreate(svc activities.Service, logg *logger.Logger, maxUploadMB int) http.HandlerFunc {
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

		req, cleanup, err := activityCreateRequest(r)
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

func ActivitiesGet(svc activities.Service, logg *logger.Logger) http.HandlerFunc {
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

func ActivitiesList(svc activities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		regionID, err := validators.ParseQueryUUID(r, "region_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryID, err := validators.ParseQueryUUID(r, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := validators.ParseQueryUUID(r, "user_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), activities.ListParams{
			RegionID:   regionID,
			CategoryID: categoryID,
			UserID:     userID,
			Limit:      limit,
			Cursor:     r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func activityUpdateRequest(r *http.Request) (activities.UpdateActivityRequest, func(), error) {
	var req activities.UpdateActivityRequest

	date, err := formTimePtr(r, "date")
	if err != nil {
		return req, nil, err
	}
	regionID, err := formUUIDPtr(r, "region_id")
	if err != nil {
		return req, nil, err
	}
	categoryID, err := formUUIDPtr(r, "category_id")
	if err != nil {
		return req, nil, err
	}

	req = activities.UpdateActivityRequest{
		Title:       formStringPtr(r, "title"),
		Description: formStringPtr(r, "description"),
		Date:        date,
		Location:    formStringPtr(r, "location"),
		RegionID:    regionID,
		CategoryID:  categoryID,
	}
	if kept, ok := r.MultipartForm.Value["kept_image_urls"]; ok {
		req.KeptImageURLs = kept
	}

	coverName, coverFile, err := formFile(r, "cover")
	if err != nil {
		return req, nil, err
	}
	if coverFile != nil {
		req.Cover = &activities.Upload{Filename: coverName, Contents: coverFile}
	}

	names, files, err := formFiles(r, "additional_images")
	if err != nil {
		if coverFile != nil {
			coverFile.Close()
		}
		return req, nil, err
	}
	for i := range files {
		req.AdditionalImages = append(req.AdditionalImages, activities.Upload{
			Filename: names[i],
			Contents: files[i],
		})
	}

	cleanup := func() {
		if coverFile != nil {
			coverFile.Close()
		}
		closeAll(files)
	}
	if err := validators.ValidateStruct(req); err != nil {
		cleanup()
		return req, nil, err
	}
	return req, cleanup, nil
}

func ActivitiesUpdate(svc activities.Service, logg *logger.Logger, maxUploadMB int) http.HandlerFunc {
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

		req, cleanup, err := activityUpdateRequest(r)
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

func ActivitiesDelete(svc activities.Service, logg *logger.Logger) http.HandlerFunc {
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
