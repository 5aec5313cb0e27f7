package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/temankemah/temankemah-backend/api/responses"
	"github.com/temankemah/temankemah-backend/api/validators"
	"github.com/temankemah/temankemah-backend/internal/campareas"
	"github.com/temankemah/temankemah-backend/pkg/logger"
)

func campAreaCreateRequest(r *http.Request) (campareas.CreateCampAreaRequest, func(), error) {
	var req campareas.CreateCampAreaRequest

	price, err := formDecimal(r, "price")
	if err != nil {
		return req, nil, err
	}

	req = campareas.CreateCampAreaRequest{
		Name:        formString(r, "name"),
		Location:    formString(r, "location"),
		Description: formString(r, "description"),
		Price:       price,
	}
	if facilities, ok := r.MultipartForm.Value["facilities"]; ok {
		req.Facilities = facilities
	}

	coverName, coverFile, err := formFile(r, "cover")
	if err != nil {
		return req, nil, err
	}
	if coverFile != nil {
		req.Cover = &campareas.Upload{Filename: coverName, Contents: coverFile}
	}

	names, files, err := formFiles(r, "additional_images")
	if err != nil {
		if coverFile != nil {
			coverFile.Close()
		}
		return req, nil, err
	}
	for i := range files {
		req.AdditionalImages = append(req.AdditionalImages, campareas.Upload{
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

func CampAreasCreate(svc campareas.Service, logg *logger.Logger, maxUploadMB int) http.HandlerFunc {
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

		req, cleanup, err := campAreaCreateRequest(r)
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

func CampAreasGet(svc campareas.Service, logg *logger.Logger) http.HandlerFunc {
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

func CampAreasList(svc campareas.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := validators.ParseQueryUUID(r, "user_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), campareas.ListParams{
			UserID: userID,
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func campAreaUpdateRequest(r *http.Request) (campareas.UpdateCampAreaRequest, func(), error) {
	var req campareas.UpdateCampAreaRequest

	price, err := formDecimalPtr(r, "price")
	if err != nil {
		return req, nil, err
	}

	req = campareas.UpdateCampAreaRequest{
		Name:        formStringPtr(r, "name"),
		Location:    formStringPtr(r, "location"),
		Description: formStringPtr(r, "description"),
		Price:       price,
	}
	if facilities, ok := r.MultipartForm.Value["facilities"]; ok {
		req.Facilities = facilities
	}
	if kept, ok := r.MultipartForm.Value["kept_image_urls"]; ok {
		req.KeptImageURLs = kept
	}

	coverName, coverFile, err := formFile(r, "cover")
	if err != nil {
		return req, nil, err
	}
	if coverFile != nil {
		req.Cover = &campareas.Upload{Filename: coverName, Contents: coverFile}
	}

	names, files, err := formFiles(r, "additional_images")
	if err != nil {
		if coverFile != nil {
			coverFile.Close()
		}
		return req, nil, err
	}
	for i := range files {
		req.AdditionalImages = append(req.AdditionalImages, campareas.Upload{
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

func CampAreasUpdate(svc campareas.Service, logg *logger.Logger, maxUploadMB int) http.HandlerFunc {
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

		req, cleanup, err := campAreaUpdateRequest(r)
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

func CampAreasDelete(svc campareas.Service, logg *logger.Logger) http.HandlerFunc {
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
