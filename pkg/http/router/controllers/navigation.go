package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	helper "github.com/sendero-labs/sendero/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

const (
	defaultPageSize       = 20
	maxPageSize           = 100
	defaultSuggestionSize = 20
)

type navigationAPI struct {
	navigationService NavigationService
	log               *zap.Logger
}

func New(navigationService NavigationService, log *zap.Logger) *navigationAPI {
	return &navigationAPI{
		navigationService: navigationService,
		log:               log,
	}
}

func (api *navigationAPI) Routes(group *helper.RouteGroup) {
	group.POST("/navigations/analyze", api.analyzeRoute)
	group.POST("/navigations/audit", api.auditRoute)
	group.GET("/incidents", api.activeIncidents)
	group.GET("/streets/suggestions", api.streetSuggestions)
	group.GET("/geocode", api.geocode)
	group.GET("/status", api.feedStatus)
}

func (api *navigationAPI) analyzeRoute(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request analyzeRouteRequest
		err     error
	)

	err = json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := r.Body.Close(); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}

	// named endpoints are resolved before validation so that a name-only
	// request carries real coordinates by the time the tags run
	if request.OriginName != "" {
		coord, _ := api.navigationService.ResolvePlace(r.Context(), request.OriginName)
		request.Origin.Lat, request.Origin.Lon = coord.Lat, coord.Lon
	}
	if request.DestinationName != "" {
		coord, _ := api.navigationService.ResolvePlace(r.Context(), request.DestinationName)
		request.Destination.Lat, request.Destination.Lon = coord.Lat, coord.Lon
	}

	validate := validator.New()
	if err := validate.Struct(request); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", vvString))
		return
	}

	result, err := api.navigationService.AnalyzeRoute(r.Context(),
		request.Origin.toCoordinate(), request.Destination.toCoordinate(),
		request.Urgency, request.Weather)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewAnalyzeRouteResponse(result)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *navigationAPI) auditRoute(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request auditRouteRequest
		err     error
	)

	err = json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := r.Body.Close(); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}

	validate := validator.New()
	if err := validate.Struct(request); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", vvString))
		return
	}

	report, err := api.navigationService.AuditRoute(r.Context(), request.toCoordinates(), request.Sensitivity)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": report}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *navigationAPI) activeIncidents(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	query := r.URL.Query()

	page := 1
	if raw := query.Get("page"); raw != "" {
		var err error
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			api.BadRequestResponse(w, r, errors.New("page must be a positive integer"))
			return
		}
	}

	pageSize := defaultPageSize
	if raw := query.Get("page_size"); raw != "" {
		var err error
		pageSize, err = strconv.Atoi(raw)
		if err != nil || pageSize < 1 {
			api.BadRequestResponse(w, r, errors.New("page_size must be a positive integer"))
			return
		}
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
	}

	incidents, total := api.navigationService.ActiveIncidents(r.Context(), page, pageSize)

	headers := make(http.Header)

	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": NewIncidentPageResponse(incidents, total, page, pageSize)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *navigationAPI) streetSuggestions(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	query := r.URL.Query()

	limit := defaultSuggestionSize
	if raw := query.Get("limit"); raw != "" {
		var err error
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			api.BadRequestResponse(w, r, errors.New("limit must be a positive integer"))
			return
		}
	}

	suggestions := api.navigationService.StreetSuggestions(query.Get("q"), limit)

	headers := make(http.Header)

	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": suggestionsResponse{Suggestions: suggestions}}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *navigationAPI) geocode(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	query := r.URL.Query().Get("q")
	if query == "" {
		api.BadRequestResponse(w, r, errors.New("q is required"))
		return
	}

	coord, fallback := api.navigationService.ResolvePlace(r.Context(), query)

	headers := make(http.Header)

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": geocodeResponse{
		Query:    query,
		Lat:      coord.Lat,
		Lon:      coord.Lon,
		Fallback: fallback,
	}}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *navigationAPI) feedStatus(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	snapshot := api.navigationService.FeedStatus(r.Context())
	vertices, edges, streets := api.navigationService.GraphSize()

	headers := make(http.Header)

	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": NewFeedStatusResponse(snapshot, vertices, edges, streets)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}
