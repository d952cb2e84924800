package httphandlers

import (
	"domainkeeper/internal/auth"
	"domainkeeper/internal/service"
	"domainkeeper/internal/types"
	"encoding/json"
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const settingsValue = "settings"

type (
	ApiHandler struct {
		domains  service.DomainService
		validate *validator.Validate
	}
)

func NewApiHandler(domains service.DomainService) *ApiHandler {
	return &ApiHandler{domains: domains, validate: newValidator()}
}

func (handler *ApiHandler) ListDomains(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r.URL.Query())
	if err != nil {
		handleError(w, r, err)
		return
	}

	actor := actorFrom(r)
	if format := r.URL.Query().Get("export"); format != "" {
		file, err := handler.domains.Export(r.Context(), actor, params, format)
		if err != nil {
			handleError(w, r, err)
			return
		}
		download(w, &file)
		return
	}

	page, err := handler.domains.List(r.Context(), actor, params)
	if err != nil {
		handleError(w, r, err)
		return
	}

	okWithMeta(w, "success", page.Items, pageMeta(page))
}

// GetDomain serves both a single domain and, for the reserved value "settings",
// the lookups needed by the domain form
func (handler *ApiHandler) GetDomain(w http.ResponseWriter, r *http.Request) {
	value := chi.URLParam(r, "id")
	if value == settingsValue {
		settings, err := handler.domains.Settings(r.Context())
		if err != nil {
			handleError(w, r, err)
			return
		}
		ok(w, "success", settings)
		return
	}

	id, err := parseID(value)
	if err != nil {
		notFound(w, err)
		return
	}

	domain, err := handler.domains.Get(r.Context(), actorFrom(r), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	ok(w, "success", domain)
}

func (handler *ApiHandler) CreateDomain(w http.ResponseWriter, r *http.Request) {
	var params types.CreateDomainParams
	if !handler.decode(w, r, &params) {
		return
	}

	if _, err := handler.domains.Create(r.Context(), actorFrom(r), params); err != nil {
		handleError(w, r, err)
		return
	}

	noContent(w)
}

func (handler *ApiHandler) UpdateDomain(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		notFound(w, err)
		return
	}

	var params types.UpdateDomainParams
	if !handler.decode(w, r, &params) {
		return
	}

	result, err := handler.domains.Update(r.Context(), actorFrom(r), id, params)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var meta interface{}
	if result.StatusRejected != "" {
		meta = map[string]string{"status_rejected": result.StatusRejected}
	}
	okWithMeta(w, "domain updated", result.Domain, meta)
}

func (handler *ApiHandler) DestroyDomain(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		notFound(w, err)
		return
	}

	if err := handler.domains.Destroy(r.Context(), actorFrom(r), id); err != nil {
		handleError(w, r, err)
		return
	}

	noContent(w)
}

func (handler *ApiHandler) BuyDomains(w http.ResponseWriter, r *http.Request) {
	var params types.BuyDomainsParams
	if !handler.decode(w, r, &params) {
		return
	}

	if err := handler.domains.BuyDomains(r.Context(), actorFrom(r), params); err != nil {
		handleError(w, r, err)
		return
	}

	accepted(w, "domain generation queued")
}

func (handler *ApiHandler) DownloadWhois(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		notFound(w, err)
		return
	}

	file, err := handler.domains.Whois(r.Context(), actorFrom(r), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	download(w, file)
}

// decode reads a JSON body into v and validates it, answering the request on failure
func (handler *ApiHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, errors.Wrap(err, "invalid request body"))
		return false
	}

	if err := handler.validate.Struct(v); err != nil {
		handleError(w, r, validationError(err))
		return false
	}
	return true
}

func actorFrom(r *http.Request) types.Actor {
	actor, _ := auth.ActorFromContext(r.Context())
	return actor
}

func parseID(value string) (uint, error) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid domain id: %s", value)
	}
	return uint(id), nil
}

// listParams reads filter[...], sort, page and per_page
func listParams(q url.Values) (types.ListParams, error) {
	params := types.ListParams{
		Filter: types.DomainFilter{
			Type:   q.Get("filter[type]"),
			Search: q.Get("filter[search]"),
		},
		Sort: q.Get("sort"),
	}
	verr := &service.ValidationError{}

	params.Filter.VerticalID = optionalUint(q, "filter[vertical_id]", verr)
	params.Filter.ID = optionalUint(q, "filter[id]", verr)

	if v := q.Get("filter[status]"); v != "" {
		n, err := strconv.Atoi(v)
		status, perr := types.ParseDomainStatus(n)
		if err != nil || perr != nil {
			verr.Add("filter.status", "The selected status is invalid.")
		} else {
			params.Filter.Status = &status
		}
	}

	if v := q.Get("filter[countries]"); v != "" {
		for _, part := range strings.Split(v, ",") {
			id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
			if err != nil {
				verr.Add("filter.countries", "The countries must be a list of ids.")
				break
			}
			params.Filter.Countries = append(params.Filter.Countries, uint(id))
		}
	}

	params.Page = optionalInt(q, "page", verr)
	params.PerPage = optionalInt(q, "per_page", verr)

	if len(verr.Fields) > 0 {
		return params, verr
	}
	return params, nil
}

func optionalUint(q url.Values, key string, verr *service.ValidationError) *uint {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		verr.Add(fieldName(key), fmt.Sprintf("The %s must be an integer.", fieldName(key)))
		return nil
	}
	id := uint(n)
	return &id
}

func optionalInt(q url.Values, key string, verr *service.ValidationError) int {
	v := q.Get(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		verr.Add(key, fmt.Sprintf("The %s must be a positive integer.", key))
		return 0
	}
	return n
}

// fieldName turns filter[id] into filter.id
func fieldName(key string) string {
	return strings.TrimSuffix(strings.Replace(key, "[", ".", 1), "]")
}
