package http

import (
	"net/http"
	"strconv"

	"scanrecon/internal/errs"
)

func queryUint(r *http.Request, name string) (uint64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errs.Validationf("query parameter %s must be a positive integer", name)
	}
	return v, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.Validationf("query parameter %s must be an integer", name)
	}
	return v, nil
}

// queryBoolPtr distinguishes absent from explicit true/false.
func queryBoolPtr(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, errs.Validationf("query parameter %s must be a boolean", name)
	}
	return &v, nil
}

func queryBool(r *http.Request, name string, fallback bool) (bool, error) {
	ptr, err := queryBoolPtr(r, name)
	if err != nil {
		return false, err
	}
	if ptr == nil {
		return fallback, nil
	}
	return *ptr, nil
}

func pathUint(raw string, name string) (uint64, error) {
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, errs.Validationf("path parameter %s must be a positive integer", name)
	}
	return v, nil
}
