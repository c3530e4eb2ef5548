package bff

import (
	"net/http"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/errs"
	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/httpserver"
)

// RejectMultipleFilters writes the standard 400 when a request supplies
// more than one of a set of mutually exclusive query filters, and
// reports whether it did so. present holds the query values for each
// filter parameter in the order the caller wants them checked; an empty
// string means the filter was omitted.
func RejectMultipleFilters(w http.ResponseWriter, present ...string) bool {
	count := 0
	for _, v := range present {
		if v != "" {
			count++
		}
	}
	if count > 1 {
		httpserver.RespondError(w, http.StatusBadRequest, string(errs.ValidationRejected), "Only one filter allowed at a time")
		return true
	}
	return false
}
