package request

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/pelada/internal/api/apierr"
	"github.com/mcoot/pelada/internal/validation"
)

var validate = validation.New()

// Decode reads a JSON body into dst and checks its validate tags.
// Failures are returned as invalid request API errors.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierr.NewInvalidRequestError("invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return apierr.NewInvalidRequestError(validation.Describe(err))
	}
	return nil
}
