// internal/interfaces/cli/output.go
package cli

import (
	"errors"
	"io"
	"text/tabwriter"

	"github.com/nishantmakwanaa/clothing-store/internal/client/api"
	"github.com/nishantmakwanaa/clothing-store/internal/pkg/apperrors"
)

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

// Message turns an error into the single line shown to the user
func Message(err error) string {
	var (
		authErr       *apperrors.AuthenticationError
		validationErr *apperrors.ValidationError
		persistErr    *apperrors.PersistenceError
		netErr        *apperrors.NetworkError
		apiErr        *api.APIError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &authErr):
		return authErr.UserMessage()
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.Is(err, apperrors.ErrEmptyCart):
		return "Your cart is empty."
	case errors.Is(err, apperrors.ErrNotFound):
		return "Not found."
	case errors.As(err, &persistErr) && persistErr.Op == "read":
		return "Could not read your saved data: " + persistErr.Err.Error()
	case errors.As(err, &persistErr):
		return "Could not save your data locally: " + persistErr.Err.Error()
	case errors.As(err, &netErr):
		return "Could not reach the store. Check your connection and try again."
	case errors.As(err, &apiErr):
		return apiErr.Message
	default:
		return err.Error()
	}
}
