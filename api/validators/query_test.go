package validators

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	pkgerrors "github.com/farm2home/farm2home-backend/pkg/errors"
)

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest("GET", "/?page=3&limit=abc&big=9999", nil)

	page, err := ParseQueryInt(req, "page", 1, 1, 100)
	require.NoError(t, err)
	require.Equal(t, 3, page)

	missing, err := ParseQueryInt(req, "absent", 12, 1, 100)
	require.NoError(t, err)
	require.Equal(t, 12, missing)

	_, err = ParseQueryInt(req, "limit", 12, 1, 100)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = ParseQueryInt(req, "big", 12, 1, 100)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
