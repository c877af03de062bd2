package models

import (
	"context"
	"testing"

	"github.com/jxmls/pano-daily-checks-sub000/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogout_ErrorsInsteadOfReportingOk(t *testing.T) {
	// No session in context: the caller must get an error, never (false, nil).
	ok, err := Logout(context.Background())
	assert.False(t, ok)
	require.Error(t, err)

	// Token present but no username: still an error, not a silent false.
	ctx := utils.SetTokenInContext(context.Background(), "some-token-id")
	ok, err = Logout(ctx)
	assert.False(t, ok)
	require.Error(t, err)
}
