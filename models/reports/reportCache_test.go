package reports

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jxmls/pano-daily-checks-sub000/config"
	"github.com/jxmls/pano-daily-checks-sub000/utils"
	"github.com/stretchr/testify/assert"
)

func TestLogSlowReport_UsesStructuredLogger(t *testing.T) {
	logger := config.GetLogger()
	var buf bytes.Buffer
	prev := logger.Out
	logger.SetOutput(&buf)
	defer logger.SetOutput(prev)

	ctx := utils.SetUsernameInContext(context.Background(), "jane")
	logSlowReport(ctx, "daily_compliance", time.Now().Add(-2*time.Second), nil)

	out := buf.String()
	assert.Contains(t, out, "slow report")
	assert.Contains(t, out, `"report":"daily_compliance"`)
	assert.Contains(t, out, `"username":"jane"`)
}

func TestLogSlowReport_FastPassStaysQuiet(t *testing.T) {
	logger := config.GetLogger()
	var buf bytes.Buffer
	prev := logger.Out
	logger.SetOutput(&buf)
	defer logger.SetOutput(prev)

	logSlowReport(context.Background(), "daily_compliance", time.Now(), nil)

	assert.Empty(t, buf.String())
}
