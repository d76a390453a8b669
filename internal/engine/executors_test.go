package engine

import (
	"context"
	"testing"

	"hera-assistant/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportingExecutor_CashFlowServedInline(t *testing.T) {
	scheduler := &mockScheduler{}
	exec := NewReportingExecutor(&mockReports{}, scheduler)

	result, err := exec.Execute(context.Background(), model.BusinessAction{
		Type:       model.ActionGenerateReport,
		Parameters: map[string]interface{}{"reportType": "cash_flow_report"},
	}, model.BusinessContext{OrganizationID: "org-1"})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, float64(45000), result.Data["currentCash"])
	assert.Equal(t, float64(46250), result.Data["forecastNext30Days"])
	assert.Empty(t, scheduler.queued, "cash flow reports must not reach the job queue")
}

func TestReportingExecutor_OtherReportsEnqueued(t *testing.T) {
	scheduler := &mockScheduler{}
	exec := NewReportingExecutor(&mockReports{}, scheduler)

	result, err := exec.Execute(context.Background(), model.BusinessAction{
		Type:       model.ActionGenerateReport,
		Parameters: map[string]interface{}{"reportType": "sales_report"},
	}, model.BusinessContext{OrganizationID: "org-1"})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "queued", result.Data["status"])
	assert.Equal(t, []string{"sales_report"}, scheduler.queued)
}
