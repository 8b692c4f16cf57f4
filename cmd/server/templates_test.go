package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/iftar/internal/model"
)

func TestLoadTemplates(t *testing.T) {
	tmpl, err := LoadTemplates("../../integrations/templates")
	require.NoError(t, err)

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "schedule.html", model.SchedulePageData{
		Date:  "2025-03-10",
		Iftar: "6:30 PM",
		Doses: []model.DoseRow{{Time: "6:30", Period: "PM", Name: "Metformin", Status: "TAKEN"}},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `class="status-taken"`)
	assert.Contains(t, buf.String(), "Metformin")
}

func TestLoadTemplates_MissingDir(t *testing.T) {
	_, err := LoadTemplates(t.TempDir())
	assert.Error(t, err)
}
