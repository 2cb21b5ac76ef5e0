package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/symposic/agendaquery/core"
)

func TestTargetField(t *testing.T) {
	tests := []struct {
		query string
		want  core.Field
	}{
		{"what time is OA12.03", core.FieldTime},
		{"what room is the pembro session in", core.FieldLocation},
		{"which room is LBA4", core.FieldLocation},
		{"what day is the plenary", core.FieldDate},
		{"when is OA12.03", core.FieldDate},
		{"who is presenting LBA4", core.FieldSpeakers},
		{"who presents the osimertinib data", core.FieldSpeakers},
		{"which session covers t-dxd", core.FieldSession},
		{"where is the poster session", core.FieldLocation},

		// Filters, not lookups: field words without interrogative phrasing.
		{"morning session on ADCs", core.FieldNone},
		{"pembrolizumab time course data", core.FieldNone},
		{"sessions about osimertinib", core.FieldNone},
		{"", core.FieldNone},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, TargetField(tt.query), "query: %q", tt.query)
		})
	}
}
