package recovery

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const confirmationText = `Děkujeme za rezervaci

Dobrý den, Jan Novák,
vaši rezervaci jsme přijali.

Služba: Pánský střih
Termín: pátek 23. 10. 2026 v 9:30
Délka: 30 min
`

func TestExtractFromEmail(t *testing.T) {
	rec, err := ExtractFromEmail("Potvrzení rezervace: pátek 23. 10. 2026 9:30", confirmationText)
	require.NoError(t, err)
	assert.Equal(t, "Jan Novák", rec.CustomerName)
	assert.Equal(t, "Pánský střih", rec.Service)
	assert.Equal(t, "2026-10-23", rec.Date)
	assert.Equal(t, "09:30", rec.Time)
	assert.Equal(t, SourceEmail, rec.Source)

	_, err = ExtractFromEmail("Rezervace zrušena: pátek 23. 10. 2026 9:30", confirmationText)
	assert.ErrorIs(t, err, ErrNotAppointmentEmail)

	_, err = ExtractFromEmail("Potvrzení rezervace: x", "Služba: Vousy\nTermín: 31. 2. 2026 v 10:00\n")
	assert.ErrorIs(t, err, ErrNotAppointmentEmail)
}

func TestFromExport(t *testing.T) {
	export := `[
 {"id":"m1","to":["Jan@Example.cz"],"subject":"Potvrzení rezervace: x","text":` + jsonString(confirmationText) + `,"created_at":"2026-10-20T10:00:00Z"},
 {"id":"m2","to":["jan@example.cz"],"subject":"Připomínka rezervace: x","text":` + jsonString(confirmationText) + `,"created_at":"2026-10-22T09:30:00Z"},
 {"id":"m3","to":["x@example.cz"],"subject":"Newsletter","text":"","created_at":"2026-10-22T09:30:00Z"}
]`

	var out bytes.Buffer
	written, skipped, err := FromExport(strings.NewReader(export), &out)
	require.NoError(t, err)
	assert.Equal(t, 1, written)
	assert.Equal(t, 2, skipped)
	assert.Contains(t, out.String(), `"customer_email":"jan@example.cz"`)
	assert.Contains(t, out.String(), `"source_id":"m1"`)
}

func jsonString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + strings.ReplaceAll(s, "\n", `\n`) + `"`
}
