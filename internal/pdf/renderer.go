// Package pdf renders a chat transcript as a PDF document.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/talkweave/recapbot/internal/database"
)

// Render produces a PDF transcript of the given messages. The title is
// printed as a document heading; each message gets a bold header line with
// the sender and timestamp followed by the message body.
func Render(title string, messages []database.Message) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()

	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetFont("Helvetica", "B", 14)
	doc.MultiCell(0, 8, tr(title), "", "L", false)
	doc.Ln(4)

	for _, m := range messages {
		header := fmt.Sprintf("%s (%s)", m.Username, m.Timestamp.UTC().Format(time.DateTime))

		doc.SetFont("Helvetica", "B", 10)
		doc.MultiCell(0, 5, tr(header), "", "L", false)

		doc.SetFont("Helvetica", "", 10)
		doc.MultiCell(0, 5, tr(m.Text), "", "L", false)
		doc.Ln(2)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering PDF: %w", err)
	}
	return buf.Bytes(), nil
}
