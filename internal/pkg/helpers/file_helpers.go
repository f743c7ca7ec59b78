package helpers

import (
	"fmt"
	"mime"
	"strings"
	"unicode"
)

// SanitizeFilename drops characters that are unsafe in a download filename
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsControl(r) || strings.ContainsRune(`/\"'<>:|?*`, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// QuestionPaperFilename builds "<subject>_<year>.pdf", falling back to the record id
func QuestionPaperFilename(id int64, subjectName, yearName string) string {
	subject := SanitizeFilename(subjectName)
	year := SanitizeFilename(yearName)

	switch {
	case subject != "" && year != "":
		return subject + "_" + year + ".pdf"
	case subject != "":
		return subject + ".pdf"
	case year != "":
		return year + ".pdf"
	default:
		return fmt.Sprintf("question_paper_%d.pdf", id)
	}
}

// AttachmentDisposition formats a Content-Disposition header value for a download
func AttachmentDisposition(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return `attachment; filename="download.pdf"`
}
