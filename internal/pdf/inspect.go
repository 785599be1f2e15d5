// Package pdf inspects PDF files linked from a publications page.
package pdf

import (
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DOI pattern: 10.XXXX/... where XXXX is 4+ digits
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// doiPages is how many leading pages are searched for a DOI.
const doiPages = 3

// Info describes a readable PDF.
type Info struct {
	Pages int
	DOI   string // first DOI found on the leading pages, if any
}

// Inspect opens a PDF and reports its page count and printed DOI.
// An error means the file is not a readable PDF.
func Inspect(filePath string) (Info, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	info := Info{Pages: r.NumPage()}

	maxPages := min(doiPages, info.Pages)
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if doi := FindDOI(text); doi != "" {
			info.DOI = doi
			break
		}
	}

	return info, nil
}

// FindDOI returns the first plausible DOI in text, or "".
func FindDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		match = strings.TrimRight(match, ".,;:)")
		if isValidDOI(match) {
			return match
		}
	}
	return ""
}

// isValidDOI performs basic validation on a DOI.
func isValidDOI(doi string) bool {
	if len(doi) < 10 || !strings.HasPrefix(doi, "10.") {
		return false
	}
	slashIdx := strings.Index(doi, "/")
	return slashIdx != -1 && slashIdx < len(doi)-1
}
