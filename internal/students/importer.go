package students

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/attendly/presence-backend/internal/db"
	"github.com/attendly/presence-backend/internal/httpx"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ImportResult is the per-file summary returned to the administrator.
type ImportResult struct {
	SuccessCount int      `json:"success_count"`
	ErrorCount   int      `json:"error_count"`
	Errors       []string `json:"errors"`
	Message      string   `json:"message"`
}

var requiredColumns = []string{"matricule", "nom", "prenom"}

var nameCaser = cases.Title(language.French)

// ImportCSV ingests rows of matricule,nom,prenom. Bad rows are reported and
// skipped; good rows are created. Names are title-cased so "DUPONT" and
// "dupont" import identically.
func ImportCSV(r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.New("empty or unreadable CSV")
	}
	// Strip a UTF-8 BOM from exports produced by spreadsheet tools.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing CSV columns: %s", strings.Join(missing, ", "))
	}

	result := &ImportResult{Errors: []string{}}
	line := 1 // header was line 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		matricule := strings.TrimSpace(record[col["matricule"]])
		if matricule == "" {
			result.ErrorCount++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: missing matricule", line))
			continue
		}

		var existing Student
		if err := db.DB.Where("matricule = ?", matricule).First(&existing).Error; err == nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: matricule %q already exists", line, matricule))
			continue
		}

		student := Student{
			Matricule: matricule,
			LastName:  nameCaser.String(strings.TrimSpace(record[col["nom"]])),
			FirstName: nameCaser.String(strings.TrimSpace(record[col["prenom"]])),
			IsActive:  true,
		}
		if err := db.DB.Create(&student).Error; err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: could not save", line))
			continue
		}
		result.SuccessCount++
	}

	result.Message = fmt.Sprintf("import finished: %d students created, %d errors",
		result.SuccessCount, result.ErrorCount)
	return result, nil
}

// ImportHandler accepts a multipart upload under the "file" field.
func ImportHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "expected multipart upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "file field is required")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "file must be a CSV")
		return
	}

	result, err := ImportCSV(file)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_csv", err.Error())
		return
	}
	httpx.WriteJSON(w, http.StatusOK, result)
}
