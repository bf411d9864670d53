package students

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestImportCSV_MissingColumns(t *testing.T) {
	_, err := ImportCSV(strings.NewReader("matricule,nom\nS001,Dupont\n"))
	if err == nil {
		t.Fatal("expected an error for missing columns")
	}
	if !strings.Contains(err.Error(), "prenom") {
		t.Errorf("expected the missing column to be named, got: %v", err)
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	if _, err := ImportCSV(strings.NewReader("")); err == nil {
		t.Fatal("expected an error for an empty file")
	}
}

func TestImportCSV_StripsBOM(t *testing.T) {
	// A BOM in front of the first header cell must not hide the column.
	result, err := ImportCSV(strings.NewReader("\uFEFFmatricule,nom,prenom\n"))
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if result.SuccessCount != 0 || result.ErrorCount != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestImportCSV_HeaderCaseInsensitive(t *testing.T) {
	result, err := ImportCSV(strings.NewReader("Matricule, NOM ,Prenom\n"))
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if result.ErrorCount != 0 {
		t.Errorf("expected no errors, got %+v", result)
	}
}

func TestImportCSV_MissingMatriculeIsReported(t *testing.T) {
	result, err := ImportCSV(strings.NewReader("matricule,nom,prenom\n,Dupont,Marie\n"))
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if result.ErrorCount != 1 || result.SuccessCount != 0 {
		t.Fatalf("expected one row error, got %+v", result)
	}
	if !strings.Contains(result.Errors[0], "line 2") {
		t.Errorf("expected line number in error, got: %q", result.Errors[0])
	}
}

// uploadRequest builds a multipart POST with a single form file.
func uploadRequest(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestImportHandler_RejectsNonCSV(t *testing.T) {
	rec := httptest.NewRecorder()
	ImportHandler(rec, uploadRequest(t, "file", "students.xlsx", "matricule,nom,prenom\n"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "CSV") {
		t.Errorf("expected CSV hint in error, got: %s", rec.Body.String())
	}
}

func TestImportHandler_RequiresFileField(t *testing.T) {
	rec := httptest.NewRecorder()
	ImportHandler(rec, uploadRequest(t, "attachment", "students.csv", "matricule,nom,prenom\n"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "file field") {
		t.Errorf("expected file-field error, got: %s", rec.Body.String())
	}
}
