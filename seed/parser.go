// Package seed parses knowledge seed specification files (qna.yaml).
//
// Validation is strict: a malformed seed file aborts the entire run with a
// domain.SchemaError carrying the offending field path, because grounding
// correctness depends on well-formed context excerpts. There is no partial
// output from a bad seed file.
package seed

import (
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/khaledsulayman/data-ingestion/domain"
	"github.com/khaledsulayman/data-ingestion/internal/identity"
)

// DefaultFilename is the seed specification filename expected inside a
// knowledge directory.
const DefaultFilename = "qna.yaml"

// qnaFile mirrors the seed file YAML structure.
type qnaFile struct {
	Version         int           `yaml:"version"`
	Domain          string        `yaml:"domain"`
	DocumentOutline string        `yaml:"document_outline"`
	SeedExamples    []seedExample `yaml:"seed_examples"`
}

type seedExample struct {
	Context             string `yaml:"context"`
	QuestionsAndAnswers []struct {
		Question string `yaml:"question"`
		Answer   string `yaml:"answer"`
	} `yaml:"questions_and_answers"`
}

// ParseFile reads and parses the seed specification at path.
func ParseFile(path string) (*domain.SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data, path)
}

// Parse parses seed specification bytes. The path is recorded as the
// knowledge-base entry identifier on every record.
func Parse(data []byte, path string) (*domain.SeedFile, error) {
	// Generic unmarshal first so schema validation sees the document
	// exactly as written, including unexpected shapes.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &domain.SchemaError{Reason: fmt.Sprintf("invalid YAML: %v", err)}
	}
	if raw == nil {
		return nil, &domain.SchemaError{Reason: "empty seed file"}
	}

	if err := validate(raw); err != nil {
		return nil, err
	}

	var parsed qnaFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, &domain.SchemaError{Reason: fmt.Sprintf("invalid YAML: %v", err)}
	}

	file := &domain.SeedFile{
		Path:            path,
		Version:         parsed.Version,
		Domain:          parsed.Domain,
		DocumentOutline: parsed.DocumentOutline,
	}

	for i, example := range parsed.SeedExamples {
		record := domain.SeedRecord{
			ID:      identity.SeedID(path, i),
			EntryID: path,
			Index:   i,
			Context: example.Context,
		}
		for _, qna := range example.QuestionsAndAnswers {
			record.QnA = append(record.QnA, domain.QnAPair{
				Question: qna.Question,
				Answer:   qna.Answer,
			})
		}
		file.Records = append(file.Records, record)
	}

	return file, nil
}

// validate checks the document against the seed schema and converts the
// first violation into a SchemaError with its field path.
func validate(doc map[string]any) error {
	schemaLoader := gojsonschema.NewGoLoader(seedSchema)
	docLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	if result.Valid() {
		return nil
	}

	first := result.Errors()[0]
	field := first.Field()
	if field == "(root)" {
		field = ""
	}
	return &domain.SchemaError{
		Field:  field,
		Reason: first.Description(),
	}
}
