package seed

// seedSchema is the JSON Schema every knowledge seed file must satisfy.
// Validation runs on the YAML document converted to plain Go values, so
// error field paths map directly onto the YAML structure.
var seedSchema = map[string]any{
	"type":     "object",
	"required": []string{"version", "seed_examples"},
	"properties": map[string]any{
		"version": map[string]any{
			"type": "integer",
		},
		"domain": map[string]any{
			"type": "string",
		},
		"document_outline": map[string]any{
			"type": "string",
		},
		// Tolerated and ignored: upstream seed files may carry a
		// document section pointing at a git repository.
		"document": map[string]any{
			"type": "object",
		},
		"seed_examples": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":     "object",
				"required": []string{"context", "questions_and_answers"},
				"properties": map[string]any{
					"context": map[string]any{
						"type":      "string",
						"minLength": 1,
					},
					"questions_and_answers": map[string]any{
						"type":     "array",
						"minItems": 1,
						"items": map[string]any{
							"type":     "object",
							"required": []string{"question", "answer"},
							"properties": map[string]any{
								"question": map[string]any{
									"type":      "string",
									"minLength": 1,
								},
								"answer": map[string]any{
									"type":      "string",
									"minLength": 1,
								},
							},
						},
					},
				},
			},
		},
	},
}
