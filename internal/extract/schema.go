package extract

// ResponseSchema returns a JSON-Schema (draft 2020-12 subset) as a generic map
// describing the expense-analysis response shape. We validate the raw body
// against it before decoding, so a malformed response is rejected as a
// structural failure instead of silently degrading.
func ResponseSchema() map[string]any {
	field := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"type":            detectionProp(),
			"label_detection": detectionProp(),
			"value_detection": detectionProp(),
		},
	}
	fieldList := map[string]any{"type": "array", "items": field}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"expense_documents": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"summary_fields": fieldList,
						"line_item_groups": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"line_items": map[string]any{
										"type": "array",
										"items": map[string]any{
											"type": "object",
											"properties": map[string]any{
												"fields": fieldList,
											},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}
}

func detectionProp() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{"type": "string"},
		},
	}
}
