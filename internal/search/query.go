package search

// BuildQuery builds the bool query for a text search: a boosted multi_match over the
// applicant's name, the loan purpose and the employer, or an exact national id match.
func BuildQuery(q Query) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					map[string]interface{}{
						"multi_match": map[string]interface{}{
							"query":  q.Text,
							"fields": []string{"fullName^3", "loanPurpose^2", "employer"},
							"type":   "best_fields",
						},
					},
					map[string]interface{}{
						"term": map[string]interface{}{
							"nationalId": q.Text,
						},
					},
				},
				"minimum_should_match": 1,
			},
		},
		"sort": []interface{}{
			"_score",
			map[string]interface{}{"createdAt": map[string]interface{}{"order": "desc"}},
		},
	}
}
